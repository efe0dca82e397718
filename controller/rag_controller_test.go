package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"collegerag/models"
	"collegerag/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.MockRAGService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	ragService := services.NewMockRAGService(ctrl)
	documents, err := services.NewDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ragController := NewRAGController(ragService, documents)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.GET("/health", ragController.Health)
	apiV1.GET("/stats", ragController.GetStats)
	apiV1.POST("/query", ragController.AskQuestion)
	apiV1.POST("/documents/upload", ragController.UploadDocument)
	apiV1.GET("/documents", ragController.ListDocuments)

	return router, ragService
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want %q", resp.Status, "healthy")
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, ragService := newTestRouter(t)

	ragService.EXPECT().Stats(gomock.Any()).Return(&models.StatsResponse{
		TotalDocuments: 5,
		CollectionName: "college_documents",
		EmbeddingModel: "nomic-embed-text",
		LLMProvider:    "Ollama",
		LLMModel:       "llama3",
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalDocuments != 5 {
		t.Errorf("TotalDocuments = %d, want 5", resp.TotalDocuments)
	}
}

func TestStatsEndpointError(t *testing.T) {
	router, ragService := newTestRouter(t)
	ragService.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("chroma down"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestQueryEndpoint(t *testing.T) {
	router, ragService := newTestRouter(t)

	ragService.EXPECT().Query(gomock.Any(), "When are exams?").Return(&models.AnswerResponse{
		Question:   "When are exams?",
		Answer:     "Exams run in June.",
		Sources:    []string{"calendar.pdf"},
		Confidence: 0.85,
	}, nil)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"question":"When are exams?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp models.AnswerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Exams run in June." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", resp.Confidence)
	}
}

func TestQueryEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing question", `{}`},
		{"empty body", ``},
		{"question too long", `{"question":"` + strings.Repeat("a", 2001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestQueryEndpointPipelineError(t *testing.T) {
	router, ragService := newTestRouter(t)
	ragService.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, errors.New("embedder unreachable"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentEndpoint(t *testing.T) {
	router, ragService := newTestRouter(t)

	ragService.EXPECT().LoadDocument(gomock.Any(), gomock.Any(), "notes.txt").
		Return(&models.DocumentUploadResponse{
			Success:       true,
			Message:       "Document loaded successfully.",
			Filename:      "notes.txt",
			ChunksCreated: 2,
		}, nil)

	body, contentType := multipartUpload(t, "notes.txt", "office hours are on Friday")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp models.DocumentUploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Errorf("Success = false: %s", resp.Message)
	}
	if resp.ChunksCreated != 2 {
		t.Errorf("ChunksCreated = %d, want 2", resp.ChunksCreated)
	}
}

func TestUploadDocumentEndpointRejectsExtension(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "malware.exe", "binary stuff")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUploadDocumentEndpointMissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListDocumentsEndpoint(t *testing.T) {
	router, ragService := newTestRouter(t)

	ragService.EXPECT().ListDocuments(gomock.Any()).Return(&models.ListDocumentsResponse{
		Count: 1,
		Documents: []models.DocumentInfo{
			{Source: "syllabus.pdf", Chunks: 12},
		},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.ListDocumentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Documents[0].Source != "syllabus.pdf" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
