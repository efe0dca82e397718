package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"collegerag/models"
	"collegerag/services"
)

// RAGController handles the HTTP requests for the RAG API. It depends on the
// RAGService to perform the actual business logic and on the DocumentStore
// to persist uploads.
type RAGController struct {
	ragService services.RAGService
	documents  *services.DocumentStore
}

// NewRAGController creates a RAGController. Called from main.go to inject
// the dependencies.
func NewRAGController(service services.RAGService, documents *services.DocumentStore) *RAGController {
	return &RAGController{
		ragService: service,
		documents:  documents,
	}
}

// Health is the handler for GET /health and GET /api/v1/health.
func (c *RAGController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "RAG System API is running",
	})
}

// GetStats is the handler for GET /api/v1/stats.
func (c *RAGController) GetStats(ctx *gin.Context) {
	stats, err := c.ragService.Stats(ctx.Request.Context())
	if err != nil {
		slog.Error("failed to collect stats", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect stats"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// AskQuestion is the handler for POST /api/v1/query.
func (c *RAGController) AskQuestion(ctx *gin.Context) {
	var req models.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	response, err := c.ragService.Query(ctx.Request.Context(), req.Question)
	if err != nil {
		slog.Error("failed to process question", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing question"})
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// UploadDocument is the handler for POST /api/v1/documents/upload. The file
// is saved into the documents directory and indexed.
func (c *RAGController) UploadDocument(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A file is required: " + err.Error()})
		return
	}

	path, err := c.documents.SafePath(file.Filename)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.SaveUploadedFile(file, path); err != nil {
		slog.Error("failed to save uploaded file", "filename", file.Filename, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving uploaded document"})
		return
	}

	response, err := c.ragService.LoadDocument(ctx.Request.Context(), path, file.Filename)
	if err != nil {
		slog.Error("failed to load document", "filename", file.Filename, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading document"})
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// ListDocuments is the handler for GET /api/v1/documents.
func (c *RAGController) ListDocuments(ctx *gin.Context) {
	response, err := c.ragService.ListDocuments(ctx.Request.Context())
	if err != nil {
		slog.Error("failed to list documents", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	ctx.JSON(http.StatusOK, response)
}
