package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
)

func newTestRAGService(t *testing.T) (RAGService, *MockVectorStore, *MockEmbedder, *MockLLMProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := NewMockVectorStore(ctrl)
	embedder := NewMockEmbedder(ctrl)
	provider := NewMockLLMProvider(ctrl)
	service := NewRAGService(store, embedder, provider, "college_documents", 500, 50, 3)
	return service, store, embedder, provider
}

func TestQueryEmptyCollection(t *testing.T) {
	service, store, _, _ := newTestRAGService(t)
	store.EXPECT().Count(gomock.Any()).Return(0, nil)

	resp, err := service.Query(context.Background(), "What is the deadline?")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.Answer != "No documents in the system yet. Please upload documents first." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", resp.Confidence)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", resp.Sources)
	}
}

func TestQueryNoRelevantChunks(t *testing.T) {
	service, store, embedder, _ := newTestRAGService(t)
	store.EXPECT().Count(gomock.Any()).Return(42, nil)
	embedder.EXPECT().Embed(gomock.Any(), "What is the deadline?").Return([]float32{0.1, 0.2}, nil)
	store.EXPECT().Query(gomock.Any(), []float32{0.1, 0.2}, 3).Return([]RetrievedChunk{}, nil)

	resp, err := service.Query(context.Background(), "What is the deadline?")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.Answer != "No relevant documents found for this question." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", resp.Confidence)
	}
}

func TestQueryGeneratesAnswer(t *testing.T) {
	service, store, embedder, provider := newTestRAGService(t)

	question := "When does the semester start?"
	store.EXPECT().Count(gomock.Any()).Return(10, nil)
	embedder.EXPECT().Embed(gomock.Any(), question).Return([]float32{0.5}, nil)
	store.EXPECT().Query(gomock.Any(), []float32{0.5}, 3).Return([]RetrievedChunk{
		{Text: "The semester starts in September.", Source: "calendar.pdf"},
		{Text: "Orientation week precedes lectures.", Source: "handbook.pdf"},
		{Text: "Lectures begin on September 2nd.", Source: "calendar.pdf"},
	}, nil)
	provider.EXPECT().Name().Return("Ollama").AnyTimes()
	provider.EXPECT().Model().Return("llama3").AnyTimes()
	provider.EXPECT().GenerateAnswer(gomock.Any(), SystemPrompt(), gomock.Any()).
		Return("The semester starts in September.", nil)

	resp, err := service.Query(context.Background(), question)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.Question != question {
		t.Errorf("Question = %q, want %q", resp.Question, question)
	}
	if resp.Answer != "The semester starts in September." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", resp.Confidence)
	}
	want := []string{"calendar.pdf", "handbook.pdf"}
	if len(resp.Sources) != len(want) {
		t.Fatalf("Sources = %v, want %v", resp.Sources, want)
	}
	for i := range want {
		if resp.Sources[i] != want[i] {
			t.Errorf("Sources[%d] = %q, want %q", i, resp.Sources[i], want[i])
		}
	}
}

func TestQueryProviderError(t *testing.T) {
	service, store, embedder, provider := newTestRAGService(t)

	store.EXPECT().Count(gomock.Any()).Return(1, nil)
	embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{0.5}, nil)
	store.EXPECT().Query(gomock.Any(), gomock.Any(), 3).Return([]RetrievedChunk{
		{Text: "some text", Source: "a.txt"},
	}, nil)
	provider.EXPECT().Name().Return("Ollama").AnyTimes()
	provider.EXPECT().Model().Return("llama3").AnyTimes()
	provider.EXPECT().GenerateAnswer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("connection refused"))

	if _, err := service.Query(context.Background(), "anything"); err == nil {
		t.Fatal("Query() expected error, got nil")
	}
}

func TestLoadDocumentUnsupportedExtension(t *testing.T) {
	service, _, _, _ := newTestRAGService(t)

	resp, err := service.LoadDocument(context.Background(), "/tmp/report.docx", "report.docx")
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false for unsupported extension")
	}
}

func TestLoadDocumentEmptyFile(t *testing.T) {
	service, _, _, _ := newTestRAGService(t)

	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := service.LoadDocument(context.Background(), path, "empty.txt")
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false for empty file")
	}
	if resp.Message != "No text content found in document." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestLoadDocumentIndexesChunks(t *testing.T) {
	service, store, embedder, _ := newTestRAGService(t)

	content := "The library is open from 8am to 10pm on weekdays."
	path := filepath.Join(t.TempDir(), "library.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store.EXPECT().DeleteBySource(gomock.Any(), "library.txt").Return(nil)
	embedder.EXPECT().Embed(gomock.Any(), content).Return([]float32{0.1, 0.2, 0.3}, nil)
	store.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []ChunkRecord, vectors [][]float32) error {
			if len(records) != 1 || len(vectors) != 1 {
				t.Fatalf("got %d records and %d vectors, want 1 each", len(records), len(vectors))
			}
			if records[0].Source != "library.txt" {
				t.Errorf("Source = %q, want %q", records[0].Source, "library.txt")
			}
			if records[0].Text != content {
				t.Errorf("Text = %q, want %q", records[0].Text, content)
			}
			if records[0].ChunkNum != 0 {
				t.Errorf("ChunkNum = %d, want 0", records[0].ChunkNum)
			}
			if records[0].FileHash == "" {
				t.Error("FileHash is empty")
			}
			return nil
		})

	resp, err := service.LoadDocument(context.Background(), path, "library.txt")
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if !resp.Success {
		t.Fatalf("Success = false: %s", resp.Message)
	}
	if resp.ChunksCreated != 1 {
		t.Errorf("ChunksCreated = %d, want 1", resp.ChunksCreated)
	}
	if resp.Filename != "library.txt" {
		t.Errorf("Filename = %q, want %q", resp.Filename, "library.txt")
	}
}

func TestStats(t *testing.T) {
	service, store, embedder, provider := newTestRAGService(t)

	store.EXPECT().Count(gomock.Any()).Return(128, nil)
	embedder.EXPECT().Model().Return("nomic-embed-text")
	provider.EXPECT().Name().Return("OpenRouter")
	provider.EXPECT().Model().Return("meta-llama/llama-3.1-8b-instruct")

	stats, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalDocuments != 128 {
		t.Errorf("TotalDocuments = %d, want 128", stats.TotalDocuments)
	}
	if stats.CollectionName != "college_documents" {
		t.Errorf("CollectionName = %q", stats.CollectionName)
	}
	if stats.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("EmbeddingModel = %q", stats.EmbeddingModel)
	}
	if stats.LLMProvider != "OpenRouter" {
		t.Errorf("LLMProvider = %q", stats.LLMProvider)
	}
}

func TestListDocumentsSorted(t *testing.T) {
	service, store, _, _ := newTestRAGService(t)

	store.EXPECT().SourceCounts(gomock.Any()).Return(map[string]int{
		"syllabus.pdf": 12,
		"calendar.txt": 3,
		"handbook.md":  7,
	}, nil)

	resp, err := service.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("Count = %d, want 3", resp.Count)
	}
	wantOrder := []string{"calendar.txt", "handbook.md", "syllabus.pdf"}
	for i, want := range wantOrder {
		if resp.Documents[i].Source != want {
			t.Errorf("Documents[%d].Source = %q, want %q", i, resp.Documents[i].Source, want)
		}
	}
	if resp.Documents[2].Chunks != 12 {
		t.Errorf("syllabus.pdf chunks = %d, want 12", resp.Documents[2].Chunks)
	}
}
