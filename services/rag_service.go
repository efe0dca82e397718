package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"collegerag/models"
)

// answerConfidence is reported for every successfully generated answer.
// No scoring model exists; it is a fixed value.
const answerConfidence = 0.85

//go:generate mockgen -source=rag_service.go -destination=mock_rag_service.go -package=services RAGService

// RAGService is the core pipeline: document ingestion, question answering
// and system statistics.
type RAGService interface {
	LoadDocument(ctx context.Context, path, filename string) (*models.DocumentUploadResponse, error)
	Query(ctx context.Context, question string) (*models.AnswerResponse, error)
	Stats(ctx context.Context) (*models.StatsResponse, error)
	ListDocuments(ctx context.Context) (*models.ListDocumentsResponse, error)
}

// ragServiceImpl holds the dependencies the pipeline needs.
type ragServiceImpl struct {
	store          VectorStore
	embedder       Embedder
	provider       LLMProvider
	splitter       textsplitter.RecursiveCharacter
	collectionName string
	topK           int
}

// NewRAGService creates a RAG service instance.
func NewRAGService(store VectorStore, embedder Embedder, provider LLMProvider, collectionName string, chunkSize, chunkOverlap, topK int) RAGService {
	return &ragServiceImpl{
		store:    store,
		embedder: embedder,
		provider: provider,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		collectionName: collectionName,
		topK:           topK,
	}
}

// LoadDocument reads a stored file, chunks it, embeds every chunk and stores
// the result. Chunks of a previously indexed version of the same file are
// replaced.
func (r *ragServiceImpl) LoadDocument(ctx context.Context, path, filename string) (*models.DocumentUploadResponse, error) {
	slog.Info("loading document", "filename", filename)

	if !IsSupportedFile(filename) {
		return &models.DocumentUploadResponse{
			Success: false,
			Message: fmt.Sprintf("Only %s files are supported.", strings.Join(SupportedExtensions(), ", ")),
		}, nil
	}

	text, err := ExtractTextFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not extract text from %q: %w", filename, err)
	}

	chunks, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("could not split %q into chunks: %w", filename, err)
	}
	if len(chunks) == 0 {
		return &models.DocumentUploadResponse{
			Success: false,
			Message: "No text content found in document.",
		}, nil
	}
	slog.Info("split document into chunks", "filename", filename, "chunks", len(chunks))

	hash, err := calculateFileHash(path)
	if err != nil {
		return nil, fmt.Errorf("could not hash %q: %w", filename, err)
	}

	// Replace any previous version of this document.
	if err := r.store.DeleteBySource(ctx, filename); err != nil {
		return nil, err
	}

	records := make([]ChunkRecord, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := r.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("could not embed chunk %d of %q: %w", i, filename, err)
		}
		records = append(records, ChunkRecord{
			ID:       fmt.Sprintf("%s-chunk%d", uuid.New().String(), i),
			Text:     chunk,
			Source:   filename,
			FileHash: hash,
			ChunkNum: i,
		})
		vectors = append(vectors, vector)
	}

	if err := r.store.Add(ctx, records, vectors); err != nil {
		return nil, err
	}

	slog.Info("document loaded", "filename", filename, "chunks", len(chunks))
	return &models.DocumentUploadResponse{
		Success:       true,
		Message:       "Document loaded successfully.",
		Filename:      filename,
		ChunksCreated: len(chunks),
	}, nil
}

// Query runs the full pipeline: embed the question, retrieve similar chunks,
// build a prompt and generate an answer.
func (r *ragServiceImpl) Query(ctx context.Context, question string) (*models.AnswerResponse, error) {
	slog.Info("query received", "question", question)

	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &models.AnswerResponse{
			Question:   question,
			Answer:     "No documents in the system yet. Please upload documents first.",
			Sources:    []string{},
			Confidence: 0,
		}, nil
	}

	questionVector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("could not embed question: %w", err)
	}

	chunks, err := r.store.Query(ctx, questionVector, r.topK)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &models.AnswerResponse{
			Question:   question,
			Answer:     "No relevant documents found for this question.",
			Sources:    []string{},
			Confidence: 0,
		}, nil
	}
	slog.Info("retrieved relevant chunks", "count", len(chunks))

	texts := make([]string, 0, len(chunks))
	sources := make([]string, 0, len(chunks))
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
		if chunk.Source != "" && !seen[chunk.Source] {
			seen[chunk.Source] = true
			sources = append(sources, chunk.Source)
		}
	}

	prompt := BuildAnswerPrompt(question, strings.Join(texts, "\n\n"))

	slog.Info("generating answer", "provider", r.provider.Name(), "model", r.provider.Model())
	answer, err := r.provider.GenerateAnswer(ctx, SystemPrompt(), prompt)
	if err != nil {
		return nil, fmt.Errorf("could not generate answer: %w", err)
	}

	return &models.AnswerResponse{
		Question:   question,
		Answer:     answer,
		Sources:    sources,
		Confidence: answerConfidence,
	}, nil
}

// Stats returns a snapshot of the system state.
func (r *ragServiceImpl) Stats(ctx context.Context) (*models.StatsResponse, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.StatsResponse{
		TotalDocuments: count,
		CollectionName: r.collectionName,
		EmbeddingModel: r.embedder.Model(),
		LLMProvider:    r.provider.Name(),
		LLMModel:       r.provider.Model(),
	}, nil
}

// ListDocuments returns every indexed source with its chunk count, sorted by
// source name.
func (r *ragServiceImpl) ListDocuments(ctx context.Context) (*models.ListDocumentsResponse, error) {
	counts, err := r.store.SourceCounts(ctx)
	if err != nil {
		return nil, err
	}

	documents := make([]models.DocumentInfo, 0, len(counts))
	for source, chunks := range counts {
		documents = append(documents, models.DocumentInfo{Source: source, Chunks: chunks})
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Source < documents[j].Source
	})

	return &models.ListDocumentsResponse{
		Count:     len(documents),
		Documents: documents,
	}, nil
}
