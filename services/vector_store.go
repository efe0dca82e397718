package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// Metadata keys attached to every stored chunk.
const (
	metaSource   = "source"
	metaFileHash = "file_hash"
	metaChunkNum = "chunk_num"
)

// ChunkRecord is one embedded passage to be stored.
type ChunkRecord struct {
	ID       string
	Text     string
	Source   string
	FileHash string
	ChunkNum int
}

// RetrievedChunk is one passage returned from a similarity search.
type RetrievedChunk struct {
	Text   string
	Source string
}

//go:generate mockgen -source=vector_store.go -destination=mock_vector_store.go -package=services VectorStore

// VectorStore is the narrow view of the vector database the pipeline needs.
type VectorStore interface {
	Add(ctx context.Context, records []ChunkRecord, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, nResults int) ([]RetrievedChunk, error)
	Count(ctx context.Context) (int, error)
	SourceCounts(ctx context.Context) (map[string]int, error)
	SourceHashes(ctx context.Context) (map[string]string, error)
	DeleteBySource(ctx context.Context, source string) error
}

// chromaStore implements VectorStore on top of a ChromaDB v2 collection.
type chromaStore struct {
	collection chromago.Collection
}

// NewChromaStore wraps an existing Chroma collection.
func NewChromaStore(collection chromago.Collection) VectorStore {
	return &chromaStore{collection: collection}
}

func (s *chromaStore) Add(ctx context.Context, records []ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("got %d records but %d vectors", len(records), len(vectors))
	}

	ids := make([]chromago.DocumentID, 0, len(records))
	texts := make([]string, 0, len(records))
	embs := make([]embeddings.Embedding, 0, len(records))
	metas := make([]chromago.DocumentMetadata, 0, len(records))

	for i, rec := range records {
		ids = append(ids, chromago.DocumentID(rec.ID))
		texts = append(texts, rec.Text)
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(vectors[i]))
		metas = append(metas, chromago.NewDocumentMetadata(
			chromago.NewStringAttribute(metaSource, rec.Source),
			chromago.NewStringAttribute(metaFileHash, rec.FileHash),
			chromago.NewIntAttribute(metaChunkNum, int64(rec.ChunkNum)),
		))
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add records to chromadb: %w", err)
	}
	return nil
}

func (s *chromaStore) Query(ctx context.Context, vector []float32, nResults int) ([]RetrievedChunk, error) {
	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(nResults),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var chunks []RetrievedChunk
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()

	if len(documentGroups) == 0 {
		return chunks, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		source := ""
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			meta := metadataToMap(metadataGroups[0][i])
			if v, ok := meta[metaSource].(string); ok {
				source = v
			}
		}
		chunks = append(chunks, RetrievedChunk{Text: doc.ContentString(), Source: source})
	}
	return chunks, nil
}

func (s *chromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

func (s *chromaStore) SourceCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := s.forEachMetadata(ctx, func(meta map[string]interface{}) {
		if source, ok := meta[metaSource].(string); ok {
			counts[source]++
		}
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *chromaStore) SourceHashes(ctx context.Context) (map[string]string, error) {
	hashes := make(map[string]string)
	err := s.forEachMetadata(ctx, func(meta map[string]interface{}) {
		source, ok := meta[metaSource].(string)
		if !ok {
			return
		}
		hash, ok := meta[metaFileHash].(string)
		if !ok {
			return
		}
		if _, exists := hashes[source]; !exists {
			hashes[source] = hash
		}
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

func (s *chromaStore) DeleteBySource(ctx context.Context, source string) error {
	where := chromago.EqString(metaSource, source)
	if err := s.collection.Delete(ctx, chromago.WithWhereDelete(where)); err != nil {
		return fmt.Errorf("failed to delete records for source %q: %w", source, err)
	}
	return nil
}

func (s *chromaStore) forEachMetadata(ctx context.Context, fn func(meta map[string]interface{})) error {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get documents from chromadb: %w", err)
	}
	for _, meta := range results.GetMetadatas() {
		if meta == nil {
			continue
		}
		fn(metadataToMap(meta))
	}
	return nil
}

// metadataToMap converts a chroma DocumentMetadata into a plain map. The
// type exposes no direct accessor for all values, so it goes through JSON.
func metadataToMap(meta chromago.DocumentMetadata) map[string]interface{} {
	metadataMap := make(map[string]interface{})
	if meta == nil {
		return metadataMap
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		slog.Warn("could not marshal chunk metadata", "error", err)
		return metadataMap
	}
	if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
		slog.Warn("could not unmarshal chunk metadata", "error", err)
		return make(map[string]interface{})
	}
	return metadataMap
}
