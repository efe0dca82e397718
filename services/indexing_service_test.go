package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"

	"collegerag/models"
)

func TestScanAndIndexDirectory(t *testing.T) {
	dir := t.TempDir()

	writeDoc := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	newPath := writeDoc("new.txt", "brand new content")
	unchangedPath := writeDoc("unchanged.txt", "already indexed content")
	writeDoc("ignored.docx", "wrong extension")

	unchangedHash, err := calculateFileHash(unchangedPath)
	if err != nil {
		t.Fatal(err)
	}

	ctrl := gomock.NewController(t)
	store := NewMockVectorStore(ctrl)
	rag := NewMockRAGService(ctrl)
	indexer := NewFileIndexingService(store, rag)

	// "gone.txt" is indexed but no longer on disk.
	store.EXPECT().SourceHashes(gomock.Any()).Return(map[string]string{
		"unchanged.txt": unchangedHash,
		"gone.txt":      "stale-hash",
	}, nil)
	rag.EXPECT().LoadDocument(gomock.Any(), newPath, "new.txt").
		Return(&models.DocumentUploadResponse{Success: true}, nil)
	store.EXPECT().DeleteBySource(gomock.Any(), "gone.txt").Return(nil)

	indexer.ScanAndIndexDirectory(context.Background(), dir)
}

func TestScanAndIndexDirectoryReindexesChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "changed.txt")
	if err := os.WriteFile(path, []byte("second revision"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctrl := gomock.NewController(t)
	store := NewMockVectorStore(ctrl)
	rag := NewMockRAGService(ctrl)
	indexer := NewFileIndexingService(store, rag)

	store.EXPECT().SourceHashes(gomock.Any()).Return(map[string]string{
		"changed.txt": "hash-of-first-revision",
	}, nil)
	rag.EXPECT().LoadDocument(gomock.Any(), path, "changed.txt").
		Return(&models.DocumentUploadResponse{Success: true}, nil)

	indexer.ScanAndIndexDirectory(context.Background(), dir)
}
