package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileIndexingService keeps the documents directory and the vector store in
// sync: files placed in the directory out-of-band (or left over from earlier
// runs) are indexed through the same path uploads take.
type FileIndexingService struct {
	store      VectorStore
	ragService RAGService
}

// NewFileIndexingService creates an indexing service.
func NewFileIndexingService(store VectorStore, ragService RAGService) *FileIndexingService {
	return &FileIndexingService{
		store:      store,
		ragService: ragService,
	}
}

// ScanAndIndexDirectory syncs the directory with the vector store: new and
// changed files are (re)indexed, indexed sources without a backing file are
// removed. Change detection uses sha256 content hashes stored in chunk
// metadata.
func (s *FileIndexingService) ScanAndIndexDirectory(ctx context.Context, dirPath string) {
	slog.Info("starting directory scan", "dir", dirPath)

	indexed, err := s.store.SourceHashes(ctx)
	if err != nil {
		slog.Error("could not read current index state", "error", err)
		return
	}
	slog.Info("index state loaded", "sources", len(indexed))

	localFiles := make(map[string]bool)
	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsSupportedFile(path) {
			return nil
		}

		filename := filepath.Base(path)
		localFiles[filename] = true

		hash, err := calculateFileHash(path)
		if err != nil {
			slog.Warn("could not hash file", "path", path, "error", err)
			return nil
		}
		if prev, ok := indexed[filename]; ok && prev == hash {
			return nil // unchanged
		}

		slog.Info("indexing file", "path", path)
		if _, err := s.ragService.LoadDocument(ctx, path, filename); err != nil {
			slog.Error("failed to index file", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("error walking documents directory", "dir", dirPath, "error", err)
	}

	for filename := range indexed {
		if !localFiles[filename] {
			slog.Info("removing deleted file from index", "filename", filename)
			if err := s.store.DeleteBySource(ctx, filename); err != nil {
				slog.Error("failed to delete records", "filename", filename, "error", err)
			}
		}
	}
	slog.Info("directory scan finished", "dir", dirPath)
}

// WatchDirectory blocks, re-indexing files as they change on disk, until the
// context is cancelled.
func (s *FileIndexingService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create file watcher", "error", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsSupportedFile(event.Name) {
					continue
				}

				filename := filepath.Base(event.Name)

				// Editors often write via create-temp-and-rename, which can
				// fire several events for one save; Create and Write are
				// handled the same way and LoadDocument replaces prior chunks.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					slog.Info("file modified, re-indexing", "path", event.Name)
					if _, err := s.ragService.LoadDocument(ctx, event.Name, filename); err != nil {
						slog.Error("failed to re-index file", "path", event.Name, "error", err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					slog.Info("file removed, deleting from index", "path", event.Name)
					if err := s.store.DeleteBySource(ctx, filename); err != nil {
						slog.Error("failed to delete records", "filename", filename, "error", err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	slog.Info("watching documents directory", "dir", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		slog.Error("failed to watch directory", "dir", dirPath, "error", err)
		return
	}

	<-ctx.Done()
	slog.Info("watcher shutting down")
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
