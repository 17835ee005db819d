package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
)

// SearchIndex wraps a Bleve index with domain-specific operations.
// All methods are safe for concurrent use.
type SearchIndex struct {
	index  bleve.Index
	path   string
	fresh  atomic.Bool
	logger *slog.Logger
	mu     sync.RWMutex // exclusive during Rebuild
}

// Options configures the search index.
type Options struct {
	DataPath string       // directory holding search.bleve and search.version
	Logger   *slog.Logger // discard if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes. A mismatch
// with the on-disk version file drops and recreates the index.
const mappingVersion = "1"

const batchSize = 500

// NewSearchIndex opens the index under opts.DataPath, creating it when
// missing, unreadable or built with an older mapping. NeedsReindex reports
// whether the returned index started empty.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := filepath.Join(opts.DataPath, "search.bleve")
	versionPath := filepath.Join(opts.DataPath, "search.version")

	var index bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		existing, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, rebuilding", "new_version", mappingVersion)
		case string(existing) != mappingVersion:
			logger.Info("search index mapping version changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
		default:
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, recreating", "path", indexPath, "error", err)
				index = nil
			}
		}

		if index == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
	}

	if index != nil {
		logger.Info("opened existing search index", "path", indexPath)
		return &SearchIndex{index: index, path: indexPath, logger: logger}, nil
	}

	index, err := bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
		logger.Warn("failed to write search version file", "error", err)
	}
	logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)

	s := &SearchIndex{index: index, path: indexPath, logger: logger}
	s.fresh.Store(true)
	return s, nil
}

// NeedsReindex reports whether the index was created empty on open.
func (s *SearchIndex) NeedsReindex() bool {
	return s.fresh.Load()
}

// Close closes the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexMovie adds or replaces a movie document.
func (s *SearchIndex) IndexMovie(doc *SearchDocument) error {
	return s.indexDocument(doc)
}

// IndexPost adds or replaces a post document.
func (s *SearchIndex) IndexPost(doc *SearchDocument) error {
	return s.indexDocument(doc)
}

func (s *SearchIndex) indexDocument(doc *SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.index.Index(doc.ID(), doc.ToMap()); err != nil {
		return fmt.Errorf("index %s: %w", doc.ID(), err)
	}
	return nil
}

// IndexDocuments indexes docs in batches.
func (s *SearchIndex) IndexDocuments(docs []*SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID(), doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID(), err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.fresh.Store(false)
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SearchIndex) Delete(t DocType, entityID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(DocID(t, entityID))
}

// DeleteMany removes several documents of one type in a batch.
func (s *SearchIndex) DeleteMany(t DocType, entityIDs []string) error {
	if len(entityIDs) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range entityIDs {
		batch.Delete(DocID(t, id))
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the index and recreates it empty. Callers reindex afterwards.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.fresh.Store(true)
	s.logger.Info("rebuilt search index", "path", s.path)
	return nil
}
