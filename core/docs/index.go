// Package docs provides full-text search over the troubleshooting and FAQ
// corpus. Failures surface as error-prefixed strings rather than errors
// because downstream consumers treat that text as diagnostic signal.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	// searchTopK bounds how many fragments a search stitches together.
	searchTopK = 3

	// unavailableMessage matches the wording the diagnostic engine keys on.
	unavailableMessage = "Error: Document index not available."
)

// Document is one indexed support article or fragment.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Index wraps a bleve index of Documents.
type Index struct {
	idx    bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// OpenIndex opens an on-disk index, creating it when absent.
func OpenIndex(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}

	return &Index{idx: idx, logger: logger}, nil
}

// NewMemoryIndex creates an in-memory index, used by tests and ad hoc runs.
func NewMemoryIndex(logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{idx: idx, logger: logger}, nil
}

func buildMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	docMapping.AddFieldMappingsAt("title", textField)
	docMapping.AddFieldMappingsAt("content", textField)

	sourceField := bleve.NewTextFieldMapping()
	sourceField.Store = true
	sourceField.Index = false
	docMapping.AddFieldMappingsAt("source", sourceField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Add indexes one document under the given id.
func (i *Index) Add(id string, doc Document) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return fmt.Errorf("index closed")
	}

	if err := i.idx.Index(id, doc); err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	return nil
}

// Remove deletes one document from the index.
func (i *Index) Remove(id string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return fmt.Errorf("index closed")
	}
	return i.idx.Delete(id)
}

// DocCount reports the number of indexed documents.
func (i *Index) DocCount() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return 0
	}

	count, err := i.idx.DocCount()
	if err != nil {
		return 0
	}
	return count
}

// Search runs a match query and stitches the top fragments into one answer
// string. Per the collaborator contract it never returns an error: failures
// come back as "Error searching docs: …" text and an empty index reports
// itself unavailable.
func (i *Index) Search(ctx context.Context, query string) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return unavailableMessage
	}
	if count, err := i.idx.DocCount(); err != nil || count == 0 {
		return unavailableMessage
	}

	match := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(match, searchTopK, 0, false)
	req.Fields = []string{"title", "content"}

	result, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return fmt.Sprintf("Error searching docs: %v", err)
	}
	if len(result.Hits) == 0 {
		return "No matching documentation found for your question."
	}

	var parts []string
	for _, hit := range result.Hits {
		title, _ := hit.Fields["title"].(string)
		content, _ := hit.Fields["content"].(string)
		if content == "" {
			continue
		}
		if title != "" {
			parts = append(parts, title+": "+content)
		} else {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return "No matching documentation found for your question."
	}
	return strings.Join(parts, "\n\n")
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	return i.idx.Close()
}
