package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPatterns are the filename globs the loader indexes.
var DefaultPatterns = []string{"*.md", "*.txt"}

// Loader walks a documents directory and feeds matching files into the index.
type Loader struct {
	index    *Index
	dir      string
	patterns []glob.Glob
}

// NewLoader compiles the glob patterns and returns a loader rooted at dir.
func NewLoader(index *Index, dir string, patterns []string) (*Loader, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}

	return &Loader{index: index, dir: dir, patterns: compiled}, nil
}

// Dir returns the directory the loader watches.
func (l *Loader) Dir() string { return l.dir }

// Matches reports whether a filename passes the loader's glob filter.
func (l *Loader) Matches(name string) bool {
	base := filepath.Base(name)
	for _, g := range l.patterns {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// LoadAll indexes every matching file under the directory and returns the
// number of documents indexed. Unreadable files are skipped, not fatal.
func (l *Loader) LoadAll(ctx context.Context) (int, error) {
	count := 0
	err := filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !l.Matches(d.Name()) {
			return nil
		}
		if loadErr := l.LoadFile(path); loadErr != nil {
			l.index.logger.Warn("skipping document", "path", path, "error", loadErr)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walk documents dir: %w", err)
	}
	return count, nil
}

// LoadFile indexes a single file, using its relative path as the document id
// and its first line as the title.
func (l *Loader) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil
	}

	title := strings.TrimSpace(strings.TrimLeft(firstLine(content), "# "))
	id := l.docID(path)

	return l.index.Add(id, Document{
		Title:   title,
		Content: content,
		Source:  path,
	})
}

// RemoveFile drops a file's document from the index.
func (l *Loader) RemoveFile(path string) error {
	return l.index.Remove(l.docID(path))
}

func (l *Loader) docID(path string) string {
	if rel, err := filepath.Rel(l.dir, path); err == nil {
		return rel
	}
	return path
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
