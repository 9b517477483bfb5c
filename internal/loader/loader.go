// Package loader discovers and parses the briefing corpus on disk.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

// Corpus holds every report discovered under a root directory.
type Corpus struct {
	Root    string // absolute path of the corpus root
	Reports []*core.Report
	byPath  map[string]*core.Report
	hashes  map[string]string // corpus path -> content hash
}

// Report returns a report by corpus-relative path, or nil.
func (c *Corpus) Report(path string) *core.Report {
	return c.byPath[path]
}

// ContentHash returns the sha256 hex digest of a report's source, keyed by
// corpus-relative path.
func (c *Corpus) ContentHash(path string) string {
	return c.hashes[path]
}

// LoadError is a non-fatal per-file failure during corpus loading.
type LoadError struct {
	Path string // corpus-relative path
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Result is the outcome of a corpus load: the documents that parsed, plus
// the per-file errors for those that did not.
type Result struct {
	Corpus *Corpus
	Errors []LoadError
}

// HasErrors returns true if any file failed to load.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Loader discovers and parses briefing reports.
type Loader struct {
	parser *parser.Parser
	logger *slog.Logger
}

// New creates a corpus loader.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{parser: parser.New(), logger: logger}
}

// Load walks root for Markdown reports, parses each, and resolves its
// profile. Hidden entries and entries starting with "_" are skipped, as is
// anything outside ".md". Reports come back sorted by corpus path, and a
// file that fails to parse becomes a LoadError instead of aborting the
// walk.
func (l *Loader) Load(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corpus root: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("corpus root %s: %w", root, err)
	}

	corpus := &Corpus{
		Root:   absRoot,
		byPath: make(map[string]*core.Report),
		hashes: make(map[string]string),
	}
	result := &Result{Corpus: corpus}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != absRoot && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus walk failed: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		corpusPath := filepath.ToSlash(rel)

		doc, hash, err := l.loadFile(path, corpusPath)
		if err != nil {
			l.logger.Warn("skipping unparseable report", "path", corpusPath, "error", err)
			result.Errors = append(result.Errors, LoadError{Path: corpusPath, Err: err})
			continue
		}

		corpus.Reports = append(corpus.Reports, doc)
		corpus.byPath[corpusPath] = doc
		corpus.hashes[corpusPath] = hash
	}

	l.logger.Debug("corpus loaded",
		"root", absRoot,
		"reports", len(corpus.Reports),
		"errors", len(result.Errors))
	return result, nil
}

// LoadFile parses a single report outside corpus context. The corpus path
// is the file's basename.
func (l *Loader) LoadFile(path string) (*core.Report, error) {
	doc, _, err := l.loadFile(path, filepath.Base(path))
	return doc, err
}

func (l *Loader) loadFile(path, corpusPath string) (*core.Report, string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	doc, err := l.parser.Parse(corpusPath, src)
	if err != nil {
		return nil, "", err
	}
	doc.FilePath = path
	resolveProfile(doc)
	return doc, Hash(src), nil
}

// resolveProfile fills in Report.Profile: the frontmatter declaration wins,
// otherwise the section layout is matched against registered profiles.
func resolveProfile(doc *core.Report) {
	var titles []string
	for _, sec := range doc.Sections {
		if !sec.IsPreamble() {
			titles = append(titles, sec.Title)
		}
	}
	if p := schema.Resolve(doc.Front.Profile, titles); p != nil {
		doc.Profile = p.Name
	}
}

// Hash returns the sha256 hex digest of a report source. State tracking
// keys re-index decisions on it.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
