package codebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/sol/project"
	"github.com/dhamidi/sol/solidity"
)

var log = commonlog.GetLogger("sol.codebase")

// Codebase holds the current document of every known source file. A
// document is never modified: updates build a new one outside the lock and
// swap it in, so readers holding the old document keep a consistent tree.
//
// Files open in an editor are owned by the editor: their document follows
// the buffer and disk changes are ignored until the file is closed.
type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*solidity.Document
	open    map[string]bool
}

func New(proj *project.Project) *Codebase {
	return &Codebase{
		project: proj,
		files:   make(map[string]*solidity.Document),
		open:    make(map[string]bool),
	}
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

// ScanAll parses every source file of the project in parallel. Open files
// keep their buffer.
func (c *Codebase) ScanAll(ctx context.Context) error {
	files, err := c.project.SourceFiles()
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.ReloadFile(path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("scanned %d files under %s", len(files), c.project.RootDir)
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile rebuilds the document of path from content and makes it the
// current one.
func (c *Codebase) UpdateFile(path string, content []byte) *solidity.Document {
	doc := solidity.NewDocument(path, content, c)
	c.mu.Lock()
	c.files[path] = doc
	c.mu.Unlock()
	log.Debugf("updated %s", path)
	return doc
}

// OpenFile marks path as edited in a buffer and makes content its
// document.
func (c *Codebase) OpenFile(path string, content []byte) *solidity.Document {
	c.mu.Lock()
	c.open[path] = true
	c.mu.Unlock()
	return c.UpdateFile(path, content)
}

// CloseFile hands path back to the disk. The document is rebuilt from the
// saved file, or dropped when there is none.
func (c *Codebase) CloseFile(path string) error {
	c.mu.Lock()
	delete(c.open, path)
	c.mu.Unlock()

	if err := c.ScanFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.RemoveFile(path)
			return nil
		}
		return err
	}
	return nil
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

// ReloadFile rebuilds the document of path from disk unless the file is
// open. It reports whether the document was replaced.
func (c *Codebase) ReloadFile(path string) (bool, error) {
	if c.IsOpen(path) {
		return false, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", path, err)
	}
	doc := solidity.NewDocument(path, content, c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[path] {
		return false, nil
	}
	c.files[path] = doc
	log.Debugf("reloaded %s", path)
	return true, nil
}

// RemoveClosedFile forgets path unless it is open.
func (c *Codebase) RemoveClosedFile(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[path] {
		return false
	}
	delete(c.files, path)
	return true
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetDocument(path string) *solidity.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Documents returns the current documents sorted by path.
func (c *Codebase) Documents() []*solidity.Document {
	c.mu.RLock()
	docs := make([]*solidity.Document, 0, len(c.files))
	for _, doc := range c.files {
		docs = append(docs, doc)
	}
	c.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path() < docs[j].Path()
	})
	return docs
}

// ResolveImport finds the document imported as importPath from the file at
// from. Files outside the scanned sources, such as libraries, are loaded
// from disk on first use.
func (c *Codebase) ResolveImport(from, importPath string) (*solidity.Document, bool) {
	candidates := c.project.ImportCandidates(from, importPath)
	for _, candidate := range candidates {
		if doc := c.GetDocument(candidate); doc != nil {
			return doc, true
		}
	}
	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		log.Debugf("loading import %q of %s from %s", importPath, from, candidate)
		return c.UpdateFile(candidate, content), true
	}
	log.Debugf("unresolved import %q in %s", importPath, from)
	return nil, false
}

func (c *Codebase) offsetAt(path string, pos solidity.Position) (*solidity.Document, int, bool) {
	doc := c.GetDocument(path)
	if doc == nil {
		return nil, 0, false
	}
	return doc, solidity.OffsetAt(doc.Content(), pos), true
}

// DefinitionAt returns the declaration named at pos.
func (c *Codebase) DefinitionAt(path string, pos solidity.Position) (solidity.Location, bool) {
	doc, offset, ok := c.offsetAt(path, pos)
	if !ok {
		return solidity.Location{}, false
	}
	ref := doc.TypeReferenceAt(offset)
	if !ref.Found() {
		return solidity.Location{}, false
	}
	return ref.Location, true
}

// ReferencesAt lists the references to the entity at pos across every
// document. Without includeDeclaration the declaration itself is left out.
func (c *Codebase) ReferencesAt(path string, pos solidity.Position, includeDeclaration bool) []solidity.Location {
	doc, offset, ok := c.offsetAt(path, pos)
	if !ok {
		return nil
	}
	locations := doc.ReferencesAt(offset, c.Documents())
	// the declaration always comes first
	if !includeDeclaration && len(locations) > 0 {
		return locations[1:]
	}
	return locations
}

func (c *Codebase) SymbolsOf(path string) []solidity.Symbol {
	doc := c.GetDocument(path)
	if doc == nil {
		return nil
	}
	return doc.Symbols()
}

func (c *Codebase) CompletionsAt(path string, pos solidity.Position) []*solidity.CompletionItem {
	doc, offset, ok := c.offsetAt(path, pos)
	if !ok {
		return nil
	}
	return doc.CompletionsAt(offset)
}

func (c *Codebase) HoverAt(path string, pos solidity.Position) (string, bool) {
	doc, offset, ok := c.offsetAt(path, pos)
	if !ok {
		return "", false
	}
	return doc.HoverAt(offset)
}
