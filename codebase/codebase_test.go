package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/sol/project"
	"github.com/dhamidi/sol/solidity"
)

const ownableSource = `contract Ownable {
    address public owner;
}
`

const tokenSource = `import "@oz/Ownable.sol";

contract Token is Ownable {
    function take() public {
        owner = msg.sender;
    }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newFoundryProject lays out a foundry project whose token imports a
// remapped library contract.
func newFoundryProject(t *testing.T) *project.Project {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foundry.toml"), "[profile.default]\n")
	writeFile(t, filepath.Join(dir, "remappings.txt"), "@oz/=lib/oz/\n")
	writeFile(t, filepath.Join(dir, "lib", "oz", "Ownable.sol"), ownableSource)
	writeFile(t, filepath.Join(dir, "src", "Token.sol"), tokenSource)

	proj, err := project.LoadFrom(dir)
	require.NoError(t, err)
	return proj
}

func scanned(t *testing.T) (*Codebase, string, string) {
	t.Helper()
	proj := newFoundryProject(t)
	c := New(proj)
	require.NoError(t, c.ScanAll(context.Background()))
	return c, filepath.Join(proj.RootDir, "src", "Token.sol"), filepath.Join(proj.RootDir, "lib", "oz", "Ownable.sol")
}

func TestScanAll(t *testing.T) {
	c, token, ownable := scanned(t)

	docs := c.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, token, docs[0].Path())
	assert.Nil(t, c.GetDocument(ownable), "library files load on first use")
}

func TestScanAllCanceled(t *testing.T) {
	c := New(newFoundryProject(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.ScanAll(ctx), context.Canceled)
}

func TestDefinitionAtLoadsImports(t *testing.T) {
	c, token, ownable := scanned(t)

	loc, ok := c.DefinitionAt(token, solidity.Position{Line: 2, Character: 18})
	require.True(t, ok)
	assert.Equal(t, solidity.Location{
		Path: ownable,
		Range: solidity.Range{
			Start: solidity.Position{Line: 0, Character: 9},
			End:   solidity.Position{Line: 0, Character: 16},
		},
	}, loc)
	assert.NotNil(t, c.GetDocument(ownable))

	loc, ok = c.DefinitionAt(token, solidity.Position{Line: 0, Character: 10})
	require.True(t, ok)
	assert.Equal(t, solidity.Location{Path: ownable}, loc)

	_, ok = c.DefinitionAt(filepath.Join(c.RootDir(), "src", "Missing.sol"), solidity.Position{})
	assert.False(t, ok)
}

func TestReferencesAt(t *testing.T) {
	c, token, ownable := scanned(t)
	mention := solidity.Position{Line: 4, Character: 8}

	declaration := solidity.Location{
		Path: ownable,
		Range: solidity.Range{
			Start: solidity.Position{Line: 1, Character: 19},
			End:   solidity.Position{Line: 1, Character: 24},
		},
	}
	use := solidity.Location{
		Path: token,
		Range: solidity.Range{
			Start: solidity.Position{Line: 4, Character: 8},
			End:   solidity.Position{Line: 4, Character: 13},
		},
	}

	assert.Equal(t, []solidity.Location{declaration, use}, c.ReferencesAt(token, mention, true))
	assert.Equal(t, []solidity.Location{use}, c.ReferencesAt(token, mention, false))
}

func TestUpdateFileKeepsOldDocument(t *testing.T) {
	c, token, _ := scanned(t)
	old := c.GetDocument(token)

	updated := c.UpdateFile(token, []byte("contract Renamed {}\n"))

	assert.Same(t, updated, c.GetDocument(token))
	assert.NotSame(t, old, updated)
	_, ok := old.Contract("Token")
	assert.True(t, ok, "old document still holds its contract")
	assert.Equal(t, tokenSource, string(old.Content()))
	_, ok = updated.Contract("Token")
	assert.False(t, ok)
}

func TestRemoveFile(t *testing.T) {
	c, token, _ := scanned(t)
	c.RemoveFile(token)

	assert.Nil(t, c.GetDocument(token))
	assert.Empty(t, c.Documents())
	assert.Nil(t, c.SymbolsOf(token))
}

func TestHoverCompletionsAndSymbols(t *testing.T) {
	c, token, _ := scanned(t)

	info, ok := c.HoverAt(token, solidity.Position{Line: 4, Character: 10})
	require.True(t, ok)
	assert.Contains(t, info, "### State Variable: owner")
	assert.Contains(t, info, "address public owner")

	var labels []string
	for _, item := range c.CompletionsAt(token, solidity.Position{Line: 4, Character: 8}) {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"take", "owner", "Token", "Ownable"}, labels)

	symbols := c.SymbolsOf(token)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Token", symbols[0].Name)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "take", symbols[0].Children[0].Name)
}

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	proj, err := project.LoadFrom(dir)
	require.NoError(t, err)
	path := filepath.Join(proj.RootDir, "A.sol")
	writeFile(t, path, "contract A {}\n")

	c := New(proj)
	w := NewFileWatcher(c)
	assert.Equal(t, time.Second, w.pollInterval)

	assert.Equal(t, 1, w.scan())
	require.NotNil(t, c.GetDocument(path))
	assert.Equal(t, 0, w.scan())

	writeFile(t, path, "contract B {}\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.Equal(t, 1, w.scan())
	_, ok := c.GetDocument(path).Contract("B")
	assert.True(t, ok)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, 1, w.scan())
	assert.Nil(t, c.GetDocument(path))
}

func TestFileWatcherKeepsOpenBuffers(t *testing.T) {
	c, token, _ := scanned(t)
	w := NewFileWatcher(c)
	w.scan()

	draft := tokenSource + "struct Draft { uint a; }\n"
	c.OpenFile(token, []byte(draft))
	assert.True(t, c.IsOpen(token))

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(token, later, later))
	assert.Equal(t, 0, w.scan())
	assert.Equal(t, draft, string(c.GetDocument(token).Content()))

	require.NoError(t, os.Remove(token))
	assert.Equal(t, 0, w.scan())
	require.NotNil(t, c.GetDocument(token), "open buffers outlive their file")
}

func TestCloseFileRestoresDisk(t *testing.T) {
	c, token, _ := scanned(t)
	c.OpenFile(token, []byte("contract Unsaved {}\n"))

	require.NoError(t, c.CloseFile(token))
	assert.False(t, c.IsOpen(token))
	assert.Equal(t, tokenSource, string(c.GetDocument(token).Content()))

	scratch := filepath.Join(filepath.Dir(token), "Scratch.sol")
	c.OpenFile(scratch, []byte("contract Scratch {}\n"))
	require.NoError(t, c.CloseFile(scratch))
	assert.Nil(t, c.GetDocument(scratch), "unsaved new files go away on close")
}

func TestScanAllKeepsOpenBuffers(t *testing.T) {
	c, token, _ := scanned(t)
	c.OpenFile(token, []byte("contract Unsaved {}\n"))

	require.NoError(t, c.ScanAll(context.Background()))
	_, ok := c.GetDocument(token).Contract("Unsaved")
	assert.True(t, ok)
}

func TestLSPHandlers(t *testing.T) {
	c, token, ownable := scanned(t)
	ls := NewLSPServer("test")
	ls.codebase = c
	uri := pathToURI(token)

	err := ls.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "solidity", Version: 1, Text: tokenSource},
	})
	require.NoError(t, err)

	def, err := ls.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 2, Character: 18},
		},
	})
	require.NoError(t, err)
	loc, ok := def.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, pathToURI(ownable), loc.URI)

	hover, err := ls.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 3, Character: 14},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "### Function: take")

	refs, err := ls.textDocumentReferences(nil, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 4, Character: 8},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: false},
	})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, uri, refs[0].URI)
}

func TestLSPDidCloseRestoresDisk(t *testing.T) {
	c, token, _ := scanned(t)
	ls := NewLSPServer("test")
	ls.codebase = c
	uri := pathToURI(token)

	require.NoError(t, ls.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "solidity", Version: 1, Text: "contract Unsaved {}\n"},
	}))
	require.NoError(t, ls.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	assert.False(t, c.IsOpen(token))
	assert.Equal(t, tokenSource, string(c.GetDocument(token).Content()))
}

func TestLSPUTF16Columns(t *testing.T) {
	c, token, _ := scanned(t)
	ls := NewLSPServer("test")
	ls.codebase = c
	uri := pathToURI(token)

	// é takes two bytes but one UTF-16 unit, so owner starts at byte 17
	// and column 16
	text := strings.Replace(tokenSource, "        owner = msg.sender;", "        /* é */ owner = msg.sender;", 1)
	require.NoError(t, ls.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "solidity", Version: 1, Text: text},
	}))

	refs, err := ls.textDocumentReferences(nil, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 4, Character: 16},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: false},
	})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 4, Character: 16},
		End:   protocol.Position{Line: 4, Character: 21},
	}, refs[0].Range)

	hover, err := ls.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 4, Character: 20},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "### State Variable: owner")
}

func TestURIConversion(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "work", "src", "Token.sol")
	uri := pathToURI(path)

	got, err := uriToPath(uri)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "", pathToURI(""))
}
