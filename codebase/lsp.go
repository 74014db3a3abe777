package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/sol/project"
	"github.com/dhamidi/sol/solidity"
)

const lsName = "sol"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentReferences:     ls.textDocumentReferences,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase returns the codebase created by the initialize request, or nil
// before it.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		log.Errorf("load project %s: %s", rootDir, err)
		return nil, err
	}
	log.Infof("project %s (%s layout)", proj.RootDir, proj.Layout)
	ls.codebase = New(proj)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		log.Warningf("initial scan: %s", err)
	}
	if ls.codebase.project.Config.Watch {
		ls.watcher = NewFileWatcher(ls.codebase)
		ls.watcher.Start()
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.OpenFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.CloseFile(path); err != nil {
		log.Warningf("close: %s", err)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("save: %s", err)
	}
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	completions := ls.codebase.CompletionsAt(path, ls.fromProtocolPosition(path, params.Position))
	if len(completions) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		items = append(items, toProtocolCompletionItem(c))
	}
	return items, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	info, ok := ls.codebase.HoverAt(path, ls.fromProtocolPosition(path, params.Position))
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: info,
		},
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	loc, ok := ls.codebase.DefinitionAt(path, ls.fromProtocolPosition(path, params.Position))
	if !ok {
		return nil, nil
	}
	return ls.toProtocolLocation(loc), nil
}

func (ls *LSPServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	locations := ls.codebase.ReferencesAt(path, ls.fromProtocolPosition(path, params.Position), params.Context.IncludeDeclaration)
	result := make([]protocol.Location, 0, len(locations))
	for _, loc := range locations {
		result = append(result, ls.toProtocolLocation(loc))
	}
	return result, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	symbols := ls.codebase.SymbolsOf(path)
	content := ls.contentOf(path)
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		result = append(result, toProtocolSymbol(content, s))
	}
	return result, nil
}

func toProtocolCompletionItem(c *solidity.CompletionItem) protocol.CompletionItem {
	kind := toProtocolKind(c.Kind)
	detail := c.Detail
	insertText := c.InsertText
	format := protocol.InsertTextFormatSnippet
	item := protocol.CompletionItem{
		Label:            c.Label,
		Kind:             &kind,
		Detail:           &detail,
		InsertText:       &insertText,
		InsertTextFormat: &format,
	}
	if c.Documentation != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: c.Documentation,
		}
	}
	return item
}

func toProtocolKind(kind solidity.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case solidity.CompletionKindContract, solidity.CompletionKindLibrary:
		return protocol.CompletionItemKindClass
	case solidity.CompletionKindInterface:
		return protocol.CompletionItemKindInterface
	case solidity.CompletionKindStruct:
		return protocol.CompletionItemKindStruct
	case solidity.CompletionKindField:
		return protocol.CompletionItemKindField
	case solidity.CompletionKindEnum:
		return protocol.CompletionItemKindEnum
	case solidity.CompletionKindEnumMember:
		return protocol.CompletionItemKindEnumMember
	case solidity.CompletionKindEvent:
		return protocol.CompletionItemKindEvent
	case solidity.CompletionKindFunction, solidity.CompletionKindModifier:
		return protocol.CompletionItemKindFunction
	case solidity.CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case solidity.CompletionKindConstructor:
		return protocol.CompletionItemKindConstructor
	case solidity.CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case solidity.CompletionKindConstant:
		return protocol.CompletionItemKindConstant
	default:
		return protocol.CompletionItemKindText
	}
}

func toProtocolSymbolKind(kind solidity.SymbolKind) protocol.SymbolKind {
	switch kind {
	case solidity.SymbolKindContract:
		return protocol.SymbolKindClass
	case solidity.SymbolKindInterface:
		return protocol.SymbolKindInterface
	case solidity.SymbolKindLibrary:
		return protocol.SymbolKindModule
	case solidity.SymbolKindStruct:
		return protocol.SymbolKindStruct
	case solidity.SymbolKindField:
		return protocol.SymbolKindField
	case solidity.SymbolKindEnum:
		return protocol.SymbolKindEnum
	case solidity.SymbolKindEnumMember:
		return protocol.SymbolKindEnumMember
	case solidity.SymbolKindEvent:
		return protocol.SymbolKindEvent
	case solidity.SymbolKindMethod, solidity.SymbolKindModifier:
		return protocol.SymbolKindMethod
	case solidity.SymbolKindConstructor:
		return protocol.SymbolKindConstructor
	case solidity.SymbolKindConstant:
		return protocol.SymbolKindConstant
	case solidity.SymbolKindVariable:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindFunction
	}
}

func toProtocolSymbol(content []byte, s solidity.Symbol) protocol.DocumentSymbol {
	detail := s.Detail
	symbol := protocol.DocumentSymbol{
		Name:           s.Name,
		Detail:         &detail,
		Kind:           toProtocolSymbolKind(s.Kind),
		Range:          toProtocolRange(content, s.Range),
		SelectionRange: toProtocolRange(content, s.SelectionRange),
	}
	for _, child := range s.Children {
		symbol.Children = append(symbol.Children, toProtocolSymbol(content, child))
	}
	return symbol
}

// contentOf returns the text positions in path are measured against, or nil
// when the file is unknown.
func (ls *LSPServer) contentOf(path string) []byte {
	if doc := ls.codebase.GetDocument(path); doc != nil {
		return doc.Content()
	}
	return nil
}

func (ls *LSPServer) toProtocolLocation(loc solidity.Location) protocol.Location {
	return protocol.Location{
		URI:   pathToURI(loc.Path),
		Range: toProtocolRange(ls.contentOf(loc.Path), loc.Range),
	}
}

func (ls *LSPServer) fromProtocolPosition(path string, p protocol.Position) solidity.Position {
	return fromProtocolPosition(ls.contentOf(path), p)
}

func toProtocolRange(content []byte, r solidity.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(content, r.Start),
		End:   toProtocolPosition(content, r.End),
	}
}

// Protocol positions count UTF-16 code units, the model counts bytes.
func toProtocolPosition(content []byte, p solidity.Position) protocol.Position {
	p = solidity.UTF16Position(content, p)
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
	}
}

func fromProtocolPosition(content []byte, p protocol.Position) solidity.Position {
	return solidity.BytePosition(content, solidity.Position{Line: int(p.Line), Character: int(p.Character)})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
