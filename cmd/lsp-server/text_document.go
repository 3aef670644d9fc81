package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/diagnostics"
	"github.com/vellum-lang/vellumc/internal/driver"
	"github.com/vellum-lang/vellumc/internal/scope"
)

func spanToRange(span ast.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      protocol.UInteger(span.Start.Line - 1),
			Character: protocol.UInteger(span.Start.Column - 1),
		},
		End: protocol.Position{
			Line:      protocol.UInteger(span.End.Line - 1),
			Character: protocol.UInteger(span.End.Column - 1),
		},
	}
}

func posToLoc(pos protocol.Position) ast.Location {
	return ast.Location{
		Line:   int(pos.Line) + 1,
		Column: int(pos.Character) + 1,
	}
}

func (*Server) textDocumentDeclaration(context *glsp.Context, params *protocol.DeclarationParams) (any, error) {
	fmt.Fprintf(os.Stderr, "textDocumentDeclaration - uri = %s\n", params.TextDocument.URI)
	return nil, fmt.Errorf("textDocument/declaration not implemented yet")
}

func (s *Server) textDocumentDefinition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	mod := s.astCache[params.TextDocument.URI]
	if mod == nil {
		return nil, fmt.Errorf("textDocument/definition: module not available")
	}

	found := findNodeInModule(mod, posToLoc(params.Position))
	if found == nil || found.Expr == nil {
		return nil, fmt.Errorf("textDocument/definition: node not found")
	}

	ident, ok := found.Expr.(*ast.IdentExpr)
	if !ok {
		return nil, fmt.Errorf("textDocument/definition: node is not an identifier")
	}

	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: spanToRange(ident.Span()),
	}, nil
}

func (s *Server) textDocumentTypeDefinition(context *glsp.Context, params *protocol.TypeDefinitionParams) (any, error) {
	fmt.Fprintf(os.Stderr, "textDocumentTypeDefinition - uri = %s\n", params.TextDocument.URI)
	return nil, fmt.Errorf("textDocument/typeDefinition not implemented yet")
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.documents[params.TextDocument.URI] = params.TextDocument
	if params.TextDocument.LanguageID == "vellum" {
		s.validate(context, params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc := s.documents[params.TextDocument.URI]

	for _, change := range params.ContentChanges {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			return fmt.Errorf("incremental changes not supported")
		case protocol.TextDocumentContentChangeEventWhole:
			s.documents[params.TextDocument.URI] = protocol.TextDocumentItem{
				URI:        params.TextDocument.URI,
				LanguageID: doc.LanguageID,
				Version:    params.TextDocument.Version,
				Text:       change.Text,
			}
		}
	}

	if doc.LanguageID == "vellum" {
		s.validate(context, params.TextDocument.URI)
	}
	return nil
}

func (server *Server) textDocumentHover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	mod := server.astCache[params.TextDocument.URI]
	value := ""
	if mod != nil {
		if found := findNodeInModule(mod, posToLoc(params.Position)); found != nil && found.Decl != nil {
			if fn, ok := found.Decl.(*ast.FuncDecl); ok {
				value = "`" + fn.Name + "`"
			}
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
		Range: nil,
	}, nil
}

func addr[T any](x T) *T {
	return &x
}

func (*Server) textDocumentCodeAction(context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	compileAction := protocol.CodeAction{
		Title:       "Compile",
		Kind:        addr("compile"),
		Diagnostics: []protocol.Diagnostic{},
		IsPreferred: nil,
		Disabled:    nil,
		Edit:        nil,
		Command: &protocol.Command{
			Title:     "Compile",
			Command:   "compile",
			Arguments: []any{},
		},
		Data: nil,
	}

	return []protocol.CodeAction{compileAction}, nil
}

// validate asks the driver to build the open document and publishes
// whatever diagnostics.Error it surfaces (§7: every fallible operation
// returns an error value; the driver is the only thing that catches one).
// Building from an open editor buffer still needs a parser to populate
// astCache first; until one is wired in, this reports that gap as a single
// diagnostic rather than silently doing nothing.
func (server *Server) validate(lspContext *glsp.Context, uri protocol.DocumentUri) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	d := driver.New(docLoader{path: uri, mod: server.astCache[uri]})
	d.SetTarget(scope.TargetScript)

	diagnosticsOut := []protocol.Diagnostic{}
	if err := d.Build(ctx, uri, os.TempDir()); err != nil {
		diagnosticsOut = append(diagnosticsOut, errToDiagnostic(err))
	}

	go lspContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnosticsOut,
		Version:     nil,
	})
}

func errToDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := "vellumc"
	message := err.Error()
	span := ast.Span{}
	if de, ok := err.(diagnostics.Error); ok {
		message = de.Message()
		span = de.Span()
	}

	return protocol.Diagnostic{
		Range:              spanToRange(span),
		Severity:           &severity,
		CodeDescription:    nil,
		Source:             &source,
		Message:            message,
		Tags:               nil,
		RelatedInformation: nil,
		Data:               nil,
	}
}
