package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/driver"
	"github.com/vellum-lang/vellumc/internal/scope"
)

// docLoader hands the one open document back to the driver without
// touching disk, so "compile" can reuse the same Build pipeline the CLI
// does.
type docLoader struct {
	path string
	mod  *ast.Module
}

func (l docLoader) Load(path string) (*ast.Module, error) {
	if path != l.path || l.mod == nil {
		return nil, fmt.Errorf("no parser is wired into this server: %s was never lexed into a module", path)
	}
	return l.mod, nil
}

func (s *Server) workspaceExecuteCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != "compile" {
		return nil, fmt.Errorf("unknown command: %s", params.Command)
	}

	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("invalid arguments: %v", params.Arguments)
	}

	uri, ok := params.Arguments[0].(protocol.DocumentUri)
	if !ok {
		return nil, fmt.Errorf("invalid argument: %v", params.Arguments[0])
	}

	doc, ok := s.documents[uri]
	if !ok {
		fmt.Fprintf(os.Stderr, "document not found: %s\n", uri)
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	if doc.LanguageID != "vellum" {
		return nil, fmt.Errorf("unsupported language: %s", doc.LanguageID)
	}

	d := driver.New(docLoader{path: uri, mod: s.astCache[uri]})
	d.SetTarget(scope.TargetScript)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	outDir := os.TempDir()
	if err := d.Build(ctx, uri, outDir); err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	text, err := os.ReadFile(filepath.Join(outDir, stem+".js"))
	if err != nil {
		return nil, fmt.Errorf("reading build output: %w", err)
	}

	response := protocol.TextDocumentItem{
		URI:        strings.TrimSuffix(uri, ".vl") + ".js",
		LanguageID: "javascript",
		Version:    0,
		Text:       string(text),
	}

	return response, nil
}
