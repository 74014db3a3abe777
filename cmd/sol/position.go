package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhamidi/sol/codebase"
	"github.com/dhamidi/sol/project"
	"github.com/dhamidi/sol/solidity"
)

// parseFilePosition splits "path:line:column" with 1-based line and column
// into an absolute path and a zero-based position.
func parseFilePosition(arg string) (string, solidity.Position, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 3 {
		return "", solidity.Position{}, fmt.Errorf("expected file:line:column, got %q", arg)
	}
	n := len(parts)
	line, err := strconv.Atoi(parts[n-2])
	if err != nil || line < 1 {
		return "", solidity.Position{}, fmt.Errorf("invalid line in %q", arg)
	}
	column, err := strconv.Atoi(parts[n-1])
	if err != nil || column < 1 {
		return "", solidity.Position{}, fmt.Errorf("invalid column in %q", arg)
	}
	path, err := filepath.Abs(strings.Join(parts[:n-2], ":"))
	if err != nil {
		return "", solidity.Position{}, fmt.Errorf("resolve path: %w", err)
	}
	return path, solidity.Position{Line: line - 1, Character: column - 1}, nil
}

// openCodebase scans the project at root and makes sure path is loaded even
// when it lies outside the configured sources.
func openCodebase(ctx context.Context, root, path string) (*codebase.Codebase, error) {
	proj, err := project.LoadFrom(root)
	if err != nil {
		return nil, err
	}
	c := codebase.New(proj)
	if err := c.ScanAll(ctx); err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if c.GetDocument(path) == nil {
		if err := c.ScanFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func formatLocation(loc solidity.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Range.Start.Line+1, loc.Range.Start.Character+1)
}
