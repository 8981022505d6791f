// Package checker defines the checker contract, the shared check
// context, and the built-in checkers.
package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rchen/sitecheck/internal/models"
	"github.com/rchen/sitecheck/internal/resolver"
)

// Context carries the shared resources of one scan run: the project
// root, the active resolver, and a per-run file content cache.
//
// The cache gives read-once-per-run semantics: repeated reads within a
// run are free and stable even if a file is edited mid-run. Single run,
// single goroutine; the cache is not synchronized.
type Context struct {
	Root     string
	Resolver resolver.Resolver

	fileCache map[string]string
}

// NewContext creates a check context for the given root and resolver.
func NewContext(root string, res resolver.Resolver) *Context {
	return &Context{
		Root:      root,
		Resolver:  res,
		fileCache: make(map[string]string),
	}
}

// ReadFile returns a file's UTF-8 content, cached for the run.
func (c *Context) ReadFile(path string) (string, error) {
	key := filepath.Clean(path)
	if content, ok := c.fileCache[key]; ok {
		return content, nil
	}

	data, err := os.ReadFile(key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	c.fileCache[key] = content
	return content, nil
}

// FileLines returns the file's lines without line endings.
func (c *Context) FileLines(path string) ([]string, error) {
	content, err := c.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(content), nil
}

// ContextLines returns the lines surrounding line (1-based), clamped at
// file boundaries.
func (c *Context) ContextLines(file string, line, before, after int) (*models.ContextLines, error) {
	lines, err := c.FileLines(file)
	if err != nil {
		return nil, err
	}

	idx := line - 1
	start := idx - before
	if start < 0 {
		start = 0
	}
	end := idx + after + 1
	if end > len(lines) {
		end = len(lines)
	}

	ctx := &models.ContextLines{}
	for i := start; i < idx && i < len(lines); i++ {
		ctx.Before = append(ctx.Before, models.ContextLine{Num: i + 1, Text: lines[i]})
	}

	current := ""
	if idx >= 0 && idx < len(lines) {
		current = lines[idx]
	}
	ctx.Current = models.ContextLine{Num: line, Text: current}

	for i := idx + 1; i < end; i++ {
		ctx.After = append(ctx.After, models.ContextLine{Num: i + 1, Text: lines[i]})
	}
	return ctx, nil
}

// RelativePath returns path relative to the project root, or the
// original path when it is outside the root.
func (c *Context) RelativePath(path string) string {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// ClearCache drops all cached file content.
func (c *Context) ClearCache() {
	c.fileCache = make(map[string]string)
}

// splitLines mirrors Python's splitlines for \n-terminated text: the
// trailing newline does not produce an empty final line.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
