// Package source defines the file-reading collaborator used by the lexer
// when resolving *use imports. Keeping it behind an interface (rather than
// calling os.ReadFile directly from pkg/lexer) lets tests substitute an
// in-memory file set.
package source

import (
	"fmt"
	"os"
)

// Reader resolves a filename to its full text.
type Reader interface {
	ReadFile(name string) (string, error)
}

// OS reads files from the local filesystem.
type OS struct{}

// ReadFile implements Reader.
func (OS) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// Map is an in-memory Reader backed by a fixed set of named contents,
// useful for exercising *use without touching a real filesystem.
type Map map[string]string

// ReadFile implements Reader.
func (m Map) ReadFile(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", fmt.Errorf("reading %s: file not found", name)
	}
	return text, nil
}
