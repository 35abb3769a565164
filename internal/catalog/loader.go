package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoRoot indicates a catalog file without a root node.
var ErrNoRoot = errors.New("catalog: file has no root node")

// File is the on-disk shape of one catalog document.
type File struct {
	Version int   `yaml:"version"`
	Root    *Node `yaml:"root"`
}

// LoadFile reads and parses a catalog file. Unknown fields are rejected so
// that a typo in a keyword list fails loudly at load time instead of
// silently producing an unreachable trigger.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document from raw YAML.
func Parse(data []byte) (*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Root == nil {
		return nil, ErrNoRoot
	}
	return f.Root, nil
}
