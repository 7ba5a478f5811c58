package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

type document struct {
	Categories []CategoryRecord `json:"categories" yaml:"categories"`
}

// Default returns a catalog holding the built-in categories.
func Default() (*Catalog, error) {
	c := NewCatalog()
	if err := c.LoadYAML(bytes.NewReader(builtin)); err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}

// LoadYAML decodes a catalog document and puts each category.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}
	return c.putAll(doc.Categories)
}

func (c *Catalog) LoadJSON(r io.Reader) error {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}
	return c.putAll(doc.Categories)
}

// LoadFile merges a YAML (.yaml, .yml) or JSON (.json) catalog file over
// the categories already present.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = c.LoadYAML(f)
	case ".json":
		err = c.LoadJSON(f)
	default:
		return fmt.Errorf("catalog %s: unsupported extension", path)
	}
	if err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) putAll(recs []CategoryRecord) error {
	for _, cr := range recs {
		cat, err := cr.Category()
		if err != nil {
			return err
		}
		if err := c.Put(cat); err != nil {
			return err
		}
	}
	return nil
}
