package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var embeddedCatalog string

var defaultCatalog = mustLoadEmbedded()

// Default returns the process-wide catalog built from the embedded
// projects.yaml.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	c, err := Load(strings.NewReader(embeddedCatalog))
	if err != nil {
		panic(fmt.Sprintf("load embedded catalog: %v", err))
	}
	return c
}

type document struct {
	Projects []Project `yaml:"projects"`
}

// Load decodes a YAML catalog document and validates it. Unknown keys are
// rejected so typos in field names fail loudly instead of producing empty
// fields.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode catalog: empty document")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Projects)
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
