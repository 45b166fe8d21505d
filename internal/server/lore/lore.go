// Package lore is the read-only catalog of display text for the vocabulary
// values. It exists for presentation only; domain decisions never consult it.
package lore

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Kind selects one section of the catalog.
type Kind string

const (
	KindMood    Kind = "mood"
	KindFeather Kind = "feather"
	KindSymbol  Kind = "symbol"
)

type Entry struct {
	Key         string `yaml:"-"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type file struct {
	Moods    map[string]Entry `yaml:"moods"`
	Feathers map[string]Entry `yaml:"feathers"`
	Symbols  map[string]Entry `yaml:"symbols"`
}

// Catalog maps every vocabulary value to its display entry.
type Catalog struct {
	sections map[Kind]map[string]Entry
	order    map[Kind][]string
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lore catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML catalog and checks that it covers every vocabulary
// value.
func Parse(b []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode lore catalog: %w", err)
	}

	c := &Catalog{
		sections: map[Kind]map[string]Entry{
			KindMood:    f.Moods,
			KindFeather: f.Feathers,
			KindSymbol:  f.Symbols,
		},
		order: map[Kind][]string{
			KindMood:    keys(vocab.Moods),
			KindFeather: keys(vocab.FeatherWeights),
			KindSymbol:  keys(vocab.Symbols),
		},
	}

	for kind, ks := range c.order {
		for _, k := range ks {
			if _, ok := c.sections[kind][k]; !ok {
				return nil, fmt.Errorf("lore catalog: %s %q has no entry", kind, k)
			}
		}
	}
	return c, nil
}

func keys[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Lookup returns the entry for key in the given section.
func (c *Catalog) Lookup(kind Kind, key string) (Entry, bool) {
	e, ok := c.sections[kind][key]
	if ok {
		e.Key = key
	}
	return e, ok
}

// List returns the section's entries in vocabulary order.
func (c *Catalog) List(kind Kind) ([]Entry, error) {
	ks, ok := c.order[kind]
	if !ok {
		return nil, fmt.Errorf("unknown lore kind %q", kind)
	}
	out := make([]Entry, 0, len(ks))
	for _, k := range ks {
		e, _ := c.Lookup(kind, k)
		out = append(out, e)
	}
	return out, nil
}
