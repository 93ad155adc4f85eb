// Package dictionary provides the dictionary catalog and word list loading.
package dictionary

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/verte-zerg/qwerty/internal/model"
)

var (
	// ErrNotFound is returned for dictionary ids outside the catalog.
	ErrNotFound = errors.New("dictionary not found")
	// ErrEmpty is returned when a word list has no usable entries.
	ErrEmpty = errors.New("word list is empty")
)

//go:embed assets/*.json
var assets embed.FS

// DefaultID is the dictionary selected when nothing is configured.
const DefaultID = "cet4"

var builtin = []model.DictionaryDescriptor{
	{
		ID:          "cet4",
		Name:        "CET-4",
		Source:      "assets/cet4.json",
		Description: "College English Test band 4 core vocabulary",
		Lang:        "en",
	},
	{
		ID:          "code",
		Name:        "Coder",
		Source:      "assets/code.json",
		Description: "Common programming vocabulary",
		Lang:        "en",
	},
}

// Catalog is the process-wide registry of dictionaries. Word lists are
// loaded on first use and never change afterwards.
type Catalog struct {
	descriptors []model.DictionaryDescriptor
	index       map[string]int

	mu    sync.Mutex
	cache map[string][]model.WordEntry
}

// New returns a catalog with the embedded dictionaries and any *.json word
// lists found in userDir. A missing userDir is not an error.
func New(userDir string) (*Catalog, error) {
	descriptors := append([]model.DictionaryDescriptor(nil), builtin...)
	if userDir != "" {
		user, err := scanUserDir(userDir)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, user...)
	}
	c := &Catalog{
		descriptors: make([]model.DictionaryDescriptor, 0, len(descriptors)),
		index:       make(map[string]int, len(descriptors)),
		cache:       map[string][]model.WordEntry{},
	}
	for _, d := range descriptors {
		if _, ok := c.index[d.ID]; ok {
			continue
		}
		c.index[d.ID] = len(c.descriptors)
		c.descriptors = append(c.descriptors, d)
	}
	return c, nil
}

// List returns the descriptors in catalog order.
func (c *Catalog) List() []model.DictionaryDescriptor {
	return append([]model.DictionaryDescriptor(nil), c.descriptors...)
}

// Lookup returns the descriptor for id.
func (c *Catalog) Lookup(id string) (model.DictionaryDescriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.DictionaryDescriptor{}, false
	}
	return c.descriptors[i], true
}

// Resolve returns the full word list for id. Callers must not modify it.
func (c *Catalog) Resolve(id string) ([]model.WordEntry, error) {
	desc, ok := c.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if words, ok := c.cache[id]; ok {
		return words, nil
	}
	words, err := load(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %q: %w", id, err)
	}
	c.cache[id] = words
	return words, nil
}

func load(desc model.DictionaryDescriptor) ([]model.WordEntry, error) {
	if strings.HasPrefix(desc.Source, "assets/") {
		data, err := assets.ReadFile(desc.Source)
		if err != nil {
			return nil, err
		}
		return ParseEntries(bytes.NewReader(data), FilterForLang(desc.Lang))
	}
	return LoadFile(desc.Source)
}

func scanUserDir(dir string) ([]model.DictionaryDescriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dictionary directory: %w", err)
	}
	out := make([]model.DictionaryDescriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		out = append(out, model.DictionaryDescriptor{
			ID:          id,
			Name:        id,
			Source:      filepath.Join(dir, entry.Name()),
			Description: "user dictionary",
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
