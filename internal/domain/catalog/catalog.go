// Package catalog holds the reference data of known skin conditions.
//
// A Catalog is built once at startup and never mutated afterwards, so a
// single value can be shared by any number of concurrent diagnosis requests.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

// Catalog is an ordered, read-only set of conditions keyed by name.
type Catalog struct {
	entries     []entities.Condition
	index       map[string]int
	imageLabels []string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultConditions(), DefaultImageLabels)
	if err != nil {
		// built-in data is validated by tests
		panic(fmt.Sprintf("catalog: invalid built-in data: %v", err))
	}
	return c
}

// New validates entries and builds a catalog from them. Keywords are
// lower-cased and deduplicated, first occurrence wins. imageLabels must name
// catalog entries; when empty every entry name is used.
func New(entries []entities.Condition, imageLabels []string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, apperrors.NewValidationError("catalog must contain at least one condition")
	}

	c := &Catalog{
		entries: make([]entities.Condition, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("condition %d has no name", i))
		}
		if _, dup := c.index[name]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("duplicate condition name %q", name))
		}
		if len(entry.Keywords) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("condition %q has no keywords", name))
		}
		if len(entry.Recommendations) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("condition %q has no recommendations", name))
		}

		keywords := make([]string, 0, len(entry.Keywords))
		seen := make(map[string]struct{}, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, apperrors.NewValidationError(fmt.Sprintf("condition %q has an empty keyword", name))
			}
			// a keyword scores at most once per condition
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}

		c.index[name] = len(c.entries)
		c.entries = append(c.entries, entities.Condition{
			Name:            name,
			Keywords:        keywords,
			Description:     entry.Description,
			Recommendations: slices.Clone(entry.Recommendations),
		})
	}

	if len(imageLabels) == 0 {
		imageLabels = c.Names()
	}
	for _, label := range imageLabels {
		if _, ok := c.index[label]; !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("image label %q is not a catalog condition", label))
		}
	}
	c.imageLabels = slices.Clone(imageLabels)

	return c, nil
}

// Len returns the number of conditions.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all conditions in definition order.
func (c *Catalog) Entries() []entities.Condition {
	out := make([]entities.Condition, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.Clone()
	}
	return out
}

// Names returns condition names in definition order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, entry := range c.entries {
		names[i] = entry.Name
	}
	return names
}

// ImageLabels returns the labels an image classifier stand-in may emit.
func (c *Catalog) ImageLabels() []string {
	return slices.Clone(c.imageLabels)
}

// Get returns the condition with the given name.
func (c *Catalog) Get(name string) (entities.Condition, bool) {
	i, ok := c.index[name]
	if !ok {
		return entities.Condition{}, false
	}
	return c.entries[i].Clone(), true
}

// Lookup returns the condition with the given name, or the first catalog
// entry when the name is unknown.
func (c *Catalog) Lookup(name string) entities.Condition {
	if entry, ok := c.Get(name); ok {
		return entry
	}
	return c.entries[0].Clone()
}
