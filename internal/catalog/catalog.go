// Package catalog holds the immutable experience catalog together with the
// pure filter and sort engines that run over it.
// Nothing in this package performs I/O after Load returns.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pkordes/experience-cart/internal/domain"
)

//go:embed data/experiences.json
var defaultData []byte

// Catalog is a read-only, ordered set of experiences indexed by ID.
// It is safe for concurrent use because it is never mutated after Load.
type Catalog struct {
	experiences []domain.Experience
	byID        map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Load(bytes.NewReader(defaultData))
	if err != nil {
		return nil, fmt.Errorf("catalog.Default: %w", err)
	}
	return c, nil
}

// LoadFile reads a JSON catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a JSON array of experiences and validates its shape.
// Returns domain.ErrValidation for duplicate or empty ids, negative prices,
// unknown age groups and missing or malformed dates.
func Load(r io.Reader) (*Catalog, error) {
	var experiences []domain.Experience
	if err := json.NewDecoder(r).Decode(&experiences); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", domain.ErrValidation, err)
	}
	return New(experiences)
}

// New builds a Catalog from an in-memory experience list. The slice is copied.
func New(experiences []domain.Experience) (*Catalog, error) {
	c := &Catalog{
		experiences: slices.Clone(experiences),
		byID:        make(map[string]int, len(experiences)),
	}
	for i, exp := range c.experiences {
		if err := validateExperience(exp); err != nil {
			return nil, fmt.Errorf("experience %d: %w", i, err)
		}
		if _, dup := c.byID[exp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate experience id %q", domain.ErrValidation, exp.ID)
		}
		c.byID[exp.ID] = i
	}
	return c, nil
}

// All returns every experience in catalog order. The returned slice is a copy.
func (c *Catalog) All() []domain.Experience {
	return slices.Clone(c.experiences)
}

// Len returns the number of experiences in the catalog.
func (c *Catalog) Len() int {
	return len(c.experiences)
}

// Find looks up an experience by ID.
func (c *Catalog) Find(id string) (domain.Experience, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Experience{}, false
	}
	return c.experiences[i], true
}

func validateExperience(exp domain.Experience) error {
	if strings.TrimSpace(exp.ID) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	if exp.Price < 0 {
		return fmt.Errorf("%w: %s: price must not be negative", domain.ErrValidation, exp.ID)
	}
	if !exp.AgeGroup.Valid() {
		return fmt.Errorf("%w: %s: unknown age group %q", domain.ErrValidation, exp.ID, exp.AgeGroup)
	}
	if exp.DateRange.StartDate.IsZero() || exp.DateRange.EndDate.IsZero() {
		return fmt.Errorf("%w: %s: date_range requires start_date and end_date", domain.ErrValidation, exp.ID)
	}
	return nil
}
