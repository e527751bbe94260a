package datasets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/survlab/internal/lifetime"
)

var ErrUnknownDataset = errors.New("datasets: unknown dataset")

// UnknownDatasetError reports a name that is not in the catalog.
type UnknownDatasetError struct {
	Name      string
	Available []string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset: %s (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownDatasetError) Is(target error) bool {
	return target == ErrUnknownDataset
}

type Loader func() (lifetime.Records, error)

type Dataset struct {
	Name        string
	Description string
	Load        Loader
}

// Catalog is an ordered set of datasets keyed by display name.
type Catalog struct {
	entries []Dataset
}

func NewCatalog(entries ...Dataset) *Catalog {
	c := &Catalog{}
	for _, d := range entries {
		c = c.With(d)
	}
	return c
}

// With returns a catalog extended by d. A dataset with the same name replaces
// the existing entry in place.
func (c *Catalog) With(d Dataset) *Catalog {
	out := &Catalog{entries: make([]Dataset, 0, len(c.entries)+1)}
	replaced := false
	for _, e := range c.entries {
		if e.Name == d.Name {
			out.entries = append(out.entries, d)
			replaced = true
			continue
		}
		out.entries = append(out.entries, e)
	}
	if !replaced {
		out.entries = append(out.entries, d)
	}
	return out
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, d := range c.entries {
		names[i] = d.Name
	}
	return names
}

func (c *Catalog) Datasets() []Dataset {
	return append([]Dataset(nil), c.entries...)
}

func (c *Catalog) Lookup(name string) (Dataset, error) {
	for _, d := range c.entries {
		if d.Name == name {
			return d, nil
		}
	}
	return Dataset{}, &UnknownDatasetError{Name: name, Available: c.Names()}
}

func (c *Catalog) Load(name string) (lifetime.Records, error) {
	d, err := c.Lookup(name)
	if err != nil {
		return lifetime.Records{}, err
	}
	rec, err := d.Load()
	if err != nil {
		return lifetime.Records{}, fmt.Errorf("load %s: %w", name, err)
	}
	return rec, nil
}
