package booking

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Variant is the visual style of a package card.
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
)

// Package is a priced trip offering. The catalog is presentation data and
// is never used to validate submissions.
type Package struct {
	ID          string  `yaml:"id" json:"id"`
	Variant     Variant `yaml:"variant" json:"variant"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	ImagePath   string  `yaml:"image" json:"imgPath"`
	Price       int     `yaml:"price" json:"price"`
	Hours       int     `yaml:"hours" json:"time"`
}

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// PriceLabel formats the price as "$1,200".
func (p Package) PriceLabel() string {
	return pricePrinter.Sprintf("$%d", p.Price)
}

// DurationLabel formats the trip length as "4 hours".
func (p Package) DurationLabel() string {
	if p.Hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", p.Hours)
}

// Info returns the data used to pre-fill the booking form.
func (p Package) Info() PackageInfo {
	return PackageInfo{ID: p.ID, Name: p.Title, Price: p.Price}
}

// Catalog is an immutable, ordered list of packages.
type Catalog struct {
	packages []Package
	byID     map[string]int
}

var ErrInvalidCatalog = errors.New("booking: invalid catalog")

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc struct {
		Packages []Package `yaml:"packages"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Packages))}
	for _, p := range doc.Packages {
		switch {
		case strings.TrimSpace(p.ID) == "":
			return nil, fmt.Errorf("%w: package without id", ErrInvalidCatalog)
		case p.Price < 0 || p.Hours < 0:
			return nil, fmt.Errorf("%w: package %q has negative price or duration", ErrInvalidCatalog, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate package id %q", ErrInvalidCatalog, p.ID)
		}
		p.Description = strings.TrimSpace(p.Description)
		c.byID[p.ID] = len(c.packages)
		c.packages = append(c.packages, p)
	}
	return c, nil
}

//go:embed catalog.yaml
var catalogYAML string

var defaultCatalog = func() *Catalog {
	c, err := LoadCatalog(strings.NewReader(catalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}()

// DefaultCatalog returns the embedded package catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// All returns a copy of the packages in display order.
func (c *Catalog) All() []Package {
	return append([]Package(nil), c.packages...)
}

// ByID looks a package up by id.
func (c *Catalog) ByID(id string) (Package, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Package{}, false
	}
	return c.packages[i], true
}
