// Package locator maps a (waste type, year) pair to the download URL of
// the matching CSV resource on the Zürich open-data portal.
//
// The portal has changed its resource identifier scheme several times.
// Each period with one consistent scheme is an "era"; every era is an
// immutable mapping from waste type to a tagged resource reference, and
// the URL template is selected by the reference's kind, never by year.
package locator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zrcal/zrcal/pkg/waste"
)

const DefaultBaseURL = "https://data.stadt-zuerich.ch/"

// RefKind tags the shape of a resource reference.
type RefKind int

const (
	// RefSingleID references a resource by one opaque id inside a
	// per-type dataset (2016 through 2020 scheme).
	RefSingleID RefKind = iota + 1
	// RefIDPair references a resource by dataset id plus resource id
	// (2021 scheme).
	RefIDPair
	// RefYearOnly references a resource by type name and year with no
	// opaque identifier (2022 and later scheme).
	RefYearOnly
)

// ResourceRef is a tagged reference to one upstream CSV resource.
type ResourceRef struct {
	Kind RefKind

	ID         string // RefSingleID
	DatasetID  string // RefIDPair
	ResourceID string // RefIDPair
	Year       int    // RefYearOnly
}

func SingleID(id string) ResourceRef {
	return ResourceRef{Kind: RefSingleID, ID: id}
}

func IDPair(datasetID, resourceID string) ResourceRef {
	return ResourceRef{Kind: RefIDPair, DatasetID: datasetID, ResourceID: resourceID}
}

func YearOnly(year int) ResourceRef {
	return ResourceRef{Kind: RefYearOnly, Year: year}
}

// Mapping is one era's immutable type-to-resource table.
type Mapping map[waste.Type]ResourceRef

// UnknownTypeError is returned when a waste type has no entry in the
// active era's mapping. Callers are expected to skip the type and
// continue with the rest of the batch.
type UnknownTypeError struct {
	Type waste.Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown waste type %q for active mapping", e.Type)
}

type Config struct {
	Logger  *slog.Logger
	BaseURL string
	Mapping Mapping
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Mapping) == 0 {
		return errors.New("mapping is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	return nil
}

type Locator struct {
	log *slog.Logger
	cfg Config
}

func New(cfg Config) (*Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Locator{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// Types returns the waste types the active mapping can resolve, sorted.
func (l *Locator) Types() []waste.Type {
	types := make([]waste.Type, 0, len(l.cfg.Mapping))
	for _, t := range waste.KnownTypes() {
		if _, ok := l.cfg.Mapping[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// URL resolves the download URL for one waste type.
func (l *Locator) URL(t waste.Type) (string, error) {
	ref, ok := l.cfg.Mapping[t]
	if !ok {
		return "", &UnknownTypeError{Type: t}
	}

	// The portal publishes garden waste under the "bioabfall" slug even
	// though the internal key stayed "gartenabfall".
	slug := string(t)
	if t == waste.Gartenabfall {
		slug = "bioabfall"
	}

	base := l.cfg.BaseURL
	switch ref.Kind {
	case RefSingleID:
		return fmt.Sprintf("%sdataset/entsorgungskalender_%s/resource/%s/download/%s.csv",
			base, t, ref.ID, strings.ToLower(slug)), nil
	case RefIDPair:
		return fmt.Sprintf("%sdataset/%s/resource/%s/download/entsorgungskalender_%s.csv",
			base, ref.DatasetID, ref.ResourceID, strings.ToLower(slug)), nil
	case RefYearOnly:
		return fmt.Sprintf("%sdataset/erz_entsorgungskalender_%s/download/entsorgungskalender_%s_%d.csv",
			base, strings.ToLower(slug), slug, ref.Year), nil
	default:
		return "", fmt.Errorf("resource reference for %q has invalid kind %d", t, ref.Kind)
	}
}
