package registry

import (
	"strings"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Defaults is the source list used when no sources are configured
func Defaults() []domain.Source {
	return []domain.Source{
		{
			ID:          "bbc-football",
			Name:        "BBC Sport Football",
			Type:        domain.SourceTypeRss,
			URL:         "https://feeds.bbci.co.uk/sport/football/rss.xml",
			Homepage:    "https://www.bbc.com/sport/football",
			Reliability: "High",
		},
		{
			ID:          "sky-sports-transfers",
			Name:        "Sky Sports Transfer Centre",
			Type:        domain.SourceTypeRss,
			URL:         "https://www.skysports.com/rss/12040",
			Homepage:    "https://www.skysports.com/transfer-centre",
			Reliability: "High",
		},
		{
			ID:          "guardian-football",
			Name:        "The Guardian Football",
			Type:        domain.SourceTypeRss,
			URL:         "https://www.theguardian.com/football/rss",
			Homepage:    "https://www.theguardian.com/football",
			Reliability: "High",
		},
		{
			ID:          "espn-soccer",
			Name:        "ESPN FC",
			Type:        domain.SourceTypeRss,
			URL:         "https://www.espn.com/espn/rss/soccer/news",
			Homepage:    "https://www.espn.com/soccer/",
			Reliability: "High",
		},
		{
			ID:          "fabrizio-x",
			Name:        "Fabrizio Romano on X",
			Type:        domain.SourceTypeXUser,
			Username:    "FabrizioRomano",
			Endpoint:    "/api/x/fabrizio",
			Homepage:    "https://x.com/FabrizioRomano",
			Reliability: "High",
		},
	}
}

// Registry is the immutable, ordered set of configured sources
type Registry struct {
	sources []domain.Source
	byID    map[string]domain.Source
}

// New validates sources and builds a registry preserving their order
func New(sources []domain.Source) (*Registry, error) {
	for i, src := range sources {
		if err := Validate(src); err != nil {
			return nil, oops.With("index", i, "source_id", src.ID).Wrap(err)
		}
	}

	if dup := lo.FindDuplicatesBy(sources, func(s domain.Source) string { return s.ID }); len(dup) > 0 {
		return nil, oops.With("source_id", dup[0].ID).Wrapf(errors.ErrInvalidSource, "duplicate source id")
	}

	return &Registry{
		sources: append([]domain.Source(nil), sources...),
		byID:    lo.KeyBy(sources, func(s domain.Source) string { return s.ID }),
	}, nil
}

// Validate checks the fields required by the source type
func Validate(src domain.Source) error {
	if strings.TrimSpace(src.ID) == "" {
		return oops.Wrapf(errors.ErrInvalidSource, "source id is required")
	}
	switch src.Type {
	case domain.SourceTypeRss:
		if src.URL == "" {
			return oops.Wrapf(errors.ErrInvalidSource, "rss source requires url")
		}
	case domain.SourceTypeXUser:
		if src.Username == "" {
			return oops.Wrapf(errors.ErrInvalidSource, "x-user source requires username")
		}
	default:
		return oops.With("type", src.Type).Wrapf(errors.ErrInvalidSource, "unknown source type")
	}
	return nil
}

// All returns the sources in registry order
func (r *Registry) All() []domain.Source {
	return append([]domain.Source(nil), r.sources...)
}

// Get looks a source up by id
func (r *Registry) Get(id string) (domain.Source, error) {
	src, ok := r.byID[id]
	if !ok {
		return domain.Source{}, oops.With("source_id", id).Wrap(errors.ErrSourceNotFound)
	}
	return src, nil
}

// ByEndpoint finds the social source served at the given proxy path
func (r *Registry) ByEndpoint(path string) (domain.Source, error) {
	src, ok := lo.Find(r.sources, func(s domain.Source) bool {
		return s.Type == domain.SourceTypeXUser && s.Endpoint == path
	})
	if !ok {
		return domain.Source{}, oops.With("endpoint", path).Wrap(errors.ErrSourceNotFound)
	}
	return src, nil
}
