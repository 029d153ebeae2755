package adapter

import (
	"context"
	"fmt"
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
)

// Adapter fetches one source and normalizes its entries into items.
// Failures are returned as *errors.SourceError.
type Adapter interface {
	Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error)
}

// Set dispatches a source to the adapter registered for its type
type Set struct {
	adapters map[sourceDomain.SourceType]Adapter
}

// NewSet creates a dispatcher over the given adapters
func NewSet(adapters map[sourceDomain.SourceType]Adapter) *Set {
	return &Set{adapters: adapters}
}

// Fetch runs the adapter matching src.Type
func (s *Set) Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error) {
	a, ok := s.adapters[src.Type]
	if !ok {
		return nil, errors.NewSourceError(src.ID, src.Name, fmt.Errorf("no adapter for source type %q", src.Type))
	}
	return a.Fetch(ctx, src)
}

// Clock returns the fetch time used for missing or unparseable dates
type Clock func() time.Time

var pubDateLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate resolves an upstream date string, falling back to now
func ParseDate(value string, now time.Time) time.Time {
	if value == "" {
		return now
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return now
}

func newItem(src sourceDomain.Source, rawID string) itemDomain.Item {
	return itemDomain.Item{
		ID:                src.ID + "-" + rawID,
		SourceID:          src.ID,
		SourceName:        src.Name,
		SourceHomepage:    src.Homepage,
		SourceReliability: src.Reliability,
	}
}
