package adapter

import (
	"context"
	"log/slog"
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	rssDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/rssproxy/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/samber/lo"
)

// ConvertedFeedReader returns a feed already converted to JSON
type ConvertedFeedReader interface {
	Items(ctx context.Context, feedURL string) (*rssDomain.Payload, error)
}

// RSS reads feeds through the rss2json conversion service
type RSS struct {
	reader ConvertedFeedReader
	now    Clock
}

// NewRSS creates the converted-feed adapter
func NewRSS(reader ConvertedFeedReader) *RSS {
	return &RSS{reader: reader, now: time.Now}
}

// Fetch implements Adapter
func (a *RSS) Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error) {
	payload, err := a.reader.Items(ctx, src.URL)
	if err != nil {
		return nil, errors.NewSourceError(src.ID, src.Name, err)
	}

	if payload.Status == "error" {
		slog.Warn("Feed conversion reported an error", "source_id", src.ID, "message", payload.Message)
		return []itemDomain.Item{}, nil
	}

	now := a.now()
	return lo.Map(payload.Items, func(raw rssDomain.RawItem, _ int) itemDomain.Item {
		return convertRaw(src, raw, now)
	}), nil
}

func convertRaw(src sourceDomain.Source, raw rssDomain.RawItem, now time.Time) itemDomain.Item {
	item := newItem(src, lo.CoalesceOrEmpty(raw.GUID, raw.Link))
	item.Title = raw.Title
	item.Link = raw.Link
	item.Description = raw.Description
	item.PubDate = ParseDate(lo.CoalesceOrEmpty(raw.PubDate, raw.PubDateAlt, raw.Date), now)
	item.Thumbnail = lo.CoalesceOrEmpty(raw.Thumbnail, raw.EnclosureLink())
	item.Label = itemDomain.Classify(raw.Title, raw.Description)
	return item
}
