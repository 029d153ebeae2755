package adapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/upstream"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DirectRSS downloads feed XML itself and parses it with gofeed
type DirectRSS struct {
	client *upstream.Client
	parser *gofeed.Parser
	now    Clock
}

// NewDirectRSS creates the direct feed adapter
func NewDirectRSS(client *upstream.Client) *DirectRSS {
	return &DirectRSS{
		client: client,
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// Fetch implements Adapter
func (a *DirectRSS) Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error) {
	resp, err := a.client.Get(ctx, src.URL, nil)
	if err != nil {
		return nil, errors.NewSourceError(src.ID, src.Name, err)
	}
	if !resp.OK() {
		return nil, errors.NewSourceError(src.ID, src.Name, fmt.Errorf("feed returned status %d", resp.StatusCode))
	}

	feed, err := a.parser.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, errors.NewSourceError(src.ID, src.Name, oops.In("adapter").With("url", src.URL).Wrapf(err, "parsing feed"))
	}

	now := a.now()
	return lo.Map(feed.Items, func(entry *gofeed.Item, _ int) itemDomain.Item {
		return convertEntry(src, entry, now)
	}), nil
}

func convertEntry(src sourceDomain.Source, entry *gofeed.Item, now time.Time) itemDomain.Item {
	item := newItem(src, lo.CoalesceOrEmpty(entry.GUID, entry.Link))
	item.Title = entry.Title
	item.Link = entry.Link
	item.Description = entry.Description

	switch {
	case entry.PublishedParsed != nil:
		item.PubDate = *entry.PublishedParsed
	case entry.UpdatedParsed != nil:
		item.PubDate = *entry.UpdatedParsed
	default:
		item.PubDate = now
	}

	if entry.Image != nil && entry.Image.URL != "" {
		item.Thumbnail = entry.Image.URL
	} else if enc, ok := lo.Find(entry.Enclosures, func(e *gofeed.Enclosure) bool {
		return e != nil && strings.HasPrefix(e.Type, "image/")
	}); ok {
		item.Thumbnail = enc.URL
	}

	item.Label = itemDomain.Classify(entry.Title, entry.Description)
	return item
}
