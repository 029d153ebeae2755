package adapter

import (
	"context"
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	socialDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/samber/lo"
)

// PostReader returns the recent posts of an account
type PostReader interface {
	Posts(ctx context.Context, username string) ([]socialDomain.Post, error)
}

// Social reads an account timeline through the two-stage social pipeline
type Social struct {
	reader PostReader
	now    Clock
}

// NewSocial creates the social timeline adapter
func NewSocial(reader PostReader) *Social {
	return &Social{reader: reader, now: time.Now}
}

// Fetch implements Adapter
func (a *Social) Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error) {
	posts, err := a.reader.Posts(ctx, src.Username)
	if err != nil {
		return nil, errors.NewSourceError(src.ID, src.Name, err)
	}

	now := a.now()
	return lo.Map(posts, func(post socialDomain.Post, _ int) itemDomain.Item {
		title := lo.CoalesceOrEmpty(post.Title, post.Text, "Tweet")

		item := newItem(src, post.ID)
		item.Title = title
		item.FullText = post.Text
		item.Link = post.Link
		item.PubDate = now
		if t, err := time.Parse(time.RFC3339, post.CreatedAt); err == nil {
			item.PubDate = t
		}
		item.Thumbnail = post.Image
		item.Label = itemDomain.Classify(title, "")
		return item
	}), nil
}
