package service

import (
	"context"
	"fmt"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Resolver is the first stage: username to account id
type Resolver interface {
	Resolve(ctx context.Context, username string) (domain.AccountID, error)
}

// TimelineReader is the second stage: account id to recent posts
type TimelineReader interface {
	Timeline(ctx context.Context, id domain.AccountID) (*domain.Timeline, error)
}

// Service turns a username into normalized posts
type Service struct {
	resolver Resolver
	reader   TimelineReader
}

// New creates the social pipeline from its two stages
func New(resolver Resolver, reader TimelineReader) *Service {
	return &Service{
		resolver: resolver,
		reader:   reader,
	}
}

// Posts resolves username and returns its recent posts, newest first as
// delivered by the platform
func (s *Service) Posts(ctx context.Context, username string) ([]domain.Post, error) {
	id, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return nil, oops.With("username", username).Wrap(err)
	}

	timeline, err := s.reader.Timeline(ctx, id)
	if err != nil {
		return nil, oops.With("username", username, "account_id", id).Wrap(err)
	}

	return BuildPosts(username, timeline), nil
}

// BuildPosts attaches media to tweets and shapes them into posts
func BuildPosts(username string, timeline *domain.Timeline) []domain.Post {
	if timeline == nil {
		return []domain.Post{}
	}

	var media []domain.Media
	if timeline.Includes != nil {
		media = timeline.Includes.Media
	}
	mediaByKey := lo.KeyBy(media, func(m domain.Media) string { return m.MediaKey })

	return lo.Map(timeline.Data, func(t domain.Tweet, _ int) domain.Post {
		image := ""
		if t.Attachments != nil && len(t.Attachments.MediaKeys) > 0 {
			if m, ok := mediaByKey[t.Attachments.MediaKeys[0]]; ok {
				image = lo.CoalesceOrEmpty(m.URL, m.PreviewImageURL)
			}
		}

		return domain.Post{
			ID:        t.ID,
			Text:      t.Text,
			Title:     domain.Truncate(t.Text),
			Link:      fmt.Sprintf("https://x.com/%s/status/%s", username, t.ID),
			CreatedAt: t.CreatedAt,
			Image:     image,
		}
	})
}
