package service

import (
	"context"
	"strings"
	"testing"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	id  domain.AccountID
	err error
}

func (s stubResolver) Resolve(_ context.Context, _ string) (domain.AccountID, error) {
	return s.id, s.err
}

type stubReader struct {
	timeline *domain.Timeline
	err      error
	gotID    domain.AccountID
}

func (s *stubReader) Timeline(_ context.Context, id domain.AccountID) (*domain.Timeline, error) {
	s.gotID = id
	return s.timeline, s.err
}

func TestPostsAttachesFirstMedia(t *testing.T) {
	reader := &stubReader{timeline: &domain.Timeline{
		Data: []domain.Tweet{
			{ID: "1", Text: "Here we go!", CreatedAt: "2024-07-01T10:00:00.000Z", Attachments: &domain.Attachments{MediaKeys: []string{"m1", "m2"}}},
			{ID: "2", Text: "Video", Attachments: &domain.Attachments{MediaKeys: []string{"m2"}}},
			{ID: "3", Text: "No media"},
			{ID: "4", Text: "Unknown media", Attachments: &domain.Attachments{MediaKeys: []string{"zz"}}},
		},
		Includes: &domain.Includes{Media: []domain.Media{
			{MediaKey: "m1", URL: "https://pbs.example/photo.jpg"},
			{MediaKey: "m2", PreviewImageURL: "https://pbs.example/preview.jpg"},
		}},
	}}
	svc := New(stubResolver{id: "44196397"}, reader)

	posts, err := svc.Posts(context.Background(), "FabrizioRomano")
	require.NoError(t, err)
	require.Len(t, posts, 4)

	assert.Equal(t, domain.AccountID("44196397"), reader.gotID)
	assert.Equal(t, "https://pbs.example/photo.jpg", posts[0].Image)
	assert.Equal(t, "https://pbs.example/preview.jpg", posts[1].Image)
	assert.Equal(t, "", posts[2].Image)
	assert.Equal(t, "", posts[3].Image)
	assert.Equal(t, "https://x.com/FabrizioRomano/status/1", posts[0].Link)
	assert.Equal(t, "2024-07-01T10:00:00.000Z", posts[0].CreatedAt)
}

func TestPostsTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("é", 150)
	reader := &stubReader{timeline: &domain.Timeline{Data: []domain.Tweet{{ID: "1", Text: long}}}}

	posts, err := New(stubResolver{id: "1"}, reader).Posts(context.Background(), "u")
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("é", 100)+"…", posts[0].Title)
	assert.Equal(t, long, posts[0].Text)
}

func TestPostsStopsAtFailedLookup(t *testing.T) {
	reader := &stubReader{}
	lookupErr := &domain.UpstreamError{Stage: domain.StageLookup, Status: 401, Detail: "Unauthorized"}

	_, err := New(stubResolver{err: lookupErr}, reader).Posts(context.Background(), "u")
	require.Error(t, err)

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, domain.StageLookup, upErr.Stage)
	assert.Empty(t, reader.gotID, "timeline stage must not run")
}

func TestPostsTimelineFailure(t *testing.T) {
	reader := &stubReader{err: &domain.UpstreamError{Stage: domain.StageTimeline, Status: 429, Detail: "Too Many Requests"}}

	_, err := New(stubResolver{id: "1"}, reader).Posts(context.Background(), "u")

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, domain.StageTimeline, upErr.Stage)
	assert.Equal(t, 429, upErr.Status)
}

func TestBuildPostsEmptyTimeline(t *testing.T) {
	assert.Empty(t, BuildPosts("u", nil))
	assert.Empty(t, BuildPosts("u", &domain.Timeline{}))
}
