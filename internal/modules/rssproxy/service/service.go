package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/rssproxy/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/upstream"
	"github.com/samber/oops"
)

// UpstreamError is a non-success reply from the conversion service
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("rss2json returned %d", e.Status)
}

// Service converts RSS feeds to JSON through the rss2json service
type Service struct {
	endpoint string
	client   *upstream.Client
}

// New creates a conversion service calling endpoint (".../v1/api.json")
func New(endpoint string, client *upstream.Client) *Service {
	return &Service{
		endpoint: endpoint,
		client:   client,
	}
}

// Fetch returns the upstream body verbatim
func (s *Service) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if feedURL == "" {
		return nil, errors.ErrMissingURL
	}

	target := s.endpoint + "?rss_url=" + url.QueryEscape(feedURL)
	resp, err := s.client.Get(ctx, target, nil)
	if err != nil {
		return nil, oops.In("rssproxy").With("feed_url", feedURL).Wrap(err)
	}
	if !resp.OK() {
		return nil, oops.In("rssproxy").With("feed_url", feedURL, "status", resp.StatusCode).
			Wrap(&UpstreamError{Status: resp.StatusCode, Detail: string(resp.Body)})
	}

	return resp.Body, nil
}

// Items fetches and decodes the converted feed
func (s *Service) Items(ctx context.Context, feedURL string) (*domain.Payload, error) {
	body, err := s.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var payload domain.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, oops.In("rssproxy").With("feed_url", feedURL).Wrapf(err, "decoding rss2json payload")
	}
	return &payload, nil
}
