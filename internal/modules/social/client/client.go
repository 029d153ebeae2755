package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/upstream"
	"github.com/samber/oops"
)

// Client talks to the X v2 API with an app bearer token
type Client struct {
	baseURL string
	token   string
	http    *upstream.Client
}

// New creates an X API client rooted at baseURL (https://api.x.com)
func New(baseURL, token string, httpClient *upstream.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Configured reports whether a bearer token is available
func (c *Client) Configured() bool {
	return c.token != ""
}

// Resolve looks up the numeric account id for a username
func (c *Client) Resolve(ctx context.Context, username string) (domain.AccountID, error) {
	if !c.Configured() {
		return "", errors.ErrMissingXToken
	}

	target := c.baseURL + "/2/users/by/username/" + url.PathEscape(username)
	resp, err := c.http.Get(ctx, target, c.authHeader())
	if err != nil {
		return "", oops.In("social").With("stage", domain.StageLookup, "username", username).Wrap(err)
	}
	if !resp.OK() {
		return "", &domain.UpstreamError{Stage: domain.StageLookup, Status: resp.StatusCode, Detail: string(resp.Body)}
	}

	var lookup domain.UserLookup
	if err := json.Unmarshal(resp.Body, &lookup); err != nil {
		return "", oops.In("social").With("stage", domain.StageLookup, "username", username).Wrapf(err, "decoding user lookup")
	}
	if lookup.Data == nil || lookup.Data.ID == "" {
		return "", &domain.UpstreamError{Stage: domain.StageLookup, Status: resp.StatusCode, Detail: string(resp.Body)}
	}

	return domain.AccountID(lookup.Data.ID), nil
}

// Timeline fetches the most recent posts of an account with expanded media
func (c *Client) Timeline(ctx context.Context, id domain.AccountID) (*domain.Timeline, error) {
	if !c.Configured() {
		return nil, errors.ErrMissingXToken
	}

	query := url.Values{}
	query.Set("max_results", "20")
	query.Set("tweet.fields", "created_at,entities")
	query.Set("expansions", "attachments.media_keys")
	query.Set("media.fields", "url,preview_image_url")

	target := c.baseURL + "/2/users/" + url.PathEscape(string(id)) + "/tweets?" + query.Encode()
	resp, err := c.http.Get(ctx, target, c.authHeader())
	if err != nil {
		return nil, oops.In("social").With("stage", domain.StageTimeline, "account_id", id).Wrap(err)
	}
	if !resp.OK() {
		return nil, &domain.UpstreamError{Stage: domain.StageTimeline, Status: resp.StatusCode, Detail: string(resp.Body)}
	}

	var timeline domain.Timeline
	if err := json.Unmarshal(resp.Body, &timeline); err != nil {
		return nil, oops.In("social").With("stage", domain.StageTimeline, "account_id", id).Wrapf(err, "decoding timeline")
	}
	return &timeline, nil
}

func (c *Client) authHeader() http.Header {
	return http.Header{"Authorization": []string{"Bearer " + c.token}}
}
