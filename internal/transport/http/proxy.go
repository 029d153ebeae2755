package http

import (
	"net/http"

	rssService "github.com/reshetovitsme/transfer-pulse/internal/modules/rssproxy/service"
	socialDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/social/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
)

func (s *Server) handleRSSProxy(w http.ResponseWriter, r *http.Request) {
	feedURL := r.URL.Query().Get("url")
	if feedURL == "" {
		writeError(w, http.StatusBadRequest, "Missing url", "")
		return
	}

	body, err := s.rss.Fetch(r.Context(), feedURL)
	if err != nil {
		s.logger.Error("Feed conversion failed", "url", feedURL, "error", err)

		detail := err.Error()
		var upErr *rssService.UpstreamError
		if errors.As(err, &upErr) {
			detail = upErr.Detail
		}
		writeError(w, http.StatusBadGateway, "Upstream failed", detail)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

type postsResponse struct {
	Items []socialDomain.Post `json:"items"`
}

func (s *Server) handleSocialProxy(w http.ResponseWriter, r *http.Request) {
	src, err := s.sources.ByEndpoint("/api/x/" + r.PathValue("alias"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown account", "")
		return
	}

	posts, err := s.posts.Posts(r.Context(), src.Username)
	if err != nil {
		s.logger.Error("Social lookup failed", "source_id", src.ID, "username", src.Username, "error", err)

		if errors.Is(err, errors.ErrMissingXToken) {
			writeError(w, http.StatusInternalServerError, "Missing token", "")
			return
		}

		var upErr *socialDomain.UpstreamError
		if errors.As(err, &upErr) {
			message := "X API failed"
			if upErr.Stage == socialDomain.StageLookup {
				message = "User lookup failed"
			}
			writeError(w, http.StatusBadGateway, message, upErr.Detail)
			return
		}

		writeError(w, http.StatusBadGateway, "X API failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, postsResponse{Items: posts})
}
