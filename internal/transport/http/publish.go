package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/feeds"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
)

type feedFormat struct {
	contentType string
	render      func(*feeds.Feed) (string, error)
}

var (
	formatRSS  = feedFormat{"application/rss+xml; charset=utf-8", (*feeds.Feed).ToRss}
	formatAtom = feedFormat{"application/atom+xml; charset=utf-8", (*feeds.Feed).ToAtom}
	formatJSON = feedFormat{"application/feed+json; charset=utf-8", (*feeds.Feed).ToJSON}
)

func (s *Server) handlePublished(format feedFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
		feed := feedService.BuildFeed(s.feed.Snapshot(), queryFrom(r), baseURL)

		body, err := format.render(feed)
		if err != nil {
			s.logger.Error("Error rendering feed", "path", r.URL.Path, "error", err)
			http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
