package http

import (
	"net/http"
	"time"

	feedDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/samber/lo"
)

type feedResponse struct {
	Status    feedDomain.Status        `json:"status"`
	Error     string                   `json:"error"`
	UpdatedAt *time.Time               `json:"updated_at"`
	Items     []itemDomain.Item        `json:"items"`
	Breakdown []feedService.LabelCount `json:"breakdown"`
}

type sourceView struct {
	sourceDomain.Source
	Active  bool   `json:"active"`
	Favicon string `json:"favicon"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	state := s.feed.Snapshot()

	resp := feedResponse{
		Status:    state.Status,
		Error:     state.Error,
		Items:     feedService.Visible(state.Items, queryFrom(r)),
		Breakdown: feedService.Breakdown(state.Items),
	}
	if !state.UpdatedAt.IsZero() {
		resp.UpdatedAt = &state.UpdatedAt
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.feed.Trigger(); err != nil {
		if errors.Is(err, errors.ErrRefreshInProgress) {
			writeError(w, http.StatusConflict, "Refresh already in progress", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Refresh failed", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	views := lo.Map(s.sources.All(), func(src sourceDomain.Source, _ int) sourceView {
		return sourceView{
			Source:  src,
			Active:  s.sources.IsActive(src.ID),
			Favicon: src.Favicon(),
		}
	})
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	active, err := s.sources.Toggle(id)
	if err != nil {
		if errors.Is(err, errors.ErrSourceNotFound) {
			writeError(w, http.StatusNotFound, "Unknown source", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Toggle failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": active})
}
