package domain

import (
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
)

// FailureMessage is what readers see after a failed cycle. Details go to the log.
const FailureMessage = "Could not load feeds right now. Check the API route and your token."

// State is the aggregator's displayed view
type State struct {
	Status    Status            `json:"status"`
	Items     []itemDomain.Item `json:"items"`
	Error     string            `json:"error"`
	UpdatedAt time.Time         `json:"updated_at"`
	CycleID   uint64            `json:"cycle_id"`
}

// CycleResult is the outcome of one refresh cycle
type CycleResult struct {
	CycleID uint64
	Items   []itemDomain.Item
	Err     error
	At      time.Time
}

// Initial is the state before the first cycle
func Initial() State {
	return State{Status: StatusIdle, Items: []itemDomain.Item{}}
}

// Begin starts a new cycle: loading, error cleared, items untouched
func Begin(s State) State {
	s.Status = StatusLoading
	s.Error = ""
	s.CycleID++
	return s
}

// Apply folds a cycle result into the state. Results from a cycle other
// than the current one are ignored. A failed cycle keeps the previous items.
func Apply(s State, r CycleResult) State {
	if r.CycleID != s.CycleID {
		return s
	}

	s.Status = StatusIdle
	if r.Err != nil {
		s.Error = FailureMessage
		return s
	}

	s.Items = r.Items
	s.Error = ""
	s.UpdatedAt = r.At
	return s
}
