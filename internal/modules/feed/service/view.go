package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	"github.com/samber/lo"
)

// Query narrows the displayed items
type Query struct {
	Text         string
	OfficialOnly bool
}

// LabelCount is one row of the label breakdown
type LabelCount struct {
	Label itemDomain.Label `json:"label"`
	Count int              `json:"count"`
}

// Visible applies the text and official-only filters. The query is matched
// with surrounding whitespace removed.
func Visible(items []itemDomain.Item, q Query) []itemDomain.Item {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	return lo.Filter(items, func(item itemDomain.Item, _ int) bool {
		if needle != "" && !strings.Contains(strings.ToLower(item.Title+" "+item.Description), needle) {
			return false
		}
		if q.OfficialOnly && item.Label != itemDomain.LabelOfficial && item.Label != itemDomain.LabelLoan {
			return false
		}
		return true
	})
}

// Breakdown counts items per label, largest first. Ties follow label order.
func Breakdown(items []itemDomain.Item) []LabelCount {
	counts := lo.CountValuesBy(items, func(item itemDomain.Item) itemDomain.Label {
		return item.Label
	})

	order := make(map[itemDomain.Label]int)
	for i, name := range itemDomain.LabelNames() {
		order[itemDomain.Label(name)] = i
	}

	rows := lo.MapToSlice(counts, func(label itemDomain.Label, n int) LabelCount {
		return LabelCount{Label: label, Count: n}
	})
	slices.SortFunc(rows, func(a, b LabelCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return order[a.Label] - order[b.Label]
	})
	return rows
}

// TimeAgo renders the age of t relative to now in its largest whole unit
func TimeAgo(t, now time.Time) string {
	d := max(now.Sub(t), 0)

	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	case d >= time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	default:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	}
}
