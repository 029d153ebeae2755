package domain

import (
	"net/url"
	"slices"
	"strings"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	"github.com/samber/lo"
)

// Merge flattens per-source results keeping source order
func Merge(results [][]itemDomain.Item) []itemDomain.Item {
	return lo.Flatten(results)
}

// DedupKey returns the (normalized title, link host) identity of an item.
// ok is false when the link has no host; such items are never duplicates.
func DedupKey(item itemDomain.Item) (key string, ok bool) {
	u, err := url.Parse(item.Link)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return NormalizeTitle(item.Title) + "\x00" + strings.ToLower(u.Hostname()), true
}

// NormalizeTitle lowercases and collapses whitespace
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Dedupe drops later items sharing a key with an earlier one
func Dedupe(items []itemDomain.Item) []itemDomain.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]itemDomain.Item, 0, len(items))
	for _, item := range items {
		if key, ok := DedupKey(item); ok {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

// SortByDate orders newest first; equal dates keep their relative order
func SortByDate(items []itemDomain.Item) []itemDomain.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b itemDomain.Item) int {
		return b.PubDate.Compare(a.PubDate)
	})
	return out
}

// Pipeline runs merge, dedupe and sort over per-source results
func Pipeline(results [][]itemDomain.Item) []itemDomain.Item {
	return SortByDate(Dedupe(Merge(results)))
}
