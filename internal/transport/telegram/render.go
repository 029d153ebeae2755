package telegram

import (
	"fmt"
	"strings"
	"time"

	feedDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	userDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/user/domain"
)

var labelIcons = map[itemDomain.Label]string{
	itemDomain.LabelOfficial:  "✅",
	itemDomain.LabelLoan:      "🔁",
	itemDomain.LabelDeparture: "👋",
	itemDomain.LabelRumor:     "👀",
	itemDomain.LabelNews:      "📰",
}

// RenderItems formats the first items of a list as a chat message
func RenderItems(items []itemDomain.Item, state feedDomain.State, now time.Time) string {
	var text strings.Builder

	if state.Error != "" {
		text.WriteString("⚠️ " + state.Error + "\n\n")
	}
	if state.Status == feedDomain.StatusLoading && len(state.Items) == 0 {
		text.WriteString("⏳ Loading feeds, try again in a moment.")
		return text.String()
	}
	if len(items) == 0 {
		text.WriteString("📭 No items match.")
		return text.String()
	}

	shown := items[:min(len(items), topItems)]
	for i, item := range shown {
		text.WriteString(fmt.Sprintf("%s %d. [%s] %s\n   %s · %s\n", labelIcons[item.Label], i+1, item.Label, item.Title, item.SourceName, feedService.TimeAgo(item.PubDate, now)))
		if item.Link != "" {
			text.WriteString("   " + item.Link + "\n")
		}
		text.WriteString("\n")
	}
	if len(items) > len(shown) {
		text.WriteString(fmt.Sprintf("…and %d more", len(items)-len(shown)))
	}
	return strings.TrimRight(text.String(), "\n")
}

// RenderBreakdown formats label counts as a chat message
func RenderBreakdown(rows []feedService.LabelCount) string {
	if len(rows) == 0 {
		return "📭 Nothing to count yet."
	}

	var text strings.Builder
	text.WriteString("📊 Breakdown:\n")
	for _, row := range rows {
		text.WriteString(fmt.Sprintf("\n%s %s: %d", labelIcons[row.Label], row.Label, row.Count))
	}
	return text.String()
}

// RenderUsers lists bot users with the time of their last message
func RenderUsers(users []userDomain.User, now time.Time) string {
	if len(users) == 0 {
		return "👤 No users yet."
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("👤 Users since startup: %d\n\n", len(users)))
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "(no username)"
		} else {
			name = "@" + name
		}
		text.WriteString(fmt.Sprintf("• %s (%d), %s\n", name, u.ID, feedService.TimeAgo(u.SeenAt, now)))
	}
	return strings.TrimRight(text.String(), "\n")
}
