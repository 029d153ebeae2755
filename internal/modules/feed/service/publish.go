package service

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	"github.com/samber/lo"
)

const (
	feedTitle       = "Transfer Pulse"
	feedDescription = "Football transfer news from official outlets and trusted reporters"
)

// BuildFeed renders the visible part of the state as a syndication feed
func BuildFeed(state domain.State, q Query, baseURL string) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       feedTitle,
		Link:        &feeds.Link{Href: strings.TrimRight(baseURL, "/") + "/"},
		Description: feedDescription,
		Id:          strings.TrimRight(baseURL, "/") + "/feed",
		Updated:     state.UpdatedAt,
	}

	feed.Items = lo.Map(Visible(state.Items, q), func(item itemDomain.Item, _ int) *feeds.Item {
		return toFeedItem(item)
	})
	return feed
}

func toFeedItem(item itemDomain.Item) *feeds.Item {
	out := &feeds.Item{
		Title:       fmt.Sprintf("[%s] %s", item.Label, item.Title),
		Link:        &feeds.Link{Href: item.Link},
		Author:      &feeds.Author{Name: item.SourceName},
		Description: lo.CoalesceOrEmpty(item.Description, item.FullText),
		Id:          item.ID,
		Created:     item.PubDate,
		Updated:     item.PubDate,
	}

	if item.SourceHomepage != "" {
		out.Source = &feeds.Link{Href: item.SourceHomepage}
	}
	if item.Thumbnail != "" {
		out.Enclosure = &feeds.Enclosure{
			Url:    item.Thumbnail,
			Length: "0",
			Type:   imageType(item.Thumbnail),
		}
	}
	return out
}

// imageType guesses an enclosure MIME type from the URL extension
func imageType(link string) string {
	ext := path.Ext(strings.SplitN(link, "?", 2)[0])
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
