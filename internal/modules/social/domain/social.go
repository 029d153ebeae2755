package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// TitleLimit is the rune length after which post titles are truncated
const TitleLimit = 100

// AccountID is a resolved numeric platform account id
type AccountID string

// UserLookup is the body of the username lookup endpoint
type UserLookup struct {
	Data *struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

// Timeline is the body of the user posts endpoint
type Timeline struct {
	Data     []Tweet   `json:"data"`
	Includes *Includes `json:"includes,omitempty"`
}

// Tweet is a single post as returned by the platform
type Tweet struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	CreatedAt   string       `json:"created_at"`
	Attachments *Attachments `json:"attachments,omitempty"`
}

// Attachments lists media keys expanded into Includes
type Attachments struct {
	MediaKeys []string `json:"media_keys"`
}

// Includes carries expanded objects referenced by tweets
type Includes struct {
	Media []Media `json:"media"`
}

// Media is an expanded attachment
type Media struct {
	MediaKey        string `json:"media_key"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	PreviewImageURL string `json:"preview_image_url"`
}

// Post is the normalized item served by the social proxy endpoint
type Post struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	CreatedAt string `json:"created_at"`
	Image     string `json:"image"`
}

// UpstreamError is a non-success reply from one stage of the lookup
type UpstreamError struct {
	Stage  Stage
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed with status %d", e.Stage, e.Status)
}

// Truncate shortens text to TitleLimit runes followed by an ellipsis
func Truncate(text string) string {
	if lo.RuneLength(text) <= TitleLimit {
		return text
	}
	return lo.Substring(text, 0, TitleLimit) + "…"
}
