package domain

import "encoding/json"

// Payload is the body returned by the rss2json conversion service
type Payload struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Items   []RawItem `json:"items"`
}

// RawItem is one converted feed entry. Every field is optional.
type RawItem struct {
	GUID        string          `json:"guid"`
	Link        string          `json:"link"`
	Title       string          `json:"title"`
	PubDate     string          `json:"pubDate"`
	PubDateAlt  string          `json:"pubdate"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Enclosure   json.RawMessage `json:"enclosure"`
}

type enclosure struct {
	Link string `json:"link"`
}

// EnclosureLink returns enclosure.link, or "" when the enclosure is absent
// or not an object (rss2json emits [] for some feeds)
func (r RawItem) EnclosureLink() string {
	if len(r.Enclosure) == 0 {
		return ""
	}
	var enc enclosure
	if err := json.Unmarshal(r.Enclosure, &enc); err != nil {
		return ""
	}
	return enc.Link
}
