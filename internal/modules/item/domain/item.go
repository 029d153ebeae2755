package domain

import "time"

// Item is the unified representation of one story or post
type Item struct {
	ID                string    `json:"id"`
	SourceID          string    `json:"source_id"`
	SourceName        string    `json:"source_name"`
	SourceHomepage    string    `json:"source_homepage"`
	SourceReliability string    `json:"source_reliability"`
	Title             string    `json:"title"`
	FullText          string    `json:"full_text,omitempty"`
	Link              string    `json:"link"`
	PubDate           time.Time `json:"pub_date"`
	Description       string    `json:"description"`
	Thumbnail         string    `json:"thumbnail"`
	Label             Label     `json:"label"`
}
