//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SourceType selects the adapter used to fetch a source
// ENUM(rss,x-user)
type SourceType string
