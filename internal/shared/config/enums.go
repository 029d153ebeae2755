//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// RSSMode selects how RSS sources are fetched
// ENUM(rss2json,direct)
type RSSMode string
