//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Status is the aggregator phase shown to readers
// ENUM(idle,loading)
type Status string
