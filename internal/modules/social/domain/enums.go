//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Stage identifies which step of the social lookup failed
// ENUM(lookup,timeline)
type Stage string
