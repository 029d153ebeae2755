//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Label is the transfer category assigned to every item
// ENUM(Official,Loan,Departure,Rumor,News)
type Label string
