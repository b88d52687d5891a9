package search

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Query represents the structured parameters of a history search.
// It decouples the raw chat input from the index requirements.
type Query struct {
	RawInput string // The original input from the user
	Terms    string // The text matched against message bodies
	Room     string // Optional room filter
	Lang     string // Optional ISO 639-1 filter
	Limit    int
}

// ParseQuery extracts command-line style arguments from a raw string.
// Example: /find budget vote --room lobby --lang en --limit 5
func ParseQuery(input string) Query {
	query := Query{RawInput: input, Limit: DefaultLimit}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			val := parts[i+1]
			switch strings.TrimPrefix(part, "--") {
			case "room":
				query.Room = val
			case "lang":
				query.Lang = strings.ToLower(val)
			case "limit":
				if n, err := strconv.Atoi(val); err == nil {
					query.Limit = n
				}
			}
			i++
			continue
		}

		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, part)
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query.Normalize()
}

// Normalize clamps the limit into [1, MaxLimit].
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Terms = strings.TrimSpace(q.Terms)
	return q
}
