// Package resolve matches loosely typed API method names against the known
// procedure names.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no names to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Candidates) > 0 {
		b.WriteString(", candidates:")
		for _, c := range e.Candidates {
			_, _ = fmt.Fprintf(&b, "\n  %s", c)
		}
	}
	return b.String()
}

// NotFoundError indicates no candidate matched at all.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match found for %q", e.Query)
}

type lowerSource []string

func (s lowerSource) String(i int) string { return strings.ToLower(s[i]) }
func (s lowerSource) Len() int            { return len(s) }

// Match finds the name query refers to.
//
// An exact case-insensitive match wins. Otherwise the best fuzzy match is
// returned, unless the top two tie, which is an *AmbiguousError.
func Match(query string, names []string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(names) == 0 {
		return "", ErrEmptyItems
	}

	for _, name := range names {
		if strings.EqualFold(name, query) {
			return name, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowerSource(names))
	if len(results) == 0 {
		return "", &NotFoundError{Query: query}
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return "", &AmbiguousError{Query: query, Candidates: pick(names, results, 5)}
	}
	return names[results[0].Index], nil
}

// Suggest returns up to limit names ranked by fuzzy score (best first).
func Suggest(query string, names []string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || len(names) == 0 || limit <= 0 {
		return nil
	}
	return pick(names, fuzzy.FindFrom(strings.ToLower(query), lowerSource(names)), limit)
}

func pick(names []string, results fuzzy.Matches, limit int) []string {
	if len(results) == 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = names[r.Index]
	}
	return out
}
