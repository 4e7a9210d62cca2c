package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/session"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string
	Limit  int
	Offset int
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Query      string     `json:"query"`
	Items      []LinkItem `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Search matches the query against every link's title, url and category path.
func Search(ctx context.Context, sess *session.Session, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must not be negative")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("search")
	}

	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	matches := bookmark.Search(snap.Index, query)

	start := min(input.Offset, len(matches))
	end := min(start+limit, len(matches))
	items := make([]LinkItem, 0, end-start)
	for _, r := range matches[start:end] {
		items = append(items, LinkItemFromResource(r))
	}

	return &SearchOutput{
		Query: query,
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: end < len(matches),
			Total:   len(matches),
		},
	}, nil
}
