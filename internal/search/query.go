package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query      string // User's search query
	CategoryID int64  // Restrict to one category (0 = all)

	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:  20,
		Offset: 0,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	BookID    int64   `json:"book_id"`
	Score     float64 `json:"score"`
	Title     string  `json:"title"`
	Author    string  `json:"author,omitempty"`
	Publisher string  `json:"publisher,omitempty"`
}

// BookIDs returns the hit book IDs in result order.
func (r *Result) BookIDs() []int64 {
	ids := make([]int64, 0, len(r.Hits))
	for _, hit := range r.Hits {
		ids = append(ids, hit.BookID)
	}
	return ids
}

// Search executes a search query against the book index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.SortBy([]string{"-_score"})
	searchRequest.Fields = []string{"id", "title", "author", "publisher"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		bookID, parseErr := strconv.ParseInt(hit.ID, 10, 64)
		if parseErr != nil {
			// Stale document from an older mapping, skip it.
			continue
		}

		searchHit := Hit{
			BookID: bookID,
			Score:  hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		if p, ok := hit.Fields["publisher"].(string); ok {
			searchHit.Publisher = p
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	// Main text query: title matches rank above author matches, with a
	// low-boost fuzzy title query for typo tolerance and a prefix query
	// so partially typed titles still hit.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)
		textQueries = append(textQueries, authorMatch)

		publisherMatch := bleve.NewMatchQuery(params.Query)
		publisherMatch.SetField("publisher")
		publisherMatch.SetBoost(0.8)
		textQueries = append(textQueries, publisherMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Category filter (numeric field, so an inclusive point range)
	if params.CategoryID > 0 {
		categoryValue := float64(params.CategoryID)
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&categoryValue, &categoryValue, &inclusive, &inclusive)
		rangeQuery.SetField("category_id")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
