package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	return idx
}

func testBook(id int64, title, author string, categoryID int64) *domain.Book {
	return &domain.Book{
		ID:         id,
		Title:      title,
		Author:     author,
		Publisher:  "민음사",
		CategoryID: categoryID,
		PubDate:    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Now(),
	}
}

func TestIndexAndSearchByTitle(t *testing.T) {
	idx := setupTestIndex(t)

	books := []*domain.Book{
		testBook(1, "데미안", "헤르만 헤세", 1),
		testBook(2, "수레바퀴 아래서", "헤르만 헤세", 1),
		testBook(3, "경제학 콘서트", "팀 하포드", 2),
	}
	docs := make([]*Document, 0, len(books))
	for _, b := range books {
		docs = append(docs, BookToDocument(b))
	}
	require.NoError(t, idx.IndexDocuments(docs))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	result, err := idx.Search(context.Background(), Params{Query: "데미안", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, int64(1), result.Hits[0].BookID)
	assert.Equal(t, "데미안", result.Hits[0].Title)
}

func TestSearchByAuthor(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "데미안", "헤르만 헤세", 1))))
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(2, "경제학 콘서트", "팀 하포드", 2))))

	result, err := idx.Search(context.Background(), Params{Query: "헤세", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, int64(1), result.Hits[0].BookID)
	assert.Equal(t, "헤르만 헤세", result.Hits[0].Author)
}

func TestSearchTitleRanksAboveAuthor(t *testing.T) {
	idx := setupTestIndex(t)

	// Book 1 has the query in its title, book 2 only in its author.
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "헤세를 읽는 밤", "김영하", 1))))
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(2, "데미안", "헤르만 헤세", 1))))

	result, err := idx.Search(context.Background(), Params{Query: "헤세", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, int64(1), result.Hits[0].BookID)
}

func TestSearchCategoryFilter(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "소설 쓰는 법", "작가 A", 1))))
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(2, "소설 읽는 법", "작가 B", 2))))

	result, err := idx.Search(context.Background(), Params{Query: "소설", CategoryID: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, int64(2), result.Hits[0].BookID)
}

func TestSearchNoQueryMatchesAll(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "데미안", "헤르만 헤세", 1))))
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(2, "경제학 콘서트", "팀 하포드", 2))))

	result, err := idx.Search(context.Background(), Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestDeleteDocument(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "데미안", "헤르만 헤세", 1))))
	require.NoError(t, idx.DeleteDocument(1))

	result, err := idx.Search(context.Background(), Params{Query: "데미안", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestRebuildEmptiesIndex(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "데미안", "헤르만 헤세", 1))))
	require.NoError(t, idx.Rebuild())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	idx, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, idx.IndexDocument(BookToDocument(testBook(1, "데미안", "헤르만 헤세", 1))))
	require.NoError(t, idx.Close())

	reopened, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, reopened.Close())
	})

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestBookIDsPreservesOrder(t *testing.T) {
	r := &Result{Hits: []Hit{{BookID: 3}, {BookID: 1}, {BookID: 2}}}
	assert.Equal(t, []int64{3, 1, 2}, r.BookIDs())
}
