package recommend

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// fakeChat returns a canned response or error and records the prompts.
type fakeChat struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeChat) ChatJSON(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testCurator(chat ChatClient) *Curator {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCurator(chat, logger)
}

func testPool(ids ...int64) []domain.Book {
	pool := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, domain.Book{ID: id, Title: "책", Author: "저자"})
	}
	return pool
}

func TestCuratorCuratePersonalized(t *testing.T) {
	ctx := context.Background()
	pool := testPool(1, 2, 3)

	t.Run("returns picks with reasons", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[
			{"book_id": 2, "reason": "취향에 맞는 소설"},
			{"book_id": 1, "reason": "베스트셀러 작가의 신작"}
		]}`}

		picks, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{Name: "민지"}, pool, 2)
		require.NoError(t, err)
		require.Len(t, picks, 2)
		assert.Equal(t, int64(2), picks[0].BookID)
		assert.Equal(t, "취향에 맞는 소설", picks[0].Reason)
		assert.Equal(t, int64(1), picks[1].BookID)
	})

	t.Run("drops hallucinated ids silently", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[
			{"book_id": 999, "reason": "없는 책"},
			{"book_id": 3, "reason": "실제 책"}
		]}`}

		picks, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 2)
		require.NoError(t, err)
		require.Len(t, picks, 1)
		assert.Equal(t, int64(3), picks[0].BookID)
	})

	t.Run("dedupes keeping first occurrence", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[
			{"book_id": 1, "reason": "첫 번째 이유"},
			{"book_id": 1, "reason": "두 번째 이유"},
			{"book_id": 2, "reason": "다른 책"}
		]}`}

		picks, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 5)
		require.NoError(t, err)
		require.Len(t, picks, 2)
		assert.Equal(t, "첫 번째 이유", picks[0].Reason)
	})

	t.Run("caps at requested count", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[
			{"book_id": 1, "reason": "a"},
			{"book_id": 2, "reason": "b"},
			{"book_id": 3, "reason": "c"}
		]}`}

		picks, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 2)
		require.NoError(t, err)
		assert.Len(t, picks, 2)
	})

	t.Run("not JSON is curation failure", func(t *testing.T) {
		chat := &fakeChat{response: `죄송합니다, 추천을 생성할 수 없습니다.`}

		_, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 2)
		assert.ErrorIs(t, err, ErrCurationFailed)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("missing recommendations key is malformed", func(t *testing.T) {
		chat := &fakeChat{response: `{"books":[{"book_id":1}]}`}

		_, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 2)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("gateway failure wraps into curation failure", func(t *testing.T) {
		chat := &fakeChat{err: assert.AnError}

		_, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, pool, 2)
		assert.ErrorIs(t, err, ErrCurationFailed)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("empty pool skips the model", func(t *testing.T) {
		chat := &fakeChat{response: `{}`}

		picks, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{}, nil, 2)
		require.NoError(t, err)
		assert.Empty(t, picks)
		assert.Zero(t, chat.calls)
	})

	t.Run("prompt carries profile and pool", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[]}`}

		_, err := testCurator(chat).CuratePersonalized(ctx, domain.Profile{
			Name:             "민지",
			SelectedCategory: "과학",
			FavoriteBook:     "코스모스",
		}, pool, 2)
		require.NoError(t, err)
		assert.Contains(t, chat.lastUser, "민지")
		assert.Contains(t, chat.lastUser, "과학")
		assert.Contains(t, chat.lastUser, "코스모스")
		assert.Contains(t, chat.lastUser, `"recommendations"`)
	})
}

func TestCuratorCurateBestsellers(t *testing.T) {
	ctx := context.Background()
	pool := testPool(10, 20, 30, 40)

	t.Run("returns ids within pool", func(t *testing.T) {
		chat := &fakeChat{response: `{"bestsellers":[
			{"id": 30, "title": "책", "author": "저자"},
			{"id": 10, "title": "책", "author": "저자"}
		]}`}

		ids, err := testCurator(chat).CurateBestsellers(ctx, pool, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{30, 10}, ids)
	})

	t.Run("drops unknown and duplicate ids", func(t *testing.T) {
		chat := &fakeChat{response: `{"bestsellers":[
			{"id": 30}, {"id": 999}, {"id": 30}, {"id": 20}
		]}`}

		ids, err := testCurator(chat).CurateBestsellers(ctx, pool, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{30, 20}, ids)
	})

	t.Run("caps at count", func(t *testing.T) {
		chat := &fakeChat{response: `{"bestsellers":[
			{"id": 10}, {"id": 20}, {"id": 30}, {"id": 40}
		]}`}

		ids, err := testCurator(chat).CurateBestsellers(ctx, pool, 2)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("missing bestsellers key is malformed", func(t *testing.T) {
		chat := &fakeChat{response: `{"recommendations":[]}`}

		_, err := testCurator(chat).CurateBestsellers(ctx, pool, 20)
		assert.ErrorIs(t, err, ErrCurationFailed)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
