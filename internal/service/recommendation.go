package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/recommend"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

const (
	similarBooksCount = 10

	bestsellerCount    = 20
	bestsellerPoolSize = 200

	personalizedCount    = 2
	personalizedPoolSize = 20
	// Below this many books in the preferred category, the pool falls
	// back to a catalog-wide sample.
	personalizedPoolMin = 5

	// Reason attached to bestseller picks served to anonymous users.
	genericReason = "많은 독자들이 선택한 베스트셀러입니다."
)

// BestsellerCurator selects bestsellers from a candidate pool.
// Satisfied by recommend.Curator.
type BestsellerCurator interface {
	CurateBestsellers(ctx context.Context, pool []domain.Book, count int) ([]int64, error)
}

// PersonalizedCurator selects personalized picks with reasons.
// Satisfied by recommend.Curator.
type PersonalizedCurator interface {
	CuratePersonalized(ctx context.Context, profile domain.Profile, pool []domain.Book, count int) ([]recommend.Pick, error)
}

// Curator combines both curation modes.
type Curator interface {
	BestsellerCurator
	PersonalizedCurator
}

// RecommendationService orchestrates the three recommendation flows:
// embedding similarity, LLM-curated bestsellers, and personalized picks.
type RecommendationService struct {
	store   *store.Store
	curator Curator
	logger  *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(st *store.Store, curator Curator, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:   st,
		curator: curator,
		logger:  logger,
	}
}

// SimilarBooks returns up to 10 books closest to the given book by
// embedding cosine similarity. A book without an embedding is not
// ready for similarity and reports not found.
func (s *RecommendationService) SimilarBooks(ctx context.Context, bookID int64) ([]domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.HasEmbedding() {
		return nil, apperrors.NotFoundf("embedding not ready for book %d", bookID)
	}

	all, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Book, 0, len(all))
	for _, b := range all {
		if b.ID != book.ID {
			candidates = append(candidates, b)
		}
	}

	ranked := recommend.Rank(book.EmbeddingVector, candidates, similarBooksCount)

	books := make([]domain.Book, 0, len(ranked))
	for _, r := range ranked {
		books = append(books, r.Book)
	}
	return books, nil
}

// Bestsellers returns the flagged bestsellers, warming the flags via the
// curator when none are set yet. Curation failures degrade to whatever
// is currently flagged instead of erroring.
func (s *RecommendationService) Bestsellers(ctx context.Context) ([]domain.Book, error) {
	flagged, err := s.store.ListBestsellers(ctx, bestsellerCount)
	if err != nil {
		return nil, err
	}
	if len(flagged) > 0 {
		return flagged, nil
	}

	return s.warmBestsellers(ctx)
}

// RefreshBestsellers re-runs curation even when flags already exist.
// Flags are raise-only, so a refresh can only add bestsellers.
func (s *RecommendationService) RefreshBestsellers(ctx context.Context) ([]domain.Book, error) {
	return s.warmBestsellers(ctx)
}

func (s *RecommendationService) warmBestsellers(ctx context.Context) ([]domain.Book, error) {
	pool, err := s.store.SampleBooks(ctx, bestsellerPoolSize)
	if err != nil {
		return nil, err
	}

	ids, err := s.curator.CurateBestsellers(ctx, pool, bestsellerCount)
	if err != nil {
		if errors.Is(err, recommend.ErrCurationFailed) {
			s.logger.Warn("bestseller curation failed, serving current flags", "error", err)
			return s.store.ListBestsellers(ctx, bestsellerCount)
		}
		return nil, err
	}

	if err := s.store.SetBestsellerFlags(ctx, ids); err != nil {
		return nil, fmt.Errorf("set bestseller flags: %w", err)
	}

	s.logger.Info("bestseller flags updated", "count", len(ids))

	return s.store.ListBestsellers(ctx, bestsellerCount)
}

// Personalized returns curated picks with reasons for the user. Short
// results are backfilled with random bestsellers. userID may be empty;
// anonymous users get up to 2 random bestsellers with a generic reason.
func (s *RecommendationService) Personalized(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	if userID == "" {
		return s.anonymousPicks(ctx)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.personalizedPool(ctx, user.SelectedCategory)
	if err != nil {
		return nil, err
	}

	var picks []recommend.Pick
	if len(pool) > 0 {
		picks, err = s.curator.CuratePersonalized(ctx, domain.ProfileFromUser(user), pool, personalizedCount)
		if err != nil {
			if !errors.Is(err, recommend.ErrCurationFailed) {
				return nil, err
			}
			s.logger.Warn("personalized curation failed, backfilling with bestsellers",
				"user_id", userID,
				"error", err,
			)
			picks = nil
		}
	}

	recs := make([]domain.Recommendation, 0, personalizedCount)
	seen := make(map[int64]bool)
	for _, pick := range picks {
		book, err := s.store.GetBook(ctx, pick.BookID)
		if err != nil {
			if errors.Is(err, store.ErrBookNotFound) {
				continue
			}
			return nil, err
		}
		recs = append(recs, domain.Recommendation{Book: *book, Reason: pick.Reason})
		seen[book.ID] = true
	}

	return s.backfillWithBestsellers(ctx, recs, seen)
}

// anonymousPicks serves up to 2 random bestsellers with a fixed reason.
func (s *RecommendationService) anonymousPicks(ctx context.Context) ([]domain.Recommendation, error) {
	return s.backfillWithBestsellers(ctx, nil, map[int64]bool{})
}

// personalizedPool builds the candidate pool for curation: the user's
// preferred category capped at 20, or a catalog-wide sample when the
// category is unset or too thin.
func (s *RecommendationService) personalizedPool(ctx context.Context, categoryName string) ([]domain.Book, error) {
	if categoryName != "" {
		category, err := s.store.GetCategoryByName(ctx, categoryName)
		if err != nil && !errors.Is(err, store.ErrCategoryNotFound) {
			return nil, err
		}
		if category != nil {
			books, err := s.store.ListBooksByCategory(ctx, category.ID)
			if err != nil {
				return nil, err
			}
			if len(books) >= personalizedPoolMin {
				if len(books) > personalizedPoolSize {
					books = books[:personalizedPoolSize]
				}
				return books, nil
			}
		}
	}

	return s.store.SampleBooks(ctx, personalizedPoolSize)
}

// backfillWithBestsellers pads recs to the target count with random
// bestsellers, skipping books already picked. Stops early when the
// flagged set runs out.
func (s *RecommendationService) backfillWithBestsellers(ctx context.Context, recs []domain.Recommendation, seen map[int64]bool) ([]domain.Recommendation, error) {
	if len(recs) >= personalizedCount {
		return recs[:personalizedCount], nil
	}

	bestsellers, err := s.store.ListBestsellers(ctx, 0)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(bestsellers), func(i, j int) {
		bestsellers[i], bestsellers[j] = bestsellers[j], bestsellers[i]
	})

	for _, b := range bestsellers {
		if len(recs) >= personalizedCount {
			break
		}
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		recs = append(recs, domain.Recommendation{Book: b, Reason: genericReason})
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return recs, nil
}
