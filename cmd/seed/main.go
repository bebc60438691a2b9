// Package main provides a tool to load a catalog dump into the database.
//
// The dump is a JSON array of book records exported from the upstream
// catalog. Each record is inserted once (ISBN duplicates are skipped),
// its cover image is downloaded and hashed, and the search index is
// updated at the end.
//
// Usage:
//
//	DATA_PATH=~/BookBook/data go run ./cmd/seed -file catalog.json
//	go run ./cmd/seed -file catalog.json -skip-covers
package main

import (
	"context"
	"encoding/json/v2"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/media/covers"
	"github.com/bookbookapp/bookbook-server/internal/search"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

var (
	dumpFile   = flag.String("file", "", "Path to the JSON catalog dump (required)")
	skipCovers = flag.Bool("skip-covers", false, "Skip cover downloads")
)

// seedBook mirrors one record of the catalog dump.
type seedBook struct {
	Title              string  `json:"title"`
	Subtitle           string  `json:"subtitle"`
	Author             string  `json:"author"`
	AuthorInfo         string  `json:"author_info"`
	AuthorPhoto        string  `json:"author_photo"`
	Publisher          string  `json:"publisher"`
	ISBN               string  `json:"isbn"`
	Cover              string  `json:"cover"`
	PubDate            string  `json:"pub_date"` // YYYY-MM-DD
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	CustomerReviewRank float64 `json:"customer_review_rank"`
}

func main() {
	// LoadConfig parses the command line, picking up the flags above.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *dumpFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*dumpFile)
	if err != nil {
		log.Fatalf("Failed to open dump: %v", err)
	}
	defer f.Close()

	var records []seedBook
	if err := json.UnmarshalRead(f, &records); err != nil {
		log.Fatalf("Failed to parse dump: %v", err)
	}
	fmt.Printf("Loaded %d records from %s\n", len(records), *dumpFile)

	s, err := store.New(cfg.StorePath(), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	index, err := search.NewIndex(search.Options{DataPath: cfg.SearchIndexPath()})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	var downloader *covers.Downloader
	if !*skipCovers {
		storage, err := covers.NewStorage(cfg.CoversPath())
		if err != nil {
			log.Fatalf("Failed to open cover storage: %v", err)
		}
		downloader = covers.NewDownloader(storage, nil)
	}

	ctx := context.Background()
	created, skipped, coversOK := 0, 0, 0
	var docs []*search.Document

	for _, rec := range records {
		book, err := buildBook(ctx, s, rec)
		if err != nil {
			log.Printf("Skipping %q: %v", rec.Title, err)
			continue
		}

		if err := s.CreateBook(ctx, book); err != nil {
			if errors.Is(err, store.ErrBookExists) {
				skipped++
				continue
			}
			log.Fatalf("Failed to create book %q: %v", rec.Title, err)
		}
		created++

		if downloader != nil && book.Cover != "" {
			result := downloader.Download(ctx, book.ID, book.Cover)
			if result.Success {
				coversOK++
				if result.BlurHash != "" {
					book.CoverHash = result.BlurHash
					if err := s.UpdateBook(ctx, book); err != nil {
						log.Printf("Failed to store cover hash for %q: %v", book.Title, err)
					}
				}
			} else {
				log.Printf("Cover download failed for %q: %v", book.Title, result.Error)
			}
		}

		docs = append(docs, search.BookToDocument(book))
	}

	if len(docs) > 0 {
		if err := index.IndexDocuments(docs); err != nil {
			log.Fatalf("Failed to index books: %v", err)
		}
	}

	fmt.Printf("\nDone: %d created, %d skipped (already present), %d covers downloaded\n",
		created, skipped, coversOK)
}

// buildBook converts a dump record into a domain book, resolving its
// category and cleaning the description.
func buildBook(ctx context.Context, s *store.Store, rec seedBook) (*domain.Book, error) {
	if rec.Title == "" {
		return nil, fmt.Errorf("record has no title")
	}

	var categoryID int64
	if rec.Category != "" {
		category, err := s.EnsureCategory(ctx, rec.Category)
		if err != nil {
			return nil, fmt.Errorf("ensure category %q: %w", rec.Category, err)
		}
		categoryID = category.ID
	}

	var pubDate time.Time
	if rec.PubDate != "" {
		parsed, err := time.Parse("2006-01-02", rec.PubDate)
		if err != nil {
			log.Printf("Unparseable pub_date %q for %q, leaving unset", rec.PubDate, rec.Title)
		} else {
			pubDate = parsed
		}
	}

	return &domain.Book{
		Title:              rec.Title,
		Subtitle:           rec.Subtitle,
		Author:             rec.Author,
		AuthorInfo:         cleanDescription(rec.AuthorInfo),
		AuthorPhoto:        rec.AuthorPhoto,
		Publisher:          rec.Publisher,
		ISBN:               rec.ISBN,
		Cover:              rec.Cover,
		PubDate:            pubDate,
		Description:        cleanDescription(rec.Description),
		CategoryID:         categoryID,
		CustomerReviewRank: rec.CustomerReviewRank,
	}, nil
}
