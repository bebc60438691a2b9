package recommend

import (
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/bookbookapp/bookbook-server/internal/domain"
)

// System prompts stay in Korean: the catalog and the model's output are
// both Korean-market text.
const (
	personalizedSystemPrompt = "당신은 사용자의 취향에 맞는 책을 찾아주는 전문 큐레이터입니다. " +
		"응답은 오직 JSON 객체 형태로만 이루어져야 합니다."

	bestsellerSystemPrompt = "당신은 한국 시장의 판매 트렌드를 잘 아는 전문 도서 추천가입니다. " +
		"제공된 데이터를 기반으로 가장 판매량이 높을 것으로 예상되는 책을 겹치지 않도록 선정하세요. " +
		"응답은 오직 JSON 객체 형태로만 이루어져야 합니다."
)

type promptBook struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type promptBestsellerBook struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	CustomerReviewRank float64 `json:"customer_review_rank"`
	PubDate            string  `json:"pub_date"`
}

// personalizedUserPrompt builds the curation prompt: the user's profile
// snapshot plus the bounded candidate pool as id/title/author tuples.
func personalizedUserPrompt(profile domain.Profile, pool []domain.Book, count int) string {
	profileJSON, _ := json.Marshal(map[string]string{
		"username":           profile.Name,
		"preferred_category": profile.SelectedCategory,
		"favorite_book":      profile.FavoriteBook,
	})

	books := make([]promptBook, 0, len(pool))
	for _, b := range pool {
		books = append(books, promptBook{ID: b.ID, Title: b.Title, Author: b.Author})
	}
	poolJSON, _ := json.Marshal(books)

	var sb strings.Builder
	fmt.Fprintf(&sb, "아래는 현재 로그인한 사용자의 프로필 정보입니다.\n\n")
	fmt.Fprintf(&sb, "사용자 프로필: %s\n\n", profileJSON)
	fmt.Fprintf(&sb, "아래 후보 도서 목록에서 사용자가 가장 좋아할 만한 %d권의 도서를 선정하고, 각 책을 추천하는 구체적인 이유를 작성해 주세요.\n\n", count)
	fmt.Fprintf(&sb, "규칙:\n")
	fmt.Fprintf(&sb, "1. 응답은 오직 'recommendations'라는 키를 가진 JSON 객체 형태여야 합니다.\n")
	fmt.Fprintf(&sb, "2. 리스트 요소는 'book_id'(정수), 'reason'(문자열) 필드를 포함해야 합니다.\n")
	fmt.Fprintf(&sb, "3. 반드시 아래 후보 도서 목록에 있는 책만 선정해야 합니다.\n\n")
	fmt.Fprintf(&sb, "후보 도서 목록:\n%s\n\n", poolJSON)
	fmt.Fprintf(&sb, `응답 예시: {"recommendations": [{"book_id": 123, "reason": "..."}]}`)
	return sb.String()
}

// bestsellerUserPrompt builds the bestseller-selection prompt over a
// random catalog sample.
func bestsellerUserPrompt(pool []domain.Book, count int) string {
	books := make([]promptBestsellerBook, 0, len(pool))
	for _, b := range pool {
		books = append(books, promptBestsellerBook{
			ID:                 b.ID,
			Title:              b.Title,
			Author:             b.Author,
			CustomerReviewRank: b.CustomerReviewRank,
			PubDate:            b.PubDate.Format("2006-01-02"),
		})
	}
	poolJSON, _ := json.Marshal(books)

	var sb strings.Builder
	fmt.Fprintf(&sb, "아래는 시스템에 등록된 도서 %d권의 무작위 샘플 목록입니다.\n", len(pool))
	fmt.Fprintf(&sb, "이 샘플 데이터와 한국 도서 트렌드를 분석하여 '가장 높은 판매량을 보일 것으로 예상되는' 정확히 %d권의 도서를 선정해 주세요.\n\n", count)
	fmt.Fprintf(&sb, "규칙:\n")
	fmt.Fprintf(&sb, "1. 응답은 오직 JSON 객체 형태로만 이루어져야 합니다.\n")
	fmt.Fprintf(&sb, "2. JSON 객체는 'bestsellers'라는 키를 가지는 리스트여야 합니다.\n")
	fmt.Fprintf(&sb, "3. 각 리스트 요소는 원본 도서 목록에 있는 'id', 'title', 'author'를 포함해야 합니다.\n")
	fmt.Fprintf(&sb, "4. 반드시 아래 제시된 도서 목록 내에서만 정확히 %d권을 선정해야 합니다.\n\n", count)
	fmt.Fprintf(&sb, "샘플링된 도서 목록:\n%s\n\n", poolJSON)
	fmt.Fprintf(&sb, `응답 예시: {"bestsellers": [{"id": 123, "title": "책제목1", "author": "저자1"}]}`)
	return sb.String()
}
