package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceValid(t *testing.T) {
	for _, v := range Voices {
		assert.True(t, v.Valid(), "voice %s should be valid", v)
	}
	assert.False(t, Voice("voice5").Valid())
	assert.False(t, Voice("").Valid())
}

func TestValidCategoryName(t *testing.T) {
	assert.True(t, ValidCategoryName("과학"))
	assert.False(t, ValidCategoryName("판타지"))
	assert.False(t, ValidCategoryName(""))
}

func TestSummarizeRatings(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := SummarizeRatings(nil)
		assert.Zero(t, s.AverageRating)
		assert.Zero(t, s.CommentCount)
	})

	t.Run("averages", func(t *testing.T) {
		s := SummarizeRatings([]Comment{
			{Rating: 5},
			{Rating: 4},
			{Rating: 3},
		})
		assert.Equal(t, 3, s.CommentCount)
		assert.InDelta(t, 4.0, s.AverageRating, 1e-9)
	})
}

func TestBookEmbeddingText(t *testing.T) {
	b := Book{
		Title:       "어린 왕자",
		Author:      "생텍쥐페리",
		Description: "사막에 불시착한 조종사가 만난 소년의 이야기",
	}
	text := b.EmbeddingText()
	assert.Equal(t, "어린 왕자\n생텍쥐페리\n사막에 불시착한 조종사가 만난 소년의 이야기", text)

	empty := Book{}
	assert.Empty(t, empty.EmbeddingText())
}

func TestBookHasEmbedding(t *testing.T) {
	b := Book{}
	assert.False(t, b.HasEmbedding())
	b.EmbeddingVector = []float64{0.1, 0.2}
	assert.True(t, b.HasEmbedding())
}
