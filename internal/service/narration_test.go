package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
)

type fakeSpeaker struct {
	err       error
	lastText  string
	lastVoice string
}

func (f *fakeSpeaker) Speech(_ context.Context, text, voice string) (io.ReadCloser, string, error) {
	f.lastText = text
	f.lastVoice = voice
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader("audio-bytes")), "audio/mpeg", nil
}

func setupNarrationService(t *testing.T) (*NarrationService, *fakeSpeaker) {
	t.Helper()
	speaker := &fakeSpeaker{}
	svc := NewNarrationService(setupTestStore(t), speaker, testLogger())
	return svc, speaker
}

func TestNarrateUsesUserVoice(t *testing.T) {
	svc, speaker := setupNarrationService(t)
	ctx := context.Background()

	book := seedBook(t, svc.store, "데미안", 0, nil)
	user := seedUser(t, svc.store, "a@example.com", "닉네임")
	user.SelectedVoice = domain.Voice2
	require.NoError(t, svc.store.UpdateUser(ctx, user))

	narration, err := svc.Narrate(ctx, book.ID, user.ID, "")
	require.NoError(t, err)
	t.Cleanup(func() { narration.Audio.Close() })

	assert.Equal(t, "nova", speaker.lastVoice)
	assert.Equal(t, book.Description, speaker.lastText)
	assert.Equal(t, "audio/mpeg", narration.ContentType)

	data, err := io.ReadAll(narration.Audio)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestNarrateVoiceOverride(t *testing.T) {
	svc, speaker := setupNarrationService(t)
	ctx := context.Background()

	book := seedBook(t, svc.store, "데미안", 0, nil)
	user := seedUser(t, svc.store, "a@example.com", "닉네임")

	narration, err := svc.Narrate(ctx, book.ID, user.ID, "voice4")
	require.NoError(t, err)
	narration.Audio.Close()

	assert.Equal(t, "shimmer", speaker.lastVoice)
}

func TestNarrateAnonymousDefaultsToVoice1(t *testing.T) {
	svc, speaker := setupNarrationService(t)

	book := seedBook(t, svc.store, "데미안", 0, nil)

	narration, err := svc.Narrate(context.Background(), book.ID, "", "")
	require.NoError(t, err)
	narration.Audio.Close()

	assert.Equal(t, "alloy", speaker.lastVoice)
}

func TestNarrateInvalidOverride(t *testing.T) {
	svc, _ := setupNarrationService(t)
	book := seedBook(t, svc.store, "데미안", 0, nil)

	_, err := svc.Narrate(context.Background(), book.ID, "", "voice9")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestNarrateNoDescription(t *testing.T) {
	svc, _ := setupNarrationService(t)
	ctx := context.Background()

	book := &domain.Book{Title: "설명 없는 책", Author: "저자"}
	require.NoError(t, svc.store.CreateBook(ctx, book))

	_, err := svc.Narrate(ctx, book.ID, "", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestNarrateSpeakerFailure(t *testing.T) {
	svc, speaker := setupNarrationService(t)
	book := seedBook(t, svc.store, "데미안", 0, nil)

	speaker.err = apperrors.New("gateway down")
	_, err := svc.Narrate(context.Background(), book.ID, "", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))
}
