package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

func TestDocumentLoaded(t *testing.T) {
	t.Run("with document", func(t *testing.T) {
		doc := &domain.Document{ID: "abc", Title: "Demo"}
		msg := DocumentLoaded{Document: doc}

		assert.Same(t, doc, msg.Document)
		assert.NoError(t, msg.Err)
		assert.False(t, msg.Reload)
	})

	t.Run("with error", func(t *testing.T) {
		msg := DocumentLoaded{Err: domain.ErrFetch, Reload: true}

		assert.Nil(t, msg.Document)
		assert.ErrorIs(t, msg.Err, domain.ErrFetch)
		assert.True(t, msg.Reload)
	})
}

func TestNavigate(t *testing.T) {
	target := domain.NavTarget{Generation: 2, Path: "image.tag", Ordinal: 4}
	msg := Navigate{Target: target}

	assert.Equal(t, target, msg.Target)
}

func TestWatchStarted(t *testing.T) {
	ch := make(chan struct{}, 1)
	msg := WatchStarted{Changes: ch}

	ch <- struct{}{}
	_, ok := <-msg.Changes
	assert.True(t, ok)
}

func TestResultMessages(t *testing.T) {
	errTest := errors.New("boom")

	assert.ErrorIs(t, Copied{Err: errTest}.Err, errTest)
	assert.Equal(t, "demo.yaml", Downloaded{Path: "demo.yaml"}.Path)
	assert.Equal(t, "image.tag", BookmarkAdded{Bookmark: &domain.Bookmark{Path: "image.tag"}}.Bookmark.Path)
	assert.ErrorIs(t, ErrorOccurred{Err: errTest}.Err, errTest)
}
