package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/search"
)

// SearchIndexHandle wraps the Bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text book index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchIndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: idx}, nil
}
