package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.StorePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.StorePath())

	return &StoreHandle{Store: db}, nil
}
