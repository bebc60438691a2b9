package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/media/covers"
)

// ProvideCoverStorage provides the cover image store.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return covers.NewStorage(cfg.CoversPath())
}

// ProvideCoverDownloader provides the cover downloader.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	storage := do.MustInvoke[*covers.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewDownloader(storage, log.Logger), nil
}
