package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/api"
	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/media/covers"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	bookService := do.MustInvoke[*service.BookService](i)

	// Bring the search index up to date before serving queries.
	if err := bookService.EnsureIndexed(context.Background()); err != nil {
		return nil, err
	}

	handler := api.NewServer(api.Services{
		Auth:           do.MustInvoke[*service.AuthService](i),
		User:           do.MustInvoke[*service.UserService](i),
		Book:           bookService,
		Comment:        do.MustInvoke[*service.CommentService](i),
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Narration:      do.MustInvoke[*service.NarrationService](i),
		CoverStorage:   do.MustInvoke[*covers.Storage](i),
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
