// Package di provides dependency injection configuration for the BookBook server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/auth"
	"github.com/bookbookapp/bookbook-server/internal/config"
	"github.com/bookbookapp/bookbook-server/internal/di/providers"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/media/covers"
	"github.com/bookbookapp/bookbook-server/internal/recommend"
	"github.com/bookbookapp/bookbook-server/internal/service"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverDownloader)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// AI layer
	do.Provide(injector, providers.ProvideAIClient)
	do.Provide(injector, providers.ProvideCurator)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCommentService)
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideNarrationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*covers.Downloader](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.AIClientHandle](injector)
	_ = do.MustInvoke[*recommend.Curator](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.CommentService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*service.NarrationService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
