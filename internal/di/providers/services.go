package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/auth"
	"github.com/bookbookapp/bookbook-server/internal/logger"
	"github.com/bookbookapp/bookbook-server/internal/recommend"
	"github.com/bookbookapp/bookbook-server/internal/service"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, validator, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideBookService provides the catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*AIClientHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(storeHandle.Store, clientHandle.Client, validator, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation orchestrator.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	curator := do.MustInvoke[*recommend.Curator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(storeHandle.Store, curator, log.Logger), nil
}

// ProvideNarrationService provides the TTS narration service.
func ProvideNarrationService(i do.Injector) (*service.NarrationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*AIClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNarrationService(storeHandle.Store, clientHandle.Client, log.Logger), nil
}
