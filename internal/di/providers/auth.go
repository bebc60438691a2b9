package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookbookapp/bookbook-server/internal/auth"
	"github.com/bookbookapp/bookbook-server/internal/config"
)

// AuthKey is the PASETO symmetric key loaded from disk.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
}
