package auth

import (
	"github.com/polkiloo/profilehub/internal/config"
	"go.uber.org/fx"
)

// Module provides the password hasher via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
)

type hasherParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p hasherParams) (PasswordHasher, error) {
	return NewPasswordHasher(p.Config.HashAlgorithm, p.Config.HashCost)
}
