package initdata

import (
	"go.uber.org/fx"

	"github.com/telemart/storefront/internal/config"
)

// Module provides the payload verifier via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) *Verifier {
	return NewVerifier(p.Config.BotToken, Options{MaxAge: p.Config.InitDataMaxAge})
}
