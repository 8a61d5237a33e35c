package telegram

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/telemart/storefront/internal/config"
)

// Module exposes telegram client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.TelegramAPIURL, p.Config.BotToken, p.Logger)
}
