package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/telemart/storefront/internal/adapter/telegram"
	"github.com/telemart/storefront/internal/app"
	"github.com/telemart/storefront/internal/config"
	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/domain/repository"
	"github.com/telemart/storefront/internal/storage/postgres"
	testhelpers "github.com/telemart/storefront/internal/test"
)

type clientStub struct{}

func (clientStub) Send(context.Context, model.Notification) error { return nil }

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		BotToken:        "token",
		AdminSecret:     "secret",
		TelegramAPIURL:  "http://localhost",
		InitDataMaxAge:  time.Hour,
		NotifyTimeout:   time.Millisecond,
		NotifyWorkers:   1,
		NotifyQueueSize: 1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := &testhelpers.OrderRepositoryStub{}
	discountRepo := &testhelpers.DiscountRepositoryStub{}
	productRepo := &testhelpers.ProductRepositoryStub{}

	var facade *app.StorefrontFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.DiscountRepository(discountRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(telegram.Client(clientStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected storefront facade instance")
	}
}
