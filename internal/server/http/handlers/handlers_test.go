package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/telemart/storefront/internal/domain/errors"
	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/server/http/dto"
	"github.com/telemart/storefront/internal/server/http/middleware"
	testhelpers "github.com/telemart/storefront/internal/test"
)

func performJSON(t *testing.T, engine *gin.Engine, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

// newEngine registers routes behind a middleware that plants the identity,
// the way TelegramAuth does for verified requests.
func newEngine(register func(*gin.Engine), identity *model.TelegramIdentity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.IdentityContextKey, identity)
		}
		c.Next()
	})
	register(engine)
	return engine
}

func validCreatePayload() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: model.Customer{Name: "Alice"},
		Items:    []model.OrderItem{{ProductID: "p1", Name: "Widget", Quantity: 1, UnitPrice: 10, TotalPrice: 10}},
		Delivery: model.DeliveryInfo{Method: model.DeliveryHandToHand},
		Payment:  model.PaymentInfo{Method: model.PaymentBlik, Subtotal: 10, Total: 10},
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var gotIdentity *model.TelegramIdentity
	facade := testhelpers.OrderFacadeStub{
		CreateOrderFn: func(_ context.Context, draft *model.Order, identity *model.TelegramIdentity) (*model.Order, error) {
			gotIdentity = identity
			out := *draft
			out.ID = "ORD-20250601-TEST"
			out.Status = model.OrderStatusVerificationPending
			return &out, nil
		},
	}
	handler := NewOrderHandler(facade)
	identity := &model.TelegramIdentity{UserID: 42}
	engine := newEngine(func(e *gin.Engine) { e.POST("/api/orders", handler.Create) }, identity)

	resp := performJSON(t, engine, http.MethodPost, "/api/orders", validCreatePayload())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotIdentity == nil || gotIdentity.UserID != 42 {
		t.Fatalf("identity not passed to facade: %+v", gotIdentity)
	}

	var created dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "ORD-20250601-TEST" || created.Status != "verification_pending" {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestOrderHandlerCreateBadPayload(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	engine := newEngine(func(e *gin.Engine) { e.POST("/api/orders", handler.Create) }, &model.TelegramIdentity{UserID: 42})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCreateMapsErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domainErrors.ErrValidation, http.StatusBadRequest},
		{"forbidden", domainErrors.ErrForbidden, http.StatusForbidden},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{
				CreateOrderFn: func(context.Context, *model.Order, *model.TelegramIdentity) (*model.Order, error) {
					return nil, tc.err
				},
			}
			handler := NewOrderHandler(facade)
			identity := &model.TelegramIdentity{UserID: 42}
			engine := newEngine(func(e *gin.Engine) { e.POST("/api/orders", handler.Create) }, identity)

			resp := performJSON(t, engine, http.MethodPost, "/api/orders", validCreatePayload())
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		OrderFn: func(_ context.Context, id string, userID int64) (*model.Order, error) {
			if userID != 42 {
				return nil, domainErrors.ErrForbidden
			}
			return &model.Order{ID: id, Customer: model.Customer{TelegramUserID: userID}}, nil
		},
	}
	handler := NewOrderHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.GET("/api/orders/:id", handler.Get) }, &model.TelegramIdentity{UserID: 42})

	resp := performJSON(t, engine, http.MethodGet, "/api/orders/ORD-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	foreign := newEngine(func(e *gin.Engine) { e.GET("/api/orders/:id", handler.Get) }, &model.TelegramIdentity{UserID: 7})
	resp = performJSON(t, foreign, http.MethodGet, "/api/orders/ORD-1", nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign order, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		OrdersFn: func(_ context.Context, userID int64) ([]model.Order, error) {
			return []model.Order{{ID: "ORD-1"}, {ID: "ORD-2"}}, nil
		},
	}
	handler := NewOrderHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.GET("/api/orders", handler.List) }, &model.TelegramIdentity{UserID: 42})

	resp := performJSON(t, engine, http.MethodGet, "/api/orders", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
}

func TestAdminHandlerUpdateStatus(t *testing.T) {
	facade := testhelpers.AdminFacadeStub{
		SetOrderStatusFn: func(_ context.Context, id, status string) (*model.Order, error) {
			switch status {
			case "ready_for_h2h":
				return &model.Order{ID: id, Status: model.OrderStatusReadyForH2H}, nil
			case "completed_h2h":
				return nil, domainErrors.ErrInvalidTransition
			default:
				return nil, domainErrors.ErrValidation
			}
		},
	}
	handler := NewAdminHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.PATCH("/api/admin/h2h/orders/:id/status", handler.UpdateStatus) }, nil)

	resp := performJSON(t, engine, http.MethodPatch, "/api/admin/h2h/orders/ORD-1/status",
		dto.UpdateOrderStatusRequest{Status: "ready_for_h2h"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodPatch, "/api/admin/h2h/orders/ORD-1/status",
		dto.UpdateOrderStatusRequest{Status: "completed_h2h"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for invalid transition, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodPatch, "/api/admin/h2h/orders/ORD-1/status",
		dto.UpdateOrderStatusRequest{Status: "teleported"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.Code)
	}
}

func TestAdminHandlerUpdateVerification(t *testing.T) {
	facade := testhelpers.AdminFacadeStub{}
	handler := NewAdminHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.PATCH("/api/admin/h2h/orders/:id/verification", handler.UpdateVerification) }, nil)

	resp := performJSON(t, engine, http.MethodPatch, "/api/admin/h2h/orders/ORD-1/verification",
		dto.UpdateVerificationRequest{Status: "approved"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if order.Verification.Status != model.VerificationStatusApproved {
		t.Fatalf("unexpected verification: %+v", order.Verification)
	}
}

func TestAdminHandlerQueues(t *testing.T) {
	var gotDay string
	facade := testhelpers.AdminFacadeStub{
		VerificationQueueFn: func(context.Context) ([]model.Order, error) {
			return []model.Order{{ID: "ORD-1"}}, nil
		},
		HandToHandOrdersFn: func(_ context.Context, day string) ([]model.Order, error) {
			gotDay = day
			return []model.Order{{ID: "ORD-2"}}, nil
		},
	}
	handler := NewAdminHandler(facade)
	engine := newEngine(func(e *gin.Engine) {
		e.GET("/api/admin/h2h/verifications", handler.Verifications)
		e.GET("/api/admin/h2h/orders", handler.Orders)
	}, nil)

	resp := performJSON(t, engine, http.MethodGet, "/api/admin/h2h/verifications", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodGet, "/api/admin/h2h/orders?day=tomorrow", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotDay != "tomorrow" {
		t.Fatalf("expected day query forwarded, got %q", gotDay)
	}

	resp = performJSON(t, engine, http.MethodGet, "/api/admin/h2h/orders", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotDay != "today" {
		t.Fatalf("expected default day today, got %q", gotDay)
	}
}

func TestAdminHandlerUpsertDiscount(t *testing.T) {
	var gotDiscount *model.DiscountCode
	facade := testhelpers.AdminFacadeStub{
		UpsertDiscountFn: func(_ context.Context, discount *model.DiscountCode) error {
			gotDiscount = discount
			return nil
		},
	}
	handler := NewAdminHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.PUT("/api/admin/discounts/:code", handler.UpsertDiscount) }, nil)

	limit := 100
	resp := performJSON(t, engine, http.MethodPut, "/api/admin/discounts/start10",
		dto.UpsertDiscountRequest{Type: "percentage", Value: 10, IsActive: true, UsageLimit: &limit})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if gotDiscount == nil || gotDiscount.Code != "start10" || gotDiscount.Type != model.DiscountPercentage {
		t.Fatalf("unexpected discount: %+v", gotDiscount)
	}
}

func TestLoyaltyHandlerStatus(t *testing.T) {
	handler := NewLoyaltyHandler(testhelpers.LoyaltyFacadeStub{})

	engine := newEngine(func(e *gin.Engine) { e.GET("/api/loyalty/status", handler.Status) }, &model.TelegramIdentity{UserID: 42})
	resp := performJSON(t, engine, http.MethodGet, "/api/loyalty/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status dto.LoyaltyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Level != "Insider" || status.Points != 150 {
		t.Fatalf("unexpected status: %+v", status)
	}

	anonymous := newEngine(func(e *gin.Engine) { e.GET("/api/loyalty/status", handler.Status) }, nil)
	resp = performJSON(t, anonymous, http.MethodGet, "/api/loyalty/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("guest must get 200, got %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Level != "Guest" {
		t.Fatalf("expected guest level, got %+v", status)
	}
}

func TestDiscountHandlerValidate(t *testing.T) {
	handler := NewDiscountHandler(testhelpers.DiscountFacadeStub{})
	engine := newEngine(func(e *gin.Engine) { e.POST("/api/discounts/validate", handler.Validate) }, nil)

	resp := performJSON(t, engine, http.MethodPost, "/api/discounts/validate",
		dto.ValidateDiscountRequest{Code: "START10", OrderTotal: 100})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.ValidateDiscountResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Valid || result.NewTotal != 90 {
		t.Fatalf("unexpected result: %+v", result)
	}

	resp = performJSON(t, engine, http.MethodPost, "/api/discounts/validate", map[string]any{"orderTotal": 100})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without code, got %d", resp.Code)
	}
}

func TestProductHandler(t *testing.T) {
	handler := NewProductHandler(testhelpers.CatalogFacadeStub{
		ProductFn: func(_ context.Context, id string) (*model.Product, error) {
			if id != "p1" {
				return nil, domainErrors.ErrNotFound
			}
			return &model.Product{ID: "p1", Name: "Widget"}, nil
		},
	})
	engine := newEngine(func(e *gin.Engine) {
		e.GET("/api/products", handler.List)
		e.GET("/api/products/:id", handler.Get)
	}, nil)

	resp := performJSON(t, engine, http.MethodGet, "/api/products", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodGet, "/api/products/p1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodGet, "/api/products/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestWebhookHandler(t *testing.T) {
	facade := &testhelpers.WebhookFacadeStub{}
	handler := NewWebhookHandler(facade)
	engine := newEngine(func(e *gin.Engine) { e.POST("/api/telegram/webhook", handler.Receive) }, nil)

	resp := performJSON(t, engine, http.MethodPost, "/api/telegram/webhook", dto.WebhookUpdate{
		Message: &dto.WebhookMessage{Chat: dto.WebhookChat{ID: 42}, Text: "/start"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodPost, "/api/telegram/webhook", dto.WebhookUpdate{
		Message: &dto.WebhookMessage{Chat: dto.WebhookChat{ID: 42}, Text: "/id@store_bot"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performJSON(t, engine, http.MethodPost, "/api/telegram/webhook", dto.WebhookUpdate{
		Message: &dto.WebhookMessage{Chat: dto.WebhookChat{ID: 42}, Text: "hello"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	notified := facade.Notified()
	if len(notified) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notified))
	}
	if !strings.Contains(notified[0].Text, "Welcome") {
		t.Fatalf("unexpected welcome text: %q", notified[0].Text)
	}
	if !strings.Contains(notified[1].Text, "42") {
		t.Fatalf("id reply should contain the chat id: %q", notified[1].Text)
	}
}
