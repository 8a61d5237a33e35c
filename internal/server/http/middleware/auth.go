package middleware

import (
	"crypto/hmac"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/domain/model"
)

const (
	// IdentityContextKey is a gin context key for the verified telegram identity.
	IdentityContextKey = "telegramIdentity"

	// InitDataHeader carries the signed mini-app payload.
	InitDataHeader = "X-Telegram-Init-Data"

	// AdminSecretHeader carries the shared admin secret.
	AdminSecretHeader = "X-Admin-Secret"
)

// IdentityVerifier validates a signed init-data payload.
type IdentityVerifier interface {
	Verify(raw string) (*model.TelegramIdentity, error)
}

// TelegramAuth verifies the init-data header when present and stores the
// resulting identity on the context. A present but invalid payload aborts
// the request; an absent header just leaves the request anonymous.
func TelegramAuth(verifier IdentityVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(raw)
		if err != nil {
			logger.Warn("init data rejected", slog.String("error", err.Error()))
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// RequireTelegramUser ensures the request carries a verified identity with a
// resolvable user.
func RequireTelegramUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Authenticated() {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// AdminAuth guards administrative endpoints with a shared secret. An empty
// configured secret locks the surface entirely.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		provided := c.GetHeader(AdminSecretHeader)
		if !hmac.Equal([]byte(provided), []byte(secret)) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// CurrentIdentity extracts the verified identity from context; nil-safe.
func CurrentIdentity(c *gin.Context) *model.TelegramIdentity {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return nil
	}
	identity, _ := val.(*model.TelegramIdentity)
	return identity
}
