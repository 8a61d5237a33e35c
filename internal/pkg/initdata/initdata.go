package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/telemart/storefront/internal/domain/model"
)

var (
	ErrNotConfigured = errors.New("bot token not configured")
	ErrMalformed     = errors.New("malformed init data")
	ErrMissingHash   = errors.New("missing hash in init data")
	ErrInvalidHash   = errors.New("invalid init data hash")
	ErrExpired       = errors.New("init data too old")
)

// secretDerivationKey is the fixed HMAC key used to derive the signing secret
// from the bot token, per the Telegram WebApp validation scheme.
const secretDerivationKey = "WebAppData"

const defaultMaxAge = 24 * time.Hour

var timeNow = time.Now

// Verifier validates signed mini-app payloads against a bot token secret.
// Verification is pure and safe for unbounded concurrent use.
type Verifier struct {
	secret []byte
	maxAge time.Duration
}

// Options tune verifier behaviour.
type Options struct {
	MaxAge time.Duration
}

// NewVerifier builds a Verifier. The HMAC signing secret is derived once from
// the bot token. An empty token makes every Verify call fail closed.
func NewVerifier(botToken string, opts Options) *Verifier {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}

	v := &Verifier{maxAge: maxAge}
	if botToken != "" {
		mac := hmac.New(sha256.New, []byte(secretDerivationKey))
		mac.Write([]byte(botToken))
		v.secret = mac.Sum(nil)
	}
	return v
}

type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Verify checks authenticity and freshness of a query-string encoded payload
// and returns the identity it asserts. Verification is all or nothing: any
// failure leaves the payload fully untrusted.
func (v *Verifier) Verify(raw string) (*model.TelegramIdentity, error) {
	if len(v.secret) == 0 {
		return nil, ErrNotConfigured
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, ErrMalformed
	}

	hashes, ok := values["hash"]
	if !ok || len(hashes) == 0 {
		return nil, ErrMissingHash
	}
	suppliedHash := hashes[len(hashes)-1]

	if !hmac.Equal([]byte(v.computeHash(values)), []byte(suppliedHash)) {
		return nil, ErrInvalidHash
	}

	identity := &model.TelegramIdentity{}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, ErrMalformed
		}
		issuedAt := time.Unix(ts, 0)
		if timeNow().Sub(issuedAt) > v.maxAge {
			return nil, ErrExpired
		}
		identity.IssuedAt = issuedAt
	}

	if rawUser := values.Get("user"); rawUser != "" {
		var user userPayload
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			// Tolerated: the raw field is retained, but the identity stays
			// anonymous and must be treated as unauthenticated downstream.
			identity.RawUser = rawUser
		} else {
			identity.UserID = user.ID
			identity.Username = user.Username
		}
	}

	return identity, nil
}

// computeHash builds the canonical check-string from every field except hash
// and signs it with the derived secret. Sorting makes the digest deterministic
// regardless of input field order.
func (v *Verifier) computeHash(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		vs := values[k]
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(vs[len(vs)-1])
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
