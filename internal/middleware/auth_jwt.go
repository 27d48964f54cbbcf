package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// TokenPrefix marks tokens minted by this service. The prefix is part of the
// wire format; clients send it back verbatim.
const TokenPrefix = "token_"

// TokenClaims is the payload of an access token. Phone doubles as the user
// identity; there is no separate account id.
type TokenClaims struct {
	Phone string `json:"phone"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

type phoneKey struct{}

// SignToken mints a prefixed HS256 token for the phone, valid for ttl.
func SignToken(secret, phone string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{Phone: phone, Iat: now.Unix(), Exp: now.Add(ttl).Unix()}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	payloadJSON, _ := json.Marshal(claims)
	data := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(payloadJSON)
	return TokenPrefix + data + "." + hmacSign(secret, data), nil
}

func hmacSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyToken checks prefix, signature and expiry and returns the claims.
func VerifyToken(secret, token string) (*TokenClaims, error) {
	if !strings.HasPrefix(token, TokenPrefix) {
		return nil, errors.New("invalid token format")
	}
	parts := strings.Split(strings.TrimPrefix(token, TokenPrefix), ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token")
	}
	expected := hmacSign(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errors.New("invalid signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	if claims.Phone == "" {
		return nil, errors.New("token missing subject")
	}
	return &claims, nil
}

// AuthBearer requires a valid bearer token and stores the verified phone in
// the request context.
func AuthBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := VerifyToken(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), phoneKey{}, claims.Phone)))
		})
	}
}

// OptionalAuth attaches the verified phone when a valid bearer token is
// present, and passes the request through untouched otherwise. Used on
// endpoints that accept both anonymous and signed-in callers.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if claims, err := VerifyToken(secret, parts[1]); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), phoneKey{}, claims.Phone))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PhoneFromContext returns the authenticated phone number, or "".
func PhoneFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(phoneKey{}).(string); ok {
		return v
	}
	return ""
}
