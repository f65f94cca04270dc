package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an access token.
type Claims struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"isAdmin"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims of a verified request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)

	return claims, ok && claims != nil
}

// Gate verifies bearer tokens on every request that no exemption rule lets through.
type Gate struct {
	secret      []byte
	exemptions  []config.Exemption
	publicPaths map[string]struct{}
}

// NewGate creates a new Gate.
func NewGate(cfg config.Auth) *Gate {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return &Gate{
		secret:      []byte(cfg.Secret),
		exemptions:  cfg.Exemptions,
		publicPaths: public,
	}
}

// Exempt reports whether a request skips token verification. OPTIONS
// requests and public paths always do; other requests do when an exemption
// pattern matches the path and lists the method.
func (g *Gate) Exempt(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	if _, ok := g.publicPaths[path]; ok {
		return true
	}

	for _, e := range g.exemptions {
		if !matchPath(e.Pattern, path) {
			continue
		}
		for _, m := range e.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
	}

	return false
}

// matchPath matches path against pattern; a trailing "*" matches any suffix.
func matchPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}

	return pattern == path
}

// Verify checks an Authorization header value and returns its claims.
func (g *Gate) Verify(header string) (*Claims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(token),
		claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidToken, err)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: token has no user", errs.ErrInvalidToken)
	}

	return claims, nil
}

// Middleware rejects unverified requests and attaches claims to verified ones.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Exempt(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)

			return
		}

		claims, err := g.Verify(r.Header.Get("Authorization"))
		if err != nil {
			respond.Error(w, r, "Request rejected by authorization gate", err)

			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin lets through only requests whose token belongs to an administrator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin {
			respond.Error(w, r, "Admin access required", errs.ErrForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}
