package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbakhodurov/week1/order/pkg/service"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

const RoleAdmin = "admin"

// Claims is the bearer token payload issued by the account service.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

func actorFrom(ctx context.Context) (service.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(service.Actor)
	return a, ok
}

var (
	errUnauthorized = apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "authentication required")
	errForbidden    = apperr.ErrForbidden
)

// Authenticate requires an HS256 bearer token and puts the caller's Actor
// into the request context.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, r, a.log, errUnauthorized)
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid || claims.ID == "" {
			writeError(w, r, a.log, errUnauthorized)
			return
		}

		actor := service.Actor{UserUUID: claims.ID, Admin: claims.Role == RoleAdmin}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, actor)))
	})
}

// RequireAdmin must run after Authenticate.
func (a *API) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r.Context())
		if !ok {
			writeError(w, r, a.log, errUnauthorized)
			return
		}
		if !actor.Admin {
			writeError(w, r, a.log, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IssueToken signs a token for id and role. Used by the CLI and tests.
func IssueToken(secret []byte, id, role string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: id, Role: role}).SignedString(secret)
}
