package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-backend/domain/catalog"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/common"
	apperrors "catalog-backend/pkg/errors"
)

// ActorResolver turns an incoming request into the acting user. The JWT
// resolver is the deployed path; the static resolver backs the explicit
// auth-bypass configuration used in local development.
type ActorResolver interface {
	Resolve(r *http.Request) (catalog.Actor, error)
}

// JWTResolver resolves the actor from a bearer token.
type JWTResolver struct {
	validator *auth.Validator
}

// NewJWTResolver creates a token-based actor resolver.
func NewJWTResolver(validator *auth.Validator) *JWTResolver {
	return &JWTResolver{validator: validator}
}

// Resolve extracts and validates the bearer token, then maps its claims to
// an actor. Cognito group names double as role names.
func (j *JWTResolver) Resolve(r *http.Request) (catalog.Actor, error) {
	token := extractBearerToken(r)
	if token == "" {
		return catalog.Actor{}, apperrors.NewUnauthorizedError("missing authorization header")
	}
	claims, err := j.validator.Parse(token)
	if err != nil {
		return catalog.Actor{}, err
	}
	username := claims.Username
	if username == "" {
		username = claims.Email
	}
	return catalog.Actor{Username: username, Roles: claims.Groups}, nil
}

// StaticResolver resolves every request to one configured actor. Only wired
// when auth bypass is enabled, which config rejects in production.
type StaticResolver struct {
	actor catalog.Actor
}

// NewStaticResolver creates a fixed-actor resolver.
func NewStaticResolver(username string, roles []string) *StaticResolver {
	return &StaticResolver{actor: catalog.Actor{Username: username, Roles: roles}}
}

// Resolve returns the configured actor.
func (s *StaticResolver) Resolve(*http.Request) (catalog.Actor, error) {
	return s.actor, nil
}

// Authenticate resolves the actor and attaches it to the request context.
// Requests the resolver rejects never reach the handlers.
func Authenticate(resolver ActorResolver, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := resolver.Resolve(r)
			if err != nil {
				logger.Debug("request rejected by auth",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				common.RespondError(w, err)
				return
			}
			ctx := auth.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return header
}
