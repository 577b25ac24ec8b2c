// Package auth verifies bearer tokens and resolves the calling actor.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"concierge-backend/config"
	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store"
)

const (
	identityKey = "auth.identity"
	actorKey    = "auth.actor"
)

// ErrInvalidToken is returned by verifiers for any rejected token.
var ErrInvalidToken = errors.New("invalid bearer token")

// Identity is what a verified token says about the caller.
type Identity struct {
	Subject string
	Email   string
}

// Verifier checks a bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// NewVerifier builds the Verifier selected by cfg.Provider.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		return NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsPath)
	case "jwt":
		return NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's Identity on the context.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrUnauthenticated.Error()})
			return
		}
		id, err := v.Verify(c.Request.Context(), token)
		if err != nil || id.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrUnauthenticated.Error()})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the Identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// ActorFinder looks actors up by identity key.
type ActorFinder interface {
	FindActorBySubject(ctx context.Context, subject string) (model.Actor, error)
}

// Resolve maps an identity to its actor record.
func Resolve(ctx context.Context, finder ActorFinder, id Identity) (*model.Actor, error) {
	if id.Subject == "" {
		return nil, apperr.ErrUnauthenticated
	}
	a, err := finder.FindActorBySubject(ctx, id.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load actor for %q: %w", id.Subject, err)
	}
	return &a, nil
}

// RequireActor must run after Authenticate. It aborts with 403 when the
// caller has not registered yet.
func RequireActor(finder ActorFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		a, err := Resolve(c.Request.Context(), finder, id)
		if err != nil {
			status, msg := http.StatusInternalServerError, "internal server error"
			switch apperr.KindOf(err) {
			case apperr.Unauthenticated:
				status, msg = http.StatusUnauthorized, err.Error()
			case apperr.NoProfile:
				status, msg = http.StatusForbidden, err.Error()
			case apperr.Internal, apperr.Validation, apperr.Forbidden, apperr.NotFound, apperr.Conflict:
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Set(actorKey, a)
		c.Next()
	}
}

// ActorFrom returns the actor stored by RequireActor.
func ActorFrom(c *gin.Context) (*model.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	a, ok := v.(*model.Actor)
	return a, ok && a != nil
}
