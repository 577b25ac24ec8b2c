package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store/storetest"
)

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("s3cret", "concierge")
	ctx := context.Background()

	token, err := v.Sign("uid-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	id, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "uid-1", Email: "a@example.com"}, id)

	other, err := NewJWTVerifier("different", "concierge").Sign("uid-1", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewJWTVerifier("s3cret", "someone-else").Sign("uid-1", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Sign("uid-1", "", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous, err := v.Sign("", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeIDTokens map[string]*fbauth.Token

func (f fakeIDTokens) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if t, ok := f[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("ID token has invalid signature")
}

func TestFirebaseVerifier(t *testing.T) {
	v := &FirebaseVerifier{client: fakeIDTokens{
		"good": {UID: "fb-uid", Claims: map[string]interface{}{"email": "guest@example.com"}},
	}}

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "fb-uid", Email: "guest@example.com"}, id)

	_, err = v.Verify(context.Background(), "forged")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}

func newRouter(t *testing.T) (*gin.Engine, *JWTVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, db := storetest.New(t)
	storetest.CreateActor(t, db, &model.Actor{Subject: "known", Email: "known@example.com", Name: "Known",
		Status: model.StatusActive, Role: model.RoleSuperAdmin, Active: true})

	v := NewJWTVerifier("s3cret", "")
	r := gin.New()
	r.GET("/identity", Authenticate(v), func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"subject": id.Subject})
	})
	r.GET("/me", Authenticate(v), RequireActor(s), func(c *gin.Context) {
		a, ok := ActorFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": a.Email})
	})
	return r, v
}

func TestMiddleware(t *testing.T) {
	r, v := newRouter(t)
	known, err := v.Sign("known", "", time.Hour)
	require.NoError(t, err)
	stranger, err := v.Sign("stranger", "", time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "missing header", path: "/identity", status: http.StatusUnauthorized},
		{name: "garbage token", path: "/identity", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token without profile", path: "/identity", header: "Bearer " + stranger, status: http.StatusOK},
		{name: "profile required", path: "/me", header: "Bearer " + stranger, status: http.StatusForbidden},
		{name: "profile resolved", path: "/me", header: "Bearer " + known, status: http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestResolve(t *testing.T) {
	s, db := storetest.New(t)
	storetest.CreateActor(t, db, &model.Actor{Subject: "known", Email: "known@example.com", Status: model.StatusActive, Role: model.RoleStaff})

	a, err := Resolve(context.Background(), s, Identity{Subject: "known"})
	require.NoError(t, err)
	assert.Equal(t, "known@example.com", a.Email)

	_, err = Resolve(context.Background(), s, Identity{Subject: "missing"})
	assert.Equal(t, apperr.NoProfile, apperr.KindOf(err))

	_, err = Resolve(context.Background(), s, Identity{})
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}
