package devices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store/storetest"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*Service, storetest.Fixture, []*model.Actor) {
	s, gormDB := storetest.New(t)
	fx := storetest.Seed(t, gormDB)

	actors := []*model.Actor{
		{Subject: "root", Email: "root@example.com", Status: model.StatusActive, Role: model.RoleSuperAdmin, Active: true},
		{Subject: "alice", Email: "alice@example.com", Status: model.StatusActive, Role: model.RoleStaff, Active: true, AssignedHotelID: ptr(fx.AcmeHotel.ID)},
		{Subject: "bob", Email: "bob@example.com", Status: model.StatusActive, Role: model.RoleStaff, Active: true, AssignedHotelID: ptr(fx.OtherHotel.ID)},
	}
	for _, a := range actors {
		storetest.CreateActor(t, gormDB, a)
	}

	svc := NewService(s)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, fx, actors
}

func TestRegister(t *testing.T) {
	svc, _, actors := newService(t)
	alice, bob := actors[1], actors[2]
	ctx := context.Background()

	dt, err := svc.Register(ctx, alice, " tok-1 ", " ios ")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", dt.Token)
	assert.Equal(t, "IOS", dt.Platform)
	assert.True(t, dt.Active)
	assert.Equal(t, alice.ID, dt.ActorID)

	require.NoError(t, svc.Unregister(ctx, "tok-1"))

	moved, err := svc.Register(ctx, bob, "tok-1", "android")
	require.NoError(t, err)
	assert.Equal(t, dt.ID, moved.ID, "same row is re-owned")
	assert.Equal(t, bob.ID, moved.ActorID)
	assert.True(t, moved.Active)
	assert.Equal(t, "ANDROID", moved.Platform)

	_, err = svc.Register(ctx, bob, "tok-2", "  ")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	_, err = svc.Register(ctx, bob, "", "web")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUnregister(t *testing.T) {
	svc, _, actors := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, actors[1], "tok-1", "web")
	require.NoError(t, err)

	require.NoError(t, svc.Unregister(ctx, "tok-1"))
	require.NoError(t, svc.Unregister(ctx, "never-seen"))
	assert.Equal(t, apperr.Validation, apperr.KindOf(svc.Unregister(ctx, " ")))

	tokens, err := svc.ListForActor(ctx, actors[0], actors[1].ID)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestListForActor_Scope(t *testing.T) {
	svc, _, actors := newService(t)
	root, alice, bob := actors[0], actors[1], actors[2]
	ctx := context.Background()

	_, err := svc.Register(ctx, alice, "tok-a", "web")
	require.NoError(t, err)

	own, err := svc.ListForActor(ctx, alice, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "tok-a", own[0].Token)

	_, err = svc.ListForActor(ctx, bob, alice.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = svc.ListForActor(ctx, root, 9999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestListAll_SuperAdminOnly(t *testing.T) {
	svc, _, actors := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, actors[1], "tok-a", "web")
	require.NoError(t, err)
	_, err = svc.Register(ctx, actors[2], "tok-b", "web")
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, actors[0])
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListAll(ctx, actors[1])
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}
