package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store/storetest"
)

func ptr[T any](v T) *T { return &v }

type env struct {
	svc  *Service
	db   *gorm.DB
	fx   storetest.Fixture
	root *model.Actor
}

func newEnv(t *testing.T) env {
	s, gormDB := storetest.New(t)
	root := &model.Actor{Subject: "root", Email: "root@example.com", Name: "Root",
		Status: model.StatusActive, Role: model.RoleSuperAdmin, Active: true}
	storetest.CreateActor(t, gormDB, root)
	return env{svc: NewService(s), db: gormDB, fx: storetest.Seed(t, gormDB), root: root}
}

func (e env) groupAdmin(t *testing.T, group model.HotelGroup) *model.Actor {
	a := &model.Actor{Subject: "ga-" + group.Code, Email: "ga@" + group.Code + ".com", Name: "GA",
		Status: model.StatusActive, Role: model.RoleAdmin, Active: true, AssignedGroupID: ptr(group.ID)}
	storetest.CreateActor(t, e.db, a)
	return a
}

func TestCreateGroup_GeneratesCodes(t *testing.T) {
	e := newEnv(t)

	first, err := e.svc.CreateGroup(context.Background(), e.root, GroupInput{Name: "Blue Lagoon Resorts"})
	require.NoError(t, err)
	assert.Equal(t, "blue-lagoon-resorts-001", first.Code)

	second, err := e.svc.CreateGroup(context.Background(), e.root, GroupInput{Name: "Blue Lagoon Resorts"})
	require.NoError(t, err)
	assert.Equal(t, "blue-lagoon-resorts-002", second.Code)

	symbols, err := e.svc.CreateGroup(context.Background(), e.root, GroupInput{Name: "***"})
	require.NoError(t, err)
	assert.Equal(t, "group-001", symbols.Code)

	explicit, err := e.svc.CreateGroup(context.Background(), e.root, GroupInput{Name: "X", Code: "  MyCode "})
	require.NoError(t, err)
	assert.Equal(t, "mycode", explicit.Code)

	_, err = e.svc.CreateGroup(context.Background(), e.root, GroupInput{Name: "Y", Code: "acme"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestGroups_SuperAdminOnlyWrites(t *testing.T) {
	e := newEnv(t)
	ga := e.groupAdmin(t, e.fx.Acme)

	_, err := e.svc.CreateGroup(context.Background(), ga, GroupInput{Name: "Mine"})
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	_, err = e.svc.UpdateGroup(context.Background(), ga, e.fx.Acme.ID, GroupInput{Name: "Renamed"})
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(e.svc.DeleteGroup(context.Background(), ga, e.fx.Acme.ID)))

	groups, err := e.svc.ListGroups(context.Background(), ga)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, e.fx.Acme.ID, groups[0].ID)

	_, err = e.svc.GetGroup(context.Background(), ga, e.fx.Other.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteGroup_CascadesToHotels(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.DeleteGroup(context.Background(), e.root, e.fx.Acme.ID))

	var hotels []model.Hotel
	require.NoError(t, e.db.Find(&hotels).Error)
	require.Len(t, hotels, 1)
	assert.Equal(t, e.fx.OtherHotel.ID, hotels[0].ID)

	var rooms int64
	require.NoError(t, e.db.Model(&model.Room{}).Where("hotel_id = ?", e.fx.AcmeHotel.ID).Count(&rooms).Error)
	assert.Zero(t, rooms)

	assert.Equal(t, apperr.NotFound, apperr.KindOf(e.svc.DeleteGroup(context.Background(), e.root, e.fx.Acme.ID)))
}

func TestCreateHotel(t *testing.T) {
	e := newEnv(t)
	ga := e.groupAdmin(t, e.fx.Acme)

	h, err := e.svc.CreateHotel(context.Background(), ga, HotelInput{GroupID: ptr(e.fx.Acme.ID), Name: "Acme Airport", City: "Lyon"})
	require.NoError(t, err)
	assert.Equal(t, "acme-airport-001", h.Code)
	assert.Equal(t, e.fx.Acme.ID, h.HotelGroupID)

	_, foreignErr := e.svc.CreateHotel(context.Background(), ga, HotelInput{GroupID: ptr(e.fx.Other.ID), Name: "Nope"})
	_, missingErr := e.svc.CreateHotel(context.Background(), ga, HotelInput{GroupID: ptr(int64(999)), Name: "Nope"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(foreignErr))
	assert.Equal(t, apperr.Validation, apperr.KindOf(missingErr))
	assert.Equal(t, missingErr.Error(), foreignErr.Error(), "a foreign group reads as missing")

	_, err = e.svc.CreateHotel(context.Background(), ga, HotelInput{Name: "Nope"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdateHotel_IgnoresUnmanageableGroupMove(t *testing.T) {
	e := newEnv(t)
	ga := e.groupAdmin(t, e.fx.Acme)

	h, err := e.svc.UpdateHotel(context.Background(), ga, e.fx.AcmeHotel.ID, HotelInput{
		GroupID: ptr(e.fx.Other.ID), Name: "Acme Central", Code: "acme-central", City: "Paris", Country: "FR",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Central", h.Name)
	assert.Equal(t, "Paris", h.City)
	assert.Equal(t, e.fx.Acme.ID, h.HotelGroupID, "group move silently skipped")

	moved, err := e.svc.UpdateHotel(context.Background(), e.root, e.fx.AcmeHotel.ID, HotelInput{
		GroupID: ptr(e.fx.Other.ID), Name: "Acme Central", Code: "acme-central",
	})
	require.NoError(t, err)
	assert.Equal(t, e.fx.Other.ID, moved.HotelGroupID)

	_, err = e.svc.UpdateHotel(context.Background(), ga, e.fx.OtherHotel.ID, HotelInput{Name: "x"})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestRooms(t *testing.T) {
	e := newEnv(t)
	ga := e.groupAdmin(t, e.fx.Acme)

	r, err := e.svc.CreateRoom(context.Background(), ga, RoomInput{HotelID: ptr(e.fx.AcmeHotel.ID), Number: " 102 ", Floor: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "102", r.Number)
	assert.Len(t, r.GuestAccessToken, 32)
	assert.Equal(t, "Acme", r.Hotel.HotelGroup.Name)

	_, err = e.svc.CreateRoom(context.Background(), ga, RoomInput{HotelID: ptr(e.fx.AcmeHotel.ID), Number: "102"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, foreignErr := e.svc.CreateRoom(context.Background(), ga, RoomInput{HotelID: ptr(e.fx.OtherHotel.ID), Number: "1"})
	_, missingErr := e.svc.CreateRoom(context.Background(), ga, RoomInput{HotelID: ptr(int64(999)), Number: "1"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(foreignErr))
	assert.Equal(t, missingErr.Error(), foreignErr.Error(), "a foreign hotel reads as missing")

	updated, err := e.svc.UpdateRoom(context.Background(), ga, r.ID, RoomInput{Number: "103", Floor: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "103", updated.Number)
	assert.Equal(t, r.GuestAccessToken, updated.GuestAccessToken, "existing token is kept")

	rooms, err := e.svc.ListRooms(context.Background(), ga)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	require.NoError(t, e.svc.DeleteRoom(context.Background(), ga, r.ID))
	_, err = e.svc.GetRoom(context.Background(), ga, r.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(e.svc.DeleteRoom(context.Background(), ga, e.fx.OtherRoom.ID)))
}
