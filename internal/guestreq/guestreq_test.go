package guestreq

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store/storetest"
)

func ptr[T any](v T) *T { return &v }

type recordingNotifier struct {
	requests []model.Request
}

func (n *recordingNotifier) NotifyNewRequest(_ context.Context, req model.Request) {
	n.requests = append(n.requests, req)
}

type env struct {
	svc      *Service
	db       *gorm.DB
	fx       storetest.Fixture
	notifier *recordingNotifier
}

func newEnv(t *testing.T) env {
	s, gormDB := storetest.New(t)
	n := &recordingNotifier{}
	return env{svc: NewService(s, n), db: gormDB, fx: storetest.Seed(t, gormDB), notifier: n}
}

func (e env) actor(t *testing.T, a model.Actor) *model.Actor {
	storetest.CreateActor(t, e.db, &a)
	return &a
}

func (e env) acmeStaff(t *testing.T) *model.Actor {
	return e.actor(t, model.Actor{Subject: "staff", Email: "staff@acme.com", Name: "Staff",
		Status: model.StatusActive, Role: model.RoleStaff, Active: true,
		AssignedHotelID: ptr(e.fx.AcmeHotel.ID), AssignedGroupID: ptr(e.fx.Acme.ID)})
}

func TestRoomContext(t *testing.T) {
	e := newEnv(t)

	rc, err := e.svc.RoomContext(context.Background(), "acme-room-token")
	require.NoError(t, err)
	assert.Equal(t, e.fx.AcmeRoom.ID, rc.Room.ID)
	assert.Equal(t, "Acme Downtown", rc.Room.Hotel.Name)
	assert.Equal(t, "Acme", rc.Room.Hotel.HotelGroup.Name)
	assert.Equal(t, model.KnownRequestTypes(), rc.RequestTypes)

	_, err = e.svc.RoomContext(context.Background(), "nope")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestStartSession_ReusesSessionOfSameRoom(t *testing.T) {
	e := newEnv(t)

	first, err := e.svc.StartSession(context.Background(), "acme-room-token", "")
	require.NoError(t, err)
	require.Len(t, first.SessionToken, 32)
	assert.Empty(t, first.Requests)

	again, err := e.svc.StartSession(context.Background(), "acme-room-token", first.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, first.SessionToken, again.SessionToken)

	var count int64
	require.NoError(t, e.db.Model(&model.GuestSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStartSession_MintsNewTokenForOtherRoom(t *testing.T) {
	e := newEnv(t)

	acme, err := e.svc.StartSession(context.Background(), "acme-room-token", "")
	require.NoError(t, err)

	other, err := e.svc.StartSession(context.Background(), "other-room-token", acme.SessionToken)
	require.NoError(t, err)
	assert.NotEqual(t, acme.SessionToken, other.SessionToken)

	unknown, err := e.svc.StartSession(context.Background(), "acme-room-token", "never-issued")
	require.NoError(t, err)
	assert.NotEqual(t, "never-issued", unknown.SessionToken)
}

func TestCreateGuestRequest(t *testing.T) {
	e := newEnv(t)
	session, err := e.svc.StartSession(context.Background(), "acme-room-token", "")
	require.NoError(t, err)

	req, err := e.svc.CreateGuestRequest(context.Background(), "acme-room-token", GuestRequestInput{
		SessionToken: session.SessionToken, Type: model.RequestTowels, Message: ptr("  two more please "),
	})
	require.NoError(t, err)

	assert.Equal(t, model.RequestStatusNew, req.Status)
	assert.Equal(t, e.fx.AcmeHotel.ID, req.HotelID)
	assert.Equal(t, e.fx.AcmeRoom.ID, req.RoomID)
	assert.Nil(t, req.AssigneeID)
	require.NotNil(t, req.Message)
	assert.Equal(t, "two more please", *req.Message)
	require.NotNil(t, req.CreatedAt)
	require.Len(t, e.notifier.requests, 1)
	assert.Equal(t, req.ID, e.notifier.requests[0].ID)
	assert.Equal(t, "101", e.notifier.requests[0].Room.Number)

	resumed, err := e.svc.StartSession(context.Background(), "acme-room-token", session.SessionToken)
	require.NoError(t, err)
	require.Len(t, resumed.Requests, 1)
	assert.Equal(t, req.ID, resumed.Requests[0].ID)
}

func TestCreateGuestRequest_Rejects(t *testing.T) {
	e := newEnv(t)
	acme, err := e.svc.StartSession(context.Background(), "acme-room-token", "")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		roomToken string
		in        GuestRequestInput
		kind      apperr.Kind
	}{
		{name: "missing type", roomToken: "acme-room-token",
			in: GuestRequestInput{SessionToken: acme.SessionToken}, kind: apperr.Validation},
		{name: "missing session", roomToken: "acme-room-token",
			in: GuestRequestInput{Type: model.RequestTaxi}, kind: apperr.Validation},
		{name: "unknown room", roomToken: "nope",
			in: GuestRequestInput{SessionToken: acme.SessionToken, Type: model.RequestTaxi}, kind: apperr.NotFound},
		{name: "session bound to another room", roomToken: "other-room-token",
			in: GuestRequestInput{SessionToken: acme.SessionToken, Type: model.RequestTaxi}, kind: apperr.Validation},
		{name: "unknown session", roomToken: "acme-room-token",
			in: GuestRequestInput{SessionToken: "forged", Type: model.RequestTaxi}, kind: apperr.Validation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.CreateGuestRequest(context.Background(), tc.roomToken, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	var count int64
	require.NoError(t, e.db.Model(&model.Request{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, e.notifier.requests)
}

func TestCreate_Staff(t *testing.T) {
	e := newEnv(t)
	staff := e.acmeStaff(t)
	disabled := e.actor(t, model.Actor{Subject: "off", Email: "off@acme.com", Name: "Off",
		Status: model.StatusDisabled, Role: model.RoleStaff, Active: false, AssignedHotelID: ptr(e.fx.AcmeHotel.ID)})

	req, err := e.svc.Create(context.Background(), staff, WriteInput{
		HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.AcmeRoom.ID), AssigneeID: ptr(staff.ID),
		Type: model.RequestMaintenance,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusNew, req.Status)
	require.NotNil(t, req.AssigneeID)
	assert.Equal(t, staff.ID, *req.AssigneeID)
	assert.Len(t, e.notifier.requests, 1)

	dropped, err := e.svc.Create(context.Background(), staff, WriteInput{
		HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.AcmeRoom.ID), AssigneeID: ptr(disabled.ID),
		Type: model.RequestMaintenance,
	})
	require.NoError(t, err)
	assert.Nil(t, dropped.AssigneeID, "inactive assignee is dropped")
}

func TestCreate_Staff_Rejects(t *testing.T) {
	e := newEnv(t)
	staff := e.acmeStaff(t)

	testCases := []struct {
		name string
		in   WriteInput
		kind apperr.Kind
	}{
		{name: "foreign hotel", in: WriteInput{HotelID: ptr(e.fx.OtherHotel.ID), RoomID: ptr(e.fx.OtherRoom.ID)}, kind: apperr.Validation},
		{name: "room of another hotel", in: WriteInput{HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.OtherRoom.ID)}, kind: apperr.Validation},
		{name: "unknown hotel", in: WriteInput{HotelID: ptr(int64(999)), RoomID: ptr(e.fx.AcmeRoom.ID)}, kind: apperr.Validation},
		{name: "missing room", in: WriteInput{HotelID: ptr(e.fx.AcmeHotel.ID)}, kind: apperr.Validation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Create(context.Background(), staff, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}
	assert.Empty(t, e.notifier.requests)
}

func TestWrite_ForeignHotelReadsAsMissing(t *testing.T) {
	e := newEnv(t)
	staff := e.acmeStaff(t)
	ctx := context.Background()

	_, foreignErr := e.svc.Create(ctx, staff, WriteInput{HotelID: ptr(e.fx.OtherHotel.ID), RoomID: ptr(e.fx.OtherRoom.ID), Type: model.RequestTaxi})
	_, missingErr := e.svc.Create(ctx, staff, WriteInput{HotelID: ptr(int64(9999)), RoomID: ptr(e.fx.OtherRoom.ID), Type: model.RequestTaxi})
	assert.Equal(t, apperr.Validation, apperr.KindOf(foreignErr))
	assert.Equal(t, apperr.KindOf(missingErr), apperr.KindOf(foreignErr))
	assert.Equal(t, fmt.Sprintf("hotel %d not found", e.fx.OtherHotel.ID), foreignErr.Error())

	created, err := e.svc.Create(ctx, staff, WriteInput{HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.AcmeRoom.ID), Type: model.RequestTaxi})
	require.NoError(t, err)

	_, foreignErr = e.svc.Update(ctx, staff, created.ID, WriteInput{HotelID: ptr(e.fx.OtherHotel.ID), RoomID: ptr(e.fx.OtherRoom.ID), Type: model.RequestTaxi})
	_, missingErr = e.svc.Update(ctx, staff, created.ID, WriteInput{HotelID: ptr(int64(9999)), Type: model.RequestTaxi})
	assert.Equal(t, apperr.Validation, apperr.KindOf(foreignErr))
	assert.Equal(t, apperr.KindOf(missingErr), apperr.KindOf(foreignErr))
}

func TestUpdate_OverwritesWithoutTransitionGuard(t *testing.T) {
	e := newEnv(t)
	staff := e.acmeStaff(t)
	created, err := e.svc.Create(context.Background(), staff, WriteInput{
		HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.AcmeRoom.ID), Type: model.RequestTaxi,
	})
	require.NoError(t, err)

	completed := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	updated, err := e.svc.Update(context.Background(), staff, created.ID, WriteInput{
		Type: model.RequestTaxi, Status: model.RequestStatusCompleted, CompletedAt: &completed,
		CreatedAt: created.CreatedAt, Rating: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, updated.Status)
	assert.Equal(t, 5, *updated.Rating)

	back, err := e.svc.Update(context.Background(), staff, created.ID, WriteInput{
		Type: model.RequestTaxi, Status: model.RequestStatusNew, Rating: ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusNew, back.Status, "status may move backwards")
	assert.Nil(t, back.CompletedAt)
	assert.Equal(t, 1, *back.Rating)
}

func TestGetListDelete_Scoped(t *testing.T) {
	e := newEnv(t)
	staff := e.acmeStaff(t)
	root := e.actor(t, model.Actor{Subject: "root", Email: "root@x.com", Name: "Root",
		Status: model.StatusActive, Role: model.RoleSuperAdmin, Active: true})

	acmeReq, err := e.svc.Create(context.Background(), staff, WriteInput{
		HotelID: ptr(e.fx.AcmeHotel.ID), RoomID: ptr(e.fx.AcmeRoom.ID), Type: model.RequestTaxi,
	})
	require.NoError(t, err)
	otherReq, err := e.svc.Create(context.Background(), root, WriteInput{
		HotelID: ptr(e.fx.OtherHotel.ID), RoomID: ptr(e.fx.OtherRoom.ID), Type: model.RequestTaxi,
	})
	require.NoError(t, err)

	visible, err := e.svc.List(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, acmeReq.ID, visible[0].ID)

	_, err = e.svc.Get(context.Background(), staff, otherReq.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(e.svc.Delete(context.Background(), staff, otherReq.ID)))

	require.NoError(t, e.svc.Delete(context.Background(), staff, acmeReq.ID))
	all, err := e.svc.List(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
