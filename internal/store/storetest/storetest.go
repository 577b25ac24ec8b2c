// Package storetest provides a migrated in-memory SQLite store for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"concierge-backend/internal/db"
	"concierge-backend/internal/model"
	"concierge-backend/internal/store"
)

// New opens a private in-memory database, migrates it and wraps it in a Store.
func New(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB), gormDB
}

// Fixture is a small tenancy tree: two groups, each with one hotel and one room.
type Fixture struct {
	Acme, Other           model.HotelGroup
	AcmeHotel, OtherHotel model.Hotel
	AcmeRoom, OtherRoom   model.Room
}

// Seed inserts a Fixture.
func Seed(t *testing.T, gormDB *gorm.DB) Fixture {
	t.Helper()

	var f Fixture
	f.Acme = model.HotelGroup{Name: "Acme", Code: "acme"}
	f.Other = model.HotelGroup{Name: "Other", Code: "other"}
	require.NoError(t, gormDB.Create(&f.Acme).Error)
	require.NoError(t, gormDB.Create(&f.Other).Error)

	f.AcmeHotel = model.Hotel{HotelGroupID: f.Acme.ID, Name: "Acme Downtown", Code: "acme-downtown", City: "Lyon", Country: "FR"}
	f.OtherHotel = model.Hotel{HotelGroupID: f.Other.ID, Name: "Other Beach", Code: "other-beach", City: "Nice", Country: "FR"}
	require.NoError(t, gormDB.Omit("HotelGroup").Create(&f.AcmeHotel).Error)
	require.NoError(t, gormDB.Omit("HotelGroup").Create(&f.OtherHotel).Error)
	f.AcmeHotel.HotelGroup = f.Acme
	f.OtherHotel.HotelGroup = f.Other

	f.AcmeRoom = model.Room{HotelID: f.AcmeHotel.ID, Number: "101", GuestAccessToken: "acme-room-token"}
	f.OtherRoom = model.Room{HotelID: f.OtherHotel.ID, Number: "201", GuestAccessToken: "other-room-token"}
	require.NoError(t, gormDB.Omit("Hotel").Create(&f.AcmeRoom).Error)
	require.NoError(t, gormDB.Omit("Hotel").Create(&f.OtherRoom).Error)
	f.AcmeRoom.Hotel = f.AcmeHotel
	f.OtherRoom.Hotel = f.OtherHotel

	return f
}

// CreateActor inserts a.
func CreateActor(t *testing.T, gormDB *gorm.DB, a *model.Actor) {
	t.Helper()
	require.NoError(t, gormDB.Omit("RequestedGroup", "RequestedHotel", "AssignedGroup", "AssignedHotel").Create(a).Error)
}
