package models

import (
	"fmt"
	"testing"
	"time"

	"RescueHub/pkg/errors"
	"RescueHub/pkg/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := util.OpenDatabase(&gorm.Config{}, "sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestRequestCodeSequence(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)

	err := db.Transaction(func(tx *gorm.DB) error {
		code, err := NextRequestCode(tx, "SG", now)
		require.NoError(t, err)
		assert.Equal(t, "SG-20251221-0001", code)

		code, err = NextRequestCode(tx, "SG", now)
		require.NoError(t, err)
		assert.Equal(t, "SG-20251221-0002", code)

		// other provinces and other days count independently
		code, err = NextRequestCode(tx, "HN", now)
		require.NoError(t, err)
		assert.Equal(t, "HN-20251221-0001", code)

		code, err = NextRequestCode(tx, "SG", now.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "SG-20251222-0001", code)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateRescueRequest(t *testing.T) {
	db := testDB(t)

	lat, lng := 10.80, 106.70
	request, err := CreateRescueRequest(db, CreateRequestInput{
		Name:         "Nguyen Van A",
		ContactPhone: "0901234567",
		Adults:       2,
		Children:     1,
		Address:      "12 Tran Hung Dao",
		Latitude:     &lat,
		Longitude:    &lng,
		Conditions:   []string{"flooded", "no_power"},
	}, "SG", nil)
	require.NoError(t, err)

	assert.Equal(t, RequestPending, request.Status)
	assert.Regexp(t, `^SG-\d{8}-0001$`, request.Code)
	assert.Nil(t, request.AccountID)

	var loaded RescueRequest
	require.NoError(t, db.First(&loaded, "id = ?", request.ID).Error)
	assert.Equal(t, StringList{"flooded", "no_power"}, loaded.Conditions)
}

func TestMapPointsViewport(t *testing.T) {
	db := testDB(t)

	inside := &RescueRequest{ID: uuid.New(), Code: "SG-1", Latitude: 10.80, Longitude: 106.70, Status: RequestPending}
	outside := &RescueRequest{ID: uuid.New(), Code: "SG-2", Latitude: 21.02, Longitude: 105.85, Status: RequestPending}
	require.NoError(t, db.Create(inside).Error)
	require.NoError(t, db.Create(outside).Error)

	points, err := MapPoints(db, 10.0, 11.0, 106.0, 107.0, 12)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, inside.ID, points[0].ID)
}

func TestUpdateTeamLocation(t *testing.T) {
	db := testDB(t)

	team := &RescueTeam{ID: uuid.New(), AccountID: uuid.New(), Name: "Team Alpha", Status: TeamAvailable}
	require.NoError(t, db.Create(team).Error)

	updated, err := UpdateTeamLocation(db, team.ID, 10.81, 106.71)
	require.NoError(t, err)
	require.NotNil(t, updated.Latitude)
	assert.Equal(t, 10.81, *updated.Latitude)
	assert.NotNil(t, updated.LocatedAt)

	_, err = UpdateTeamLocation(db, team.ID, 95.0, 106.71)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCoordinates))

	_, err = UpdateTeamLocation(db, uuid.New(), 10.0, 106.0)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestMarkStaleTeamsOffline(t *testing.T) {
	db := testDB(t)

	stale := time.Now().UTC().Add(-2 * time.Hour)
	fresh := time.Now().UTC()
	lat, lng := 10.80, 106.70

	teams := []*RescueTeam{
		{ID: uuid.New(), AccountID: uuid.New(), Name: "Stale", Status: TeamAvailable, Latitude: &lat, Longitude: &lng, LocatedAt: &stale},
		{ID: uuid.New(), AccountID: uuid.New(), Name: "Fresh", Status: TeamAvailable, Latitude: &lat, Longitude: &lng, LocatedAt: &fresh},
		{ID: uuid.New(), AccountID: uuid.New(), Name: "BusyStale", Status: TeamBusy, Latitude: &lat, Longitude: &lng, LocatedAt: &stale},
		{ID: uuid.New(), AccountID: uuid.New(), Name: "NeverLocated", Status: TeamAvailable},
	}
	for _, team := range teams {
		require.NoError(t, db.Create(team).Error)
	}

	swept, err := MarkStaleTeamsOffline(db, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var reloaded RescueTeam
	require.NoError(t, db.First(&reloaded, "name = ?", "Stale").Error)
	assert.Equal(t, TeamOffline, reloaded.Status)

	// BUSY teams stay BUSY even with a stale location
	reloaded = RescueTeam{}
	require.NoError(t, db.First(&reloaded, "name = ?", "BusyStale").Error)
	assert.Equal(t, TeamBusy, reloaded.Status)
}

func TestOpenAssignmentForTeam(t *testing.T) {
	db := testDB(t)

	teamID := uuid.New()
	done := &Assignment{ID: uuid.New(), RescueRequestID: uuid.New(), RescueTeamID: teamID, Status: TaskCompleted, AssignedAt: time.Now().Add(-time.Hour)}
	open := &Assignment{ID: uuid.New(), RescueRequestID: uuid.New(), RescueTeamID: teamID, Status: TaskInProgress, AssignedAt: time.Now()}
	require.NoError(t, db.Create(done).Error)
	require.NoError(t, db.Create(open).Error)

	found, err := OpenAssignmentForTeam(db, teamID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, open.ID, found.ID)

	none, err := OpenAssignmentForTeam(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}
