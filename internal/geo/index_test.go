package geo

import (
	"fmt"
	"testing"

	"RescueHub/internal/models"
	"RescueHub/pkg/errors"
	"RescueHub/pkg/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTeam(t *testing.T, db *gorm.DB, name, status string, lat, lng float64) *models.RescueTeam {
	t.Helper()
	team := &models.RescueTeam{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Name:      name,
		Status:    status,
		Latitude:  &lat,
		Longitude: &lng,
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func geoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := util.OpenDatabase(&gorm.Config{}, "sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestFindNearestOrdersByDistance(t *testing.T) {
	db := geoDB(t)

	// center: district 1, Ho Chi Minh City
	near := seedTeam(t, db, "Near", models.TeamAvailable, 10.80, 106.71)      // ~1.1km east
	nearer := seedTeam(t, db, "Nearer", models.TeamAvailable, 10.805, 106.70) // ~0.6km north
	seedTeam(t, db, "Far", models.TeamAvailable, 21.02, 105.85)               // Hanoi

	results, err := FindNearest(db, 10.80, 106.70, 20)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, nearer.ID, results[0].ID)
	assert.Equal(t, near.ID, results[1].ID)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
}

func TestFindNearestSkipsUnavailableAndUnlocated(t *testing.T) {
	db := geoDB(t)

	seedTeam(t, db, "Busy", models.TeamBusy, 10.80, 106.71)
	seedTeam(t, db, "Offline", models.TeamOffline, 10.80, 106.71)
	unlocated := &models.RescueTeam{ID: uuid.New(), AccountID: uuid.New(), Name: "NoLocation", Status: models.TeamAvailable}
	require.NoError(t, db.Create(unlocated).Error)

	results, err := FindNearest(db, 10.80, 106.70, 20)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindNearestRadiusCutoff(t *testing.T) {
	db := geoDB(t)

	// ~11km east of the center
	seedTeam(t, db, "Edge", models.TeamAvailable, 10.80, 106.80)

	results, err := FindNearest(db, 10.80, 106.70, 20)
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = FindNearest(db, 10.80, 106.70, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindNearestValidation(t *testing.T) {
	db := geoDB(t)

	_, err := FindNearest(db, 95, 106.70, 20)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCoordinates))

	_, err = FindNearest(db, 10.80, 190, 20)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCoordinates))

	results, err := FindNearest(db, 10.80, 106.70, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
