// Package geo answers "which available teams are near this point". It is
// read-only over the team table: a coarse bounding box narrows the SQL
// scan, then exact haversine distances rank the survivors.
package geo

import (
	"math"
	"sort"

	"RescueHub/internal/models"
	"RescueHub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const earthRadiusKm = 6371

// NearTeam is one ranked candidate.
type NearTeam struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Leader     string    `json:"leader"`
	Phone      string    `json:"phone"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DistanceKm float64   `json:"distance_km"`
}

// FindNearest returns AVAILABLE teams within radiusKm of the point,
// closest first, ties broken by id for a stable order. Teams that never
// reported a location are invisible here.
func FindNearest(db *gorm.DB, lat, lng, radiusKm float64) ([]NearTeam, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.WithCode(errors.CodeInvalidCoordinates, "coordinates out of range")
	}
	if radiusKm <= 0 {
		return []NearTeam{}, nil
	}

	// ~111km per degree of latitude; widen by 10% so the box never clips
	// a team the exact distance check would keep
	latOffset := radiusKm / 111.0 * 1.1
	lngOffset := latOffset
	if cosLat := math.Cos(lat * math.Pi / 180); cosLat > 0.01 {
		lngOffset = latOffset / cosLat
	}

	var teams []models.RescueTeam
	err := db.Where("status = ?", models.TeamAvailable).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", lat-latOffset, lat+latOffset).
		Where("longitude BETWEEN ? AND ?", lng-lngOffset, lng+lngOffset).
		Find(&teams).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}

	results := make([]NearTeam, 0, len(teams))
	for _, team := range teams {
		distance := haversineKm(lat, lng, *team.Latitude, *team.Longitude)
		if distance > radiusKm {
			continue
		}
		results = append(results, NearTeam{
			ID:         team.ID,
			Name:       team.Name,
			Leader:     team.Leader,
			Phone:      team.ContactPhone,
			Latitude:   *team.Latitude,
			Longitude:  *team.Longitude,
			DistanceKm: math.Round(distance*100) / 100,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].ID.String() < results[j].ID.String()
	})
	return results, nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
