package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"RescueHub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Request status codes. Transitions happen only inside the dispatch
// engine; SAFE is a citizen self-report handled by the request CRUD path.
const (
	RequestPending    = "PENDING"
	RequestAssigned   = "ASSIGNED"
	RequestInProgress = "IN_PROGRESS"
	RequestCompleted  = "COMPLETED"
	RequestSafe       = "SAFE"
)

// StringList stores a JSON-encoded list of condition tags.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = StringList{}
		return nil
	}
	return fmt.Errorf("unsupported type for StringList: %T", value)
}

type RescueRequest struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID    *uuid.UUID `json:"accountId" gorm:"type:uuid;index"` // nil for anonymous submissions
	Code         string     `json:"code" gorm:"size:30;uniqueIndex"`  // e.g. SG-20251221-0001
	Name         string     `json:"name" gorm:"size:255"`
	ContactPhone string     `json:"contactPhone" gorm:"size:20"`
	Adults       int        `json:"adults"`
	Children     int        `json:"children"`
	Elderly      int        `json:"elderly"`
	Address      string     `json:"address"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Conditions   StringList `json:"conditions" gorm:"type:text"`
	Description  string     `json:"description"`
	Status       string     `json:"status" gorm:"size:20;index;default:PENDING"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RequestCounter backs the human-readable code sequence, one row per
// province and day, bumped under a row lock inside the create transaction.
type RequestCounter struct {
	Province string `gorm:"size:10;primaryKey"`
	Day      string `gorm:"size:8;primaryKey"` // yyyymmdd
	Seq      int
}

// NextRequestCode allocates the next code for the province, e.g.
// SG-20251221-0001. Must run inside the caller's transaction so the
// counter lock and the insert commit together.
func NextRequestCode(tx *gorm.DB, province string, now time.Time) (string, error) {
	day := now.Format("20060102")

	var counter RequestCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("province = ? AND day = ?", province, day).
		First(&counter).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		counter = RequestCounter{Province: province, Day: day, Seq: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		counter.Seq++
		if err := tx.Model(&RequestCounter{}).
			Where("province = ? AND day = ?", province, day).
			Update("seq", counter.Seq).Error; err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s-%s-%04d", province, day, counter.Seq), nil
}

// CreateRequestInput is the citizen submission payload. Coordinates are
// pointers so that `required` checks presence, not the zero value: the
// equator and the prime meridian are valid places to need rescue.
type CreateRequestInput struct {
	Name         string   `json:"name" binding:"required"`
	ContactPhone string   `json:"contact_phone" binding:"required"`
	Adults       int      `json:"adults" binding:"gte=0"`
	Children     int      `json:"children" binding:"gte=0"`
	Elderly      int      `json:"elderly" binding:"gte=0"`
	Address      string   `json:"address" binding:"required"`
	Latitude     *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Conditions   []string `json:"conditions"`
	Description  string   `json:"description"`
}

// CreateRescueRequest stores a new PENDING request with a freshly
// allocated code. accountID is nil for anonymous submissions.
func CreateRescueRequest(db *gorm.DB, input CreateRequestInput, province string, accountID *uuid.UUID) (*RescueRequest, error) {
	var request *RescueRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		code, err := NextRequestCode(tx, province, time.Now().UTC())
		if err != nil {
			return err
		}

		request = &RescueRequest{
			ID:           uuid.New(),
			AccountID:    accountID,
			Code:         code,
			Name:         input.Name,
			ContactPhone: input.ContactPhone,
			Adults:       input.Adults,
			Children:     input.Children,
			Elderly:      input.Elderly,
			Address:      input.Address,
			Latitude:     *input.Latitude,
			Longitude:    *input.Longitude,
			Conditions:   input.Conditions,
			Description:  input.Description,
			Status:       RequestPending,
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return request, nil
}

// MapPoint is the slim viewport projection.
type MapPoint struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    string    `json:"status"`
}

// MapPoints returns request points inside the viewport, newest first. The
// limit scales with zoom the way the map client expects: far-out views get
// a sparse sample, close-in views the full picture.
func MapPoints(db *gorm.DB, minLat, maxLat, minLng, maxLng float64, zoom int) ([]MapPoint, error) {
	limit := 500
	if zoom >= 14 {
		limit = 5000
	} else if zoom >= 10 {
		limit = 2000
	}

	var points []MapPoint
	err := db.Model(&RescueRequest{}).
		Select("id, latitude, longitude, status").
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng).
		Order("created_at DESC").
		Limit(limit).
		Scan(&points).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeStore, err, "storage failure")
	}
	return points, nil
}
