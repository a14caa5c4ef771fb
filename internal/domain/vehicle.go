package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusUnavailable VehicleStatus = "UNAVAILABLE"
)

type Vehicle struct {
	ID             int32         `json:"id"`
	Make           string        `json:"make"`
	Model          string        `json:"model"`
	Year           int32         `json:"year"`
	PlateNumber    string        `json:"plate_number"`
	Metro          string        `json:"metro"`
	DailyRateCents int32         `json:"daily_rate_cents"`
	DepositCents   int32         `json:"deposit_cents"`
	Status         VehicleStatus `json:"status"`
	CreatedOn      time.Time     `json:"created_on"`
	DeletedOn      *time.Time    `json:"deleted_on,omitempty"`
}
