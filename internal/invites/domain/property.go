package domain

import "time"

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyRented      PropertyStatus = "rented"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertyUnavailable PropertyStatus = "unavailable"
)

type Property struct {
	ID          string
	LandlordID  string
	Name        string
	Address     string
	Status      PropertyStatus
	TenantID    string
	TenantEmail string
	TenantName  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TenantLink is the part of a property written when an invitation is
// accepted.
type TenantLink struct {
	TenantID    string
	TenantEmail string
	TenantName  string
	Status      PropertyStatus
}
