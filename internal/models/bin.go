package models

import (
	"time"
)

// Bin represents a physical e-waste collection point
type Bin struct {
	ID              string    `json:"id" db:"id"`
	QRCode          string    `json:"qr_code" db:"qr_code"`
	LocationName    string    `json:"location_name" db:"location_name"`
	Address         string    `json:"address" db:"address"`
	Latitude        float64   `json:"latitude" db:"latitude"`
	Longitude       float64   `json:"longitude" db:"longitude"`
	CapacityKg      float64   `json:"capacity_kg" db:"capacity_kg"`
	CurrentWeightKg float64   `json:"current_weight_kg" db:"current_weight_kg"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	IsOperational   bool      `json:"is_operational" db:"is_operational"`
	TotalDrops      int       `json:"total_drops" db:"total_drops"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBinRequest represents a request to register a new collection bin
type CreateBinRequest struct {
	QRCode       string  `json:"qr_code"`
	LocationName string  `json:"location_name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	CapacityKg   float64 `json:"capacity_kg"`
}

// UpdateBinRequest represents a request to update an existing bin
type UpdateBinRequest struct {
	LocationName  *string  `json:"location_name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	CapacityKg    *float64 `json:"capacity_kg,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
	IsOperational *bool    `json:"is_operational,omitempty"`
}

// BinListResponse represents the response for listing bins
type BinListResponse struct {
	Bins       []Bin `json:"bins"`
	TotalCount int   `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

// BinParams represents the parameters for filtering bins
type BinParams struct {
	ActiveOnly bool `json:"active_only"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
}
