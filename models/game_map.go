package models

import (
	"github.com/google/uuid"
)

// GameMap defines a playable area: the boundary polygon, district geometry,
// the transit dataset it draws from, per-map stop/route exclusions, and the
// inventory and timing defaults copied into every game created on it.
type GameMap struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string          `json:"name" gorm:"not null"`
	Size             MapSize         `json:"size" gorm:"not null"`
	TransitDatasetID uuid.UUID       `json:"transit_dataset_id" gorm:"type:uuid;not null"`
	Boundary         GeoPolygon      `json:"boundary" gorm:"type:json"`
	ExcludedStopIDs  UUIDList        `json:"excluded_stop_ids" gorm:"type:json"`
	ExcludedRouteIDs UUIDList        `json:"excluded_route_ids" gorm:"type:json"`
	Districts        Districts       `json:"districts" gorm:"type:json"`
	DistrictClasses  DistrictClasses `json:"district_classes" gorm:"type:json"`
	DefaultInventory Inventory       `json:"default_inventory" gorm:"type:json"`
	DefaultTiming    TimingRules     `json:"default_timing" gorm:"type:json"`
	Notes            *string         `json:"notes"`
}
