package models

import (
	"time"

	"github.com/google/uuid"
)

// TransitDataset is one imported transit graph for a region.
type TransitDataset struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Region     string    `json:"region" gorm:"not null"`
	SourceURL  *string   `json:"source_url"`
	ImportedAt time.Time `json:"imported_at"`
}

// Stop is a transit stop. StableID is the identifier from the source feed,
// unique within a dataset.
type Stop struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StableID    string    `json:"stable_id" gorm:"not null;uniqueIndex:idx_stop_stable_dataset"`
	DatasetID   uuid.UUID `json:"dataset_id" gorm:"type:uuid;not null;uniqueIndex:idx_stop_stable_dataset"`
	Name        string    `json:"name" gorm:"not null"`
	Coordinates GeoPoint  `json:"coordinates" gorm:"type:json"`
}

// Route is a transit route with its drawn shape. Stops are attached through
// RouteStop rows carrying an explicit sequence.
type Route struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	StableID  string        `json:"stable_id" gorm:"not null;uniqueIndex:idx_route_stable_dataset"`
	DatasetID uuid.UUID     `json:"dataset_id" gorm:"type:uuid;not null;uniqueIndex:idx_route_stable_dataset"`
	Name      string        `json:"name" gorm:"not null"`
	Color     string        `json:"color" gorm:"not null"`
	RouteType RouteType     `json:"route_type" gorm:"not null"`
	Shape     GeoLineString `json:"shape" gorm:"type:json"`
}

// RouteStop joins a route to a stop at a position along the route.
type RouteStop struct {
	RouteID  uuid.UUID `json:"route_id" gorm:"type:uuid;primaryKey"`
	StopID   uuid.UUID `json:"stop_id" gorm:"type:uuid;primaryKey"`
	Sequence int       `json:"sequence" gorm:"not null"`
}
