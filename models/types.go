package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameStatusLobby    GameStatus = "lobby"
	GameStatusHiding   GameStatus = "hiding"
	GameStatusSeeking  GameStatus = "seeking"
	GameStatusEndgame  GameStatus = "endgame"
	GameStatusFinished GameStatus = "finished"
)

type PlayerRole string

const (
	RoleUnassigned PlayerRole = ""
	RoleHider      PlayerRole = "hider"
	RoleSeeker     PlayerRole = "seeker"
)

type QuestionType string

const (
	QuestionTypeRadar       QuestionType = "radar"
	QuestionTypeThermometer QuestionType = "thermometer"
)

type QuestionStatus string

const (
	QuestionStatusInProgress QuestionStatus = "in_progress"
	QuestionStatusAnswerable QuestionStatus = "answerable"
	QuestionStatusAnswered   QuestionStatus = "answered"
)

type RouteType string

const (
	RouteTypeMetro RouteType = "metro"
	RouteTypeBus   RouteType = "bus"
	RouteTypeTram  RouteType = "tram"
	RouteTypeRail  RouteType = "rail"
	RouteTypeFerry RouteType = "ferry"
)

type MapSize string

const (
	MapSizeSmall   MapSize = "small"
	MapSizeMedium  MapSize = "medium"
	MapSizeLarge   MapSize = "large"
	MapSizeSpecial MapSize = "special"
)

// jsonValue and jsonScan back every JSON column type below so the structured
// values round-trip through the database as JSON text.
func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dest interface{}, src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}

// GeoPoint is a GeoJSON Point. Coordinates are [lng, lat].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Value() (driver.Value, error) { return jsonValue(p) }
func (p *GeoPoint) Scan(src interface{}) error  { return jsonScan(p, src) }

// GeoLineString is a GeoJSON LineString.
type GeoLineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func (l GeoLineString) Value() (driver.Value, error) { return jsonValue(l) }
func (l *GeoLineString) Scan(src interface{}) error  { return jsonScan(l, src) }

// GeoPolygon is a GeoJSON Polygon. The first ring is the outer boundary.
type GeoPolygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

func (p GeoPolygon) Value() (driver.Value, error) { return jsonValue(p) }
func (p *GeoPolygon) Scan(src interface{}) error  { return jsonScan(p, src) }

// DistanceSlot is one usable question in the inventory. A nil DistanceM marks
// a wildcard slot whose distance the seeker supplies at use time.
type DistanceSlot struct {
	DistanceM *int `json:"distance_m"`
}

// Inventory holds the remaining question slots for a game, ordered. Slots are
// removed when spent and never replaced.
type Inventory struct {
	Radars       []DistanceSlot `json:"radars"`
	Thermometers []DistanceSlot `json:"thermometers"`
}

func (inv Inventory) Value() (driver.Value, error) { return jsonValue(inv) }
func (inv *Inventory) Scan(src interface{}) error  { return jsonScan(inv, src) }

// RestPeriod is a daily window during which gameplay pauses. Times are HH:MM.
type RestPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimingRules are the per-game durations, copied from the map when a game is
// created.
type TimingRules struct {
	HidingTimeMin            int          `json:"hiding_time_min"`
	LocationQuestionDelayMin int          `json:"location_question_delay_min"`
	MoveHideTimeMin          int          `json:"move_hide_time_min"`
	RestPeriods              []RestPeriod `json:"rest_periods"`
}

func (t TimingRules) Value() (driver.Value, error) { return jsonValue(t) }
func (t *TimingRules) Scan(src interface{}) error  { return jsonScan(t, src) }

// QuestionParameters carries the type-specific question inputs: RadiusM for
// radar questions, MinTravelM for thermometer questions.
type QuestionParameters struct {
	RadiusM    *int `json:"radius_m,omitempty"`
	MinTravelM *int `json:"min_travel_m,omitempty"`
}

func (p QuestionParameters) Value() (driver.Value, error) { return jsonValue(p) }
func (p *QuestionParameters) Scan(src interface{}) error  { return jsonScan(p, src) }

// District is a named subdivision of the playable area with a tier class.
type District struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Class    int        `json:"class"`
	Geometry GeoPolygon `json:"geometry"`
}

type Districts []District

func (d Districts) Value() (driver.Value, error) { return jsonValue(d) }
func (d *Districts) Scan(src interface{}) error  { return jsonScan(d, src) }

// DistrictClass labels one district tier.
type DistrictClass struct {
	Class int    `json:"class"`
	Label string `json:"label"`
}

type DistrictClasses []DistrictClass

func (d DistrictClasses) Value() (driver.Value, error) { return jsonValue(d) }
func (d *DistrictClasses) Scan(src interface{}) error  { return jsonScan(d, src) }

// UUIDList is a JSON-stored list of entity ids (map exclusion sets).
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *UUIDList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Contains reports whether id is in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
