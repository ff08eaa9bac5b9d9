package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hideandseek/apperr"
	"hideandseek/logger"
	"hideandseek/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500

	effectiveMapTTL = 2 * time.Hour
)

// MapService is the read-only map query path: browsing maps and resolving the
// effective playable map for a game. Maps and transit data are immutable
// after import, so the resolved effective map is cached per game.
type MapService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewMapService creates the service. A nil redis client disables caching.
func NewMapService(db *gorm.DB, redisClient *redis.Client) *MapService {
	return &MapService{db: db, redis: redisClient}
}

// MapSummary is a map in the browse list.
type MapSummary struct {
	ID     uuid.UUID      `json:"id"`
	Name   string         `json:"name"`
	Size   models.MapSize `json:"size"`
	Region string         `json:"region"`
}

// EffectiveRoute is a surviving route with its ordered stop ids after
// exclusion filtering.
type EffectiveRoute struct {
	models.Route
	StopIDs []uuid.UUID `json:"stop_ids"`
}

// EffectiveMap is the playable map for a game: boundary and districts from
// the map definition, stops and routes from the transit dataset with the
// map's exclusions applied.
type EffectiveMap struct {
	MapID           uuid.UUID              `json:"map_id"`
	Name            string                 `json:"name"`
	Boundary        models.GeoPolygon      `json:"boundary"`
	Districts       models.Districts       `json:"districts"`
	DistrictClasses models.DistrictClasses `json:"district_classes"`
	Stops           []models.Stop          `json:"stops"`
	Routes          []EffectiveRoute       `json:"routes"`
}

// ListMaps returns maps with their dataset region, paginated.
func (s *MapService) ListMaps(offset, limit int) ([]MapSummary, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	maps := []MapSummary{}
	err := s.db.Table("game_maps").
		Select("game_maps.id, game_maps.name, game_maps.size, transit_datasets.region").
		Joins("JOIN transit_datasets ON transit_datasets.id = game_maps.transit_dataset_id").
		Offset(offset).Limit(limit).
		Scan(&maps).Error
	if err != nil {
		return nil, apperr.Internal("failed to list maps", err)
	}
	return maps, nil
}

// GetMap returns full map detail without stops or routes.
func (s *MapService) GetMap(mapID uuid.UUID) (*models.GameMap, error) {
	var gameMap models.GameMap
	if err := s.db.First(&gameMap, "id = ?", mapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Map not found.")
		}
		return nil, apperr.Internal("failed to load map", err)
	}
	return &gameMap, nil
}

// EffectiveMap resolves the playable map for a game: excluded stops and
// routes are removed, and each surviving route's stop list is re-filtered
// against the surviving stop set, preserving order. Stops left on zero routes
// stay in the output.
func (s *MapService) EffectiveMap(game *models.Game) (*EffectiveMap, error) {
	if cached := s.getCached(game.ID); cached != nil {
		return cached, nil
	}

	gameMap, err := s.GetMap(game.MapID)
	if err != nil {
		return nil, err
	}

	allStops := []models.Stop{}
	if err := s.db.Where("dataset_id = ?", gameMap.TransitDatasetID).Find(&allStops).Error; err != nil {
		return nil, apperr.Internal("failed to load stops", err)
	}
	stops := make([]models.Stop, 0, len(allStops))
	stopIDSet := make(map[uuid.UUID]bool, len(allStops))
	for _, stop := range allStops {
		if gameMap.ExcludedStopIDs.Contains(stop.ID) {
			continue
		}
		stops = append(stops, stop)
		stopIDSet[stop.ID] = true
	}

	allRoutes := []models.Route{}
	if err := s.db.Where("dataset_id = ?", gameMap.TransitDatasetID).Find(&allRoutes).Error; err != nil {
		return nil, apperr.Internal("failed to load routes", err)
	}
	routes := make([]models.Route, 0, len(allRoutes))
	routeIDs := make([]uuid.UUID, 0, len(allRoutes))
	for _, route := range allRoutes {
		if gameMap.ExcludedRouteIDs.Contains(route.ID) {
			continue
		}
		routes = append(routes, route)
		routeIDs = append(routeIDs, route.ID)
	}

	stopsByRoute := make(map[uuid.UUID][]uuid.UUID, len(routes))
	if len(routeIDs) > 0 {
		routeStops := []models.RouteStop{}
		if err := s.db.Where("route_id IN ?", routeIDs).
			Order("route_id, sequence").Find(&routeStops).Error; err != nil {
			return nil, apperr.Internal("failed to load route stops", err)
		}
		for _, rs := range routeStops {
			if !stopIDSet[rs.StopID] {
				continue
			}
			stopsByRoute[rs.RouteID] = append(stopsByRoute[rs.RouteID], rs.StopID)
		}
	}

	effective := &EffectiveMap{
		MapID:           gameMap.ID,
		Name:            gameMap.Name,
		Boundary:        gameMap.Boundary,
		Districts:       gameMap.Districts,
		DistrictClasses: gameMap.DistrictClasses,
		Stops:           stops,
		Routes:          make([]EffectiveRoute, 0, len(routes)),
	}
	for _, route := range routes {
		stopIDs := stopsByRoute[route.ID]
		if stopIDs == nil {
			stopIDs = []uuid.UUID{}
		}
		effective.Routes = append(effective.Routes, EffectiveRoute{Route: route, StopIDs: stopIDs})
	}

	s.setCached(game.ID, effective)
	return effective, nil
}

func effectiveMapKey(gameID uuid.UUID) string {
	return "effective_map:" + gameID.String()
}

func (s *MapService) getCached(gameID uuid.UUID) *EffectiveMap {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(context.Background(), effectiveMapKey(gameID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warnw("effective map cache read failed", "game_id", gameID, "error", err)
		}
		return nil
	}

	var cached EffectiveMap
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		logger.Log.Warnw("effective map cache entry corrupt", "game_id", gameID, "error", err)
		return nil
	}
	return &cached
}

func (s *MapService) setCached(gameID uuid.UUID, effective *EffectiveMap) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(effective)
	if err != nil {
		logger.Log.Warnw("effective map cache encode failed", "game_id", gameID, "error", err)
		return
	}
	if err := s.redis.Set(context.Background(), effectiveMapKey(gameID), data, effectiveMapTTL).Err(); err != nil {
		logger.Log.Warnw("effective map cache write failed", "game_id", gameID, "error", err)
	}
}
