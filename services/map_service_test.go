package services

import (
	"fmt"
	"testing"

	"hideandseek/apperr"
	"hideandseek/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func createTestStop(t *testing.T, db *gorm.DB, datasetID uuid.UUID, stableID, name string) *models.Stop {
	t.Helper()
	stop := &models.Stop{
		ID:          uuid.New(),
		StableID:    stableID,
		DatasetID:   datasetID,
		Name:        name,
		Coordinates: models.NewGeoPoint(-0.1, 51.5),
	}
	if err := db.Create(stop).Error; err != nil {
		t.Fatalf("failed to create stop: %v", err)
	}
	return stop
}

func createTestRoute(t *testing.T, db *gorm.DB, datasetID uuid.UUID, stableID, name string, stops ...*models.Stop) *models.Route {
	t.Helper()
	route := &models.Route{
		ID:        uuid.New(),
		StableID:  stableID,
		DatasetID: datasetID,
		Name:      name,
		Color:     "#CC0000",
		RouteType: models.RouteTypeMetro,
	}
	if err := db.Create(route).Error; err != nil {
		t.Fatalf("failed to create route: %v", err)
	}
	for i, stop := range stops {
		rs := &models.RouteStop{RouteID: route.ID, StopID: stop.ID, Sequence: i + 1}
		if err := db.Create(rs).Error; err != nil {
			t.Fatalf("failed to create route stop: %v", err)
		}
	}
	return route
}

func TestListMapsPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMapService(db, nil)
	dataset := createTestDataset(t, db)
	for i := 0; i < 5; i++ {
		gameMap := &models.GameMap{
			ID:               uuid.New(),
			Name:             fmt.Sprintf("Map %d", i),
			Size:             models.MapSizeSmall,
			TransitDatasetID: dataset.ID,
			DefaultInventory: defaultInventory(),
		}
		if err := db.Create(gameMap).Error; err != nil {
			t.Fatalf("failed to create map: %v", err)
		}
	}

	all, err := svc.ListMaps(0, 0)
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 maps, got %d", len(all))
	}
	if all[0].Region != "London" {
		t.Errorf("expected dataset region on summary, got %q", all[0].Region)
	}

	page, err := svc.ListMaps(3, 2)
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 maps on the last page, got %d", len(page))
	}

	clamped, err := svc.ListMaps(-1, MaxPageLimit+1)
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(clamped) != 5 {
		t.Errorf("expected clamped parameters to return all maps, got %d", len(clamped))
	}
}

func TestGetMapNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMapService(db, nil)

	_, err := svc.GetMap(uuid.New())
	assertKind(t, err, apperr.KindNotFound)
}

func TestEffectiveMapAppliesExclusions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMapService(db, nil)

	gameMap := createTestMap(t, db)
	datasetID := gameMap.TransitDatasetID
	a := createTestStop(t, db, datasetID, "stop-a", "Alpha")
	b := createTestStop(t, db, datasetID, "stop-b", "Bravo")
	c := createTestStop(t, db, datasetID, "stop-c", "Charlie")
	line1 := createTestRoute(t, db, datasetID, "route-1", "Line 1", a, b, c)
	line2 := createTestRoute(t, db, datasetID, "route-2", "Line 2", b, c)

	gameMap.ExcludedStopIDs = models.UUIDList{b.ID}
	gameMap.ExcludedRouteIDs = models.UUIDList{line2.ID}
	if err := db.Save(gameMap).Error; err != nil {
		t.Fatalf("failed to save exclusions: %v", err)
	}

	game := createTestGameOnMap(t, db, gameMap)

	effective, err := svc.EffectiveMap(game)
	if err != nil {
		t.Fatalf("EffectiveMap failed: %v", err)
	}

	if len(effective.Stops) != 2 {
		t.Fatalf("expected 2 stops after exclusion, got %d", len(effective.Stops))
	}
	for _, stop := range effective.Stops {
		if stop.ID == b.ID {
			t.Error("excluded stop present in effective map")
		}
	}

	if len(effective.Routes) != 1 {
		t.Fatalf("expected 1 route after exclusion, got %d", len(effective.Routes))
	}
	route := effective.Routes[0]
	if route.ID != line1.ID {
		t.Errorf("expected line 1 to survive, got %s", route.Name)
	}
	// The excluded stop drops out of the route with order preserved.
	want := []uuid.UUID{a.ID, c.ID}
	if len(route.StopIDs) != len(want) {
		t.Fatalf("expected %d stop ids, got %d", len(want), len(route.StopIDs))
	}
	for i := range want {
		if route.StopIDs[i] != want[i] {
			t.Errorf("stop id %d: expected %s, got %s", i, want[i], route.StopIDs[i])
		}
	}
}

func TestEffectiveMapKeepsOrphanStops(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMapService(db, nil)

	gameMap := createTestMap(t, db)
	datasetID := gameMap.TransitDatasetID
	a := createTestStop(t, db, datasetID, "stop-a", "Alpha")
	b := createTestStop(t, db, datasetID, "stop-b", "Bravo")
	line := createTestRoute(t, db, datasetID, "route-1", "Line 1", a, b)

	gameMap.ExcludedRouteIDs = models.UUIDList{line.ID}
	if err := db.Save(gameMap).Error; err != nil {
		t.Fatalf("failed to save exclusions: %v", err)
	}

	game := createTestGameOnMap(t, db, gameMap)

	effective, err := svc.EffectiveMap(game)
	if err != nil {
		t.Fatalf("EffectiveMap failed: %v", err)
	}

	// Excluding the only route leaves its stops reachable as orphans.
	if len(effective.Stops) != 2 {
		t.Errorf("expected orphan stops retained, got %d", len(effective.Stops))
	}
	if len(effective.Routes) != 0 {
		t.Errorf("expected no routes, got %d", len(effective.Routes))
	}
}

func TestEffectiveMapEmptyRouteStopList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMapService(db, nil)

	gameMap := createTestMap(t, db)
	datasetID := gameMap.TransitDatasetID
	a := createTestStop(t, db, datasetID, "stop-a", "Alpha")
	createTestRoute(t, db, datasetID, "route-1", "Line 1", a)

	gameMap.ExcludedStopIDs = models.UUIDList{a.ID}
	if err := db.Save(gameMap).Error; err != nil {
		t.Fatalf("failed to save exclusions: %v", err)
	}

	game := createTestGameOnMap(t, db, gameMap)

	effective, err := svc.EffectiveMap(game)
	if err != nil {
		t.Fatalf("EffectiveMap failed: %v", err)
	}
	if len(effective.Routes) != 1 {
		t.Fatalf("expected the route to survive, got %d routes", len(effective.Routes))
	}
	if effective.Routes[0].StopIDs == nil {
		t.Error("expected empty stop id slice, got nil")
	}
	if len(effective.Routes[0].StopIDs) != 0 {
		t.Errorf("expected no stop ids, got %d", len(effective.Routes[0].StopIDs))
	}
}

// createTestGameOnMap creates a game bound to an existing map instead of a
// fresh fixture map.
func createTestGameOnMap(t *testing.T, db *gorm.DB, gameMap *models.GameMap) *models.Game {
	t.Helper()
	code := randomTestCode(t)
	game := &models.Game{
		ID:           uuid.New(),
		MapID:        gameMap.ID,
		HostClientID: uuid.New(),
		Status:       models.GameStatusLobby,
		JoinCode:     &code,
		Timing:       gameMap.DefaultTiming,
		Inventory:    gameMap.DefaultInventory,
	}
	if err := db.Create(game).Error; err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return game
}
