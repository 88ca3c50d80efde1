package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dimplex-community/dimctl/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) db.CatalogueRepository {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&db.Hub{}, &db.Zone{}, &db.Appliance{}))
	return db.NewCatalogueRepository(gdb)
}

func TestCatalogueRepository_HubRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutHub(ctx, db.Hub{HubID: "h1", Name: "Home", Data: `{"HubId":"h1"}`}))

	hubs, err := repo.Hubs(ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 1)
	assert.Equal(t, "Home", hubs[0].Name)

	// Upsert must overwrite, not duplicate.
	require.NoError(t, repo.PutHub(ctx, db.Hub{HubID: "h1", Name: "Cottage"}))
	hubs, err = repo.Hubs(ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 1)
	assert.Equal(t, "Cottage", hubs[0].Name)
}

func TestCatalogueRepository_ZonesAndAppliances(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutZone(ctx, db.Zone{ZoneID: "z1", HubID: "h1", ZoneName: "Living Room", ZoneType: "Room"}))
	require.NoError(t, repo.PutZone(ctx, db.Zone{ZoneID: "z2", HubID: "h2", ZoneName: "Bedroom", ZoneType: "Room"}))
	require.NoError(t, repo.PutAppliance(ctx, db.Appliance{ApplianceID: "a1", ZoneID: "z1", HubID: "h1", FriendlyName: "Front Radiator"}))

	zones, err := repo.ZonesForHub(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Living Room", zones[0].ZoneName)

	appliances, err := repo.AppliancesForHub(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, appliances, 1)
	assert.Equal(t, "Front Radiator", appliances[0].FriendlyName)

	appliance, err := repo.ApplianceByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, appliance)
	assert.Equal(t, "z1", appliance.ZoneID)

	missing, err := repo.ApplianceByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogueRepository_Clear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutHub(ctx, db.Hub{HubID: "h1"}))
	require.NoError(t, repo.PutZone(ctx, db.Zone{ZoneID: "z1", HubID: "h1"}))
	require.NoError(t, repo.PutAppliance(ctx, db.Appliance{ApplianceID: "a1", HubID: "h1"}))

	require.NoError(t, repo.Clear(ctx))

	hubs, err := repo.Hubs(ctx)
	require.NoError(t, err)
	assert.Empty(t, hubs)
	zones, err := repo.ZonesForHub(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, zones)
}
