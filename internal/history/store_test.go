package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/featurelist/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func counts(pairs ...interface{}) *models.CategoryCounts {
	c := models.NewCategoryCounts()
	for i := 0; i < len(pairs); i += 2 {
		c.Add(pairs[i].(string), pairs[i+1].(int))
	}
	return c
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database", dbPath: filepath.Join(t.TempDir(), "history.db")},
		{name: "creates parent directories", dbPath: filepath.Join(t.TempDir(), "nested", "dir", "history.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.dbPath)
			require.NoError(t, err)
			defer store.Close()

			version, err := store.GetLatestVersion()
			require.NoError(t, err)
			assert.Equal(t, len(migrations), version)
			assert.Equal(t, tt.dbPath, store.Path())
		})
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	first, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.RecordBuild(ctx, &BuildRecord{Phase: "initial", OutputPath: "out.json", Total: 1, MaxID: 1, Categories: counts("A", 1)}))
	require.NoError(t, first.Close())

	second, err := NewStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	builds, err := second.ListBuilds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, builds, 1)
}

func TestRecordBuild_AssignsIDsAndRunID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &BuildRecord{
		Phase:      "initial",
		OutputPath: "feature_list.json",
		Project:    "World Cup 2026 Prediction Game",
		Version:    "1.0.0",
		Total:      215,
		MaxID:      215,
		Categories: counts("Authentication", 20, "User Profile", 15),
		Bytes:      70000,
	}
	require.NoError(t, store.RecordBuild(ctx, rec))

	assert.Equal(t, int64(1), rec.ID)
	_, err := uuid.Parse(rec.RunID)
	assert.NoError(t, err, "run id should be a UUID")
	assert.False(t, rec.CreatedAt.IsZero())

	fixed := &BuildRecord{RunID: rec.RunID, Phase: "extension", OutputPath: "feature_list.json", Total: 255, MaxID: 255, Categories: counts("A", 1)}
	require.NoError(t, store.RecordBuild(ctx, fixed))
	assert.Equal(t, int64(2), fixed.ID)
	assert.Equal(t, rec.RunID, fixed.RunID)
}

func TestListBuilds_RoundTripAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 11, 18, 30, 0, 0, time.UTC)

	runID := NewRunID()
	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{
		RunID: runID, Phase: "initial", OutputPath: "out.json",
		Project: "Demo", Version: "1.0.0",
		Total: 3, MaxID: 3, Categories: counts("Zeta", 2, "Alpha", 1),
		Bytes: 900, CreatedAt: created,
	}))
	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{
		RunID: runID, Phase: "extension", OutputPath: "out.json",
		Total: 4, MaxID: 4, Categories: counts("Zeta", 2, "Alpha", 1, "Mid", 1),
		Bytes: 1200, CreatedAt: created.Add(time.Second),
	}))

	builds, err := store.ListBuilds(ctx, 0)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	latest, first := builds[0], builds[1]
	assert.Equal(t, "extension", latest.Phase)
	assert.Equal(t, "initial", first.Phase)

	assert.Equal(t, runID, first.RunID)
	assert.Equal(t, "out.json", first.OutputPath)
	assert.Equal(t, "Demo", first.Project)
	assert.Equal(t, "1.0.0", first.Version)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, 3, first.MaxID)
	assert.Equal(t, 900, first.Bytes)
	assert.True(t, created.Equal(first.CreatedAt), "created_at = %v", first.CreatedAt)
	assert.Equal(t, []string{"Zeta", "Alpha"}, first.Categories.Keys())
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, latest.Categories.Keys())
	assert.Empty(t, latest.Project)

	limited, err := store.ListBuilds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "extension", limited[0].Phase)
}

func TestListBuilds_Empty(t *testing.T) {
	builds, err := newTestStore(t).ListBuilds(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, builds)
}

func TestLatestBuild(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	none, err := store.LatestBuild(ctx, "out.json")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{Phase: "initial", OutputPath: "out.json", Total: 1, MaxID: 1, Categories: counts("A", 1)}))
	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{Phase: "other", OutputPath: "other.json", Total: 9, MaxID: 9, Categories: counts("B", 9)}))
	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{Phase: "extension", OutputPath: "out.json", Total: 2, MaxID: 2, Categories: counts("A", 2)}))

	latest, err := store.LatestBuild(ctx, "out.json")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "extension", latest.Phase)
	assert.Equal(t, 2, latest.Total)
}

func TestRecordBuild_NilCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBuild(ctx, &BuildRecord{Phase: "empty", OutputPath: "out.json"}))

	latest, err := store.LatestBuild(ctx, "out.json")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 0, latest.Categories.Len())
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.ApplyMigrations(context.Background()))

	version, err := store.GetLatestVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}
