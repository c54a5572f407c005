package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/naehbuch/internal/config"
	"github.com/dori/naehbuch/internal/model"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NAEHBUCH_DATA_DIR", dir)
	t.Setenv("NAEHBUCH_BACKEND", backend)
	t.Setenv("NAEHBUCH_NOTIFY", "false")

	cfg, err := config.Load(dir + "/missing.yaml")
	require.NoError(t, err)
	return cfg
}

func TestNewWithSQLite(t *testing.T) {
	a, err := New(testConfig(t, config.BackendSQLite), Options{SingleInstance: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, model.ViewCards, a.ViewMode)
	assert.False(t, a.Notifier.IsEnabled())

	created, err := a.Store.Create(context.Background(), model.Project{Name: "Summer Dress"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestNewWithJSONFile(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	a, err := New(cfg, Options{})
	require.NoError(t, err)

	_, err = a.Store.Create(context.Background(), model.Project{Name: "Tote Bag"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	projects, err := a.Store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Tote Bag", projects[0].Name)
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	first, err := New(cfg, Options{SingleInstance: true})
	require.NoError(t, err)

	_, err = New(cfg, Options{SingleInstance: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	// One-shot commands do not take the lock
	cli, err := New(cfg, Options{})
	require.NoError(t, err)
	require.NoError(t, cli.Close())

	require.NoError(t, first.Close())

	again, err := New(cfg, Options{SingleInstance: true})
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestViewModeComesFromPrefs(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	require.NoError(t, a.Prefs.SaveViewMode(model.ViewList))
	require.NoError(t, a.Close())

	a, err = New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, model.ViewList, a.ViewMode)
}
