package keeper_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/keeper"
	"github.com/go-arrower/keeper/repository"
)

func TestDefaultViper(t *testing.T) {
	t.Parallel()

	vip := keeper.DefaultViper()
	assert.NotEmpty(t, vip)

	// This test enforces the default values, so whenever they change,
	// make sure to also update the example config file!

	assert.Equal(t, "data", vip.GetString("data_dir"))
	assert.Equal(t, "en", vip.GetString("language"))
	assert.Empty(t, vip.GetStringSlice("programs"))
	assert.Equal(t, keeper.JSONDriver, keeper.Driver(vip.GetString("store.driver")))
	assert.Equal(t, "keeper.db", vip.GetString("store.sqlite_file"))
	assert.Equal(t, "info", vip.GetString("log.level"))
	assert.Equal(t, int64(0), vip.GetInt64("seed"))
}

func TestViper_Load(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		conf, err := keeper.DefaultViper().Load("")
		require.NoError(t, err)
		assert.Equal(t, keeper.JSONDriver, conf.Store.Driver)
		assert.Equal(t, "data", conf.DataDir)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		conf, err := keeper.DefaultViper().Load("./testdata/config/test-config.yaml")
		require.NoError(t, err)

		assert.Equal(t, "/tmp/keeper", conf.DataDir)
		assert.Equal(t, keeper.SQLiteDriver, conf.Store.Driver)
		assert.Equal(t, "state.db", conf.Store.SQLiteFile)
		assert.Equal(t, "debug", conf.Log.Level)
		assert.Equal(t, int64(42), conf.Seed)
		assert.Equal(t, []string{"inventory", "bank"}, conf.Programs)
	})

	t.Run("invalid driver", func(t *testing.T) {
		t.Parallel()

		_, err := keeper.DefaultViper().Load("./testdata/config/invalid-config.yaml")
		assert.ErrorIs(t, err, keeper.ErrConfigLoadFailed)
		assert.Contains(t, err.Error(), "use one of: ", "error message should list out all accepted drivers")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := keeper.DefaultViper().Load("./testdata/config/missing.yaml")
		assert.ErrorIs(t, err, keeper.ErrConfigLoadFailed)
	})
}

//nolint:paralleltest // t.Setenv does not allow parallel tests
func TestViper_Env(t *testing.T) {
	t.Setenv("KEEPER_STORE_DRIVER", "toml")
	t.Setenv("KEEPER_DATA_DIR", "/srv/keeper")

	conf, err := keeper.DefaultViper().Load("")
	require.NoError(t, err)

	assert.Equal(t, keeper.TOMLDriver, conf.Store.Driver)
	assert.Equal(t, "/srv/keeper", conf.DataDir)
}

func TestConfig_NewStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		driver keeper.Driver
		want   repository.Store
	}{
		{keeper.JSONDriver, repository.NewJSONStore(dir)},
		{keeper.YAMLDriver, repository.NewYAMLStore(dir)},
		{keeper.TOMLDriver, repository.NewTOMLStore(dir)},
		{keeper.SQLiteDriver, repository.NewSQLiteStore(filepath.Join(dir, "keeper.db"))},
		{keeper.MemoryDriver, repository.NoopStore},
	}

	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			t.Parallel()

			conf := keeper.Config{DataDir: dir, Store: keeper.Store{Driver: tt.driver, SQLiteFile: "keeper.db"}}

			store, err := conf.NewStore()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, store)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := keeper.Config{Store: keeper.Store{Driver: "postgres"}}.NewStore()
		assert.ErrorIs(t, err, keeper.ErrUnknownDriver)
	})
}
