package keeper

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/go-arrower/keeper/repository"
)

// Config is the configuration of a keeper session.
// It is intended to be mapped by viper.
type Config struct {
	DataDir  string   `mapstructure:"data_dir"`
	Language string   `mapstructure:"language"`
	Programs []string `mapstructure:"programs"`
	Store    Store    `mapstructure:"store"`
	Log      Log      `mapstructure:"log"`
	Seed     int64    `mapstructure:"seed"`
}

type (
	Store struct {
		Driver     Driver `mapstructure:"driver"`
		SQLiteFile string `mapstructure:"sqlite_file"`
	}

	Log struct {
		Level string `mapstructure:"level"`
	}
)

type Driver string

const (
	JSONDriver   Driver = "json"
	YAMLDriver   Driver = "yaml"
	TOMLDriver   Driver = "toml"
	SQLiteDriver Driver = "sqlite"
	MemoryDriver Driver = "memory"
)

// Drivers is the list of all supported store drivers.
func Drivers() []Driver {
	return []Driver{JSONDriver, YAMLDriver, TOMLDriver, SQLiteDriver, MemoryDriver}
}

// EnvPrefix is the prefix of all environment variables overwriting the configuration,
// e.g. KEEPER_STORE_DRIVER=yaml.
const EnvPrefix = "KEEPER"

// DefaultViper returns a new viper instance with all default values
// from Config set.
func DefaultViper() *Viper {
	vip := viper.New()

	vip.SetDefault("data_dir", "data")
	vip.SetDefault("language", "en")
	vip.SetDefault("programs", []string{})

	vip.SetDefault("store.driver", string(JSONDriver))
	vip.SetDefault("store.sqlite_file", "keeper.db")

	vip.SetDefault("log.level", "info")

	vip.SetDefault("seed", 0)

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	return &Viper{Viper: vip}
}

var (
	ErrConfigLoadFailed = errors.New("loading configuration failed")
	ErrUnknownDriver    = errors.New("unknown store driver")
)

// Viper is a wrapper around viper.Viper for configuration loading.
// The only purpose is to overwrite the Unmarshal method,
// so that the store driver is validated and the developer
// does not have to think about it when using DefaultViper.
type Viper struct {
	*viper.Viper
}

func (vip *Viper) Unmarshal(rawVal any, opts ...viper.DecoderConfigOption) error {
	opts = append(opts, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		allowedDriverHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))

	err := vip.Viper.Unmarshal(rawVal, opts...)
	if err != nil {
		return fmt.Errorf("%w: could not decode configuration into struct: %v", ErrConfigLoadFailed, err)
	}

	return nil
}

// Load returns the configuration, read from file if it is not empty.
func (vip *Viper) Load(file string) (Config, error) {
	if file != "" {
		vip.SetConfigFile(file)

		if err := vip.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrConfigLoadFailed, err)
		}
	}

	conf := Config{}
	if err := vip.Unmarshal(&conf); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func allowedDriverHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (interface{}, error) {
		if t != reflect.TypeOf(Driver("")) {
			return data, nil
		}

		drivers := Drivers()
		if s, ok := data.(string); ok && slices.Contains(drivers, Driver(s)) {
			return data, nil
		}

		d := make([]string, 0, len(drivers))
		for _, driver := range drivers {
			d = append(d, string(driver))
		}

		return data, fmt.Errorf("%w %v, use one of: %s", ErrUnknownDriver, data, strings.Join(d, ", "))
	}
}

// NewStore returns the repository.Store selected by the configured driver.
func (c Config) NewStore() (repository.Store, error) { //nolint:ireturn // the driver decides the implementation
	switch c.Store.Driver {
	case JSONDriver, "":
		return repository.NewJSONStore(c.DataDir), nil
	case YAMLDriver:
		return repository.NewYAMLStore(c.DataDir), nil
	case TOMLDriver:
		return repository.NewTOMLStore(c.DataDir), nil
	case SQLiteDriver:
		file := c.Store.SQLiteFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(c.DataDir, file)
		}

		return repository.NewSQLiteStore(file), nil
	case MemoryDriver:
		return repository.NoopStore, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, c.Store.Driver)
	}
}
