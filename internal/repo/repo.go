package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPathName is the default config dir name
	DefaultPathName = ".ethbridge"

	// DefaultPathRoot is the path to the default config dir location.
	DefaultPathRoot = "~/" + DefaultPathName

	// EnvDir is the environment variable used to change the path root.
	EnvDir = "ETHBRIDGE_PATH"

	// EnvPrefix prefixes environment overrides of config keys
	EnvPrefix = "ETHBRIDGE"

	// ConfigName is config name
	ConfigName = "ethbridge.toml"

	// GenesisName is the default genesis file name
	GenesisName = "genesis.toml"

	// EnvName is the optional dotenv file in the repo root
	EnvName = ".env"
)

var RootPath string

// Initialize creates the repo root with a default config and genesis
func Initialize(repoRoot string) error {
	if _, err := os.Stat(repoRoot); os.IsNotExist(err) {
		err := os.MkdirAll(repoRoot, 0755)
		if err != nil {
			return err
		}
	}

	if err := writeTOML(filepath.Join(repoRoot, ConfigName), DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := writeTOML(filepath.Join(repoRoot, GenesisName), DefaultGenesis()); err != nil {
		return fmt.Errorf("write genesis: %w", err)
	}

	return nil
}

func writeTOML(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(v)
}

// InitConfig initialize configuration and calls onChange with the reloaded
// config whenever the file changes
func InitConfig(path string, onChange func(*Config)) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		if onChange == nil {
			return
		}
		config := DefaultConfig()
		if err := viper.Unmarshal(config); err != nil {
			return
		}
		config.RepoRoot = filepath.Dir(e.Name)
		onChange(config)
	})

	return nil
}

// PathRoot returns root path (default .ethbridge)
func PathRoot() (string, error) {
	if RootPath != "" {
		return RootPath, nil
	}
	dir := os.Getenv(EnvDir)
	var err error
	if len(dir) == 0 {
		dir, err = homedir.Expand(DefaultPathRoot)
	}

	return dir, err
}

// SetPath sets global config path
func SetPath(root string) {
	RootPath = root
}

// PathRootWithDefault gets current config path with default value
func PathRootWithDefault(path string) (string, error) {
	if len(path) == 0 {
		return PathRoot()
	}

	return path, nil
}
