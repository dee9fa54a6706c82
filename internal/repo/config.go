package repo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/meshplus/bitxhub-kit/fileutil"
	"github.com/spf13/viper"
)

// Config represents the necessary config data for starting the bridge node
type Config struct {
	RepoRoot string  `toml:"-" json:"-"`
	Title    string  `toml:"title" json:"title"`
	Port     Port    `toml:"port" json:"port"`
	Log      Log     `toml:"log" json:"log"`
	Store    string  `toml:"store" json:"store"`
	Genesis  string  `toml:"genesis" json:"genesis"`
	Metrics  Metrics `toml:"metrics" json:"metrics"`
	Pool     Pool    `toml:"pool" json:"pool"`
}

// Port is the port serving the query api
type Port struct {
	Http int64 `toml:"http" json:"http"`
}

// Log are config about log
type Log struct {
	Dir          string    `toml:"dir" json:"dir"`
	Filename     string    `toml:"filename" json:"filename"`
	ReportCaller bool      `mapstructure:"report_caller" toml:"report_caller" json:"report_caller"`
	Level        string    `toml:"level" json:"level"`
	Module       LogModule `toml:"module" json:"module"`
}

type LogModule struct {
	LightClient string `mapstructure:"light_client" toml:"light_client" json:"light_client"`
	Channel     string `toml:"channel" json:"channel"`
	Ledger      string `toml:"ledger" json:"ledger"`
	Apps        string `toml:"apps" json:"apps"`
	Runtime     string `toml:"runtime" json:"runtime"`
	ApiServer   string `mapstructure:"api_server" toml:"api_server" json:"api_server"`
}

type Metrics struct {
	Enable    bool   `toml:"enable" json:"enable"`
	Namespace string `toml:"namespace" json:"namespace"`
}

// Pool bounds the blocks waiting for their predecessor
type Pool struct {
	Size int `toml:"size" json:"size"`
}

// DefaultConfig returns config with default value
func DefaultConfig() *Config {
	return &Config{
		RepoRoot: DefaultPathName,
		Title:    "ethbridge configuration file",
		Port: Port{
			Http: 8080,
		},
		Log: Log{
			Level:    "info",
			Dir:      "logs",
			Filename: "ethbridge.log",
			Module: LogModule{
				LightClient: "info",
				Channel:     "info",
				Ledger:      "info",
				Apps:        "info",
				Runtime:     "info",
				ApiServer:   "info",
			},
		},
		Store:   "store",
		Genesis: GenesisName,
		Metrics: Metrics{
			Enable:    true,
			Namespace: "ethbridge",
		},
		Pool: Pool{
			Size: 1024,
		},
	}
}

// UnmarshalConfig read from config files under config path
func UnmarshalConfig(repoRoot string) (*Config, error) {
	configPath := filepath.Join(repoRoot, ConfigName)

	if !fileutil.Exist(configPath) {
		return nil, fmt.Errorf("please initialize ethbridge firstly")
	}

	envPath := filepath.Join(repoRoot, EnvName)
	if fileutil.Exist(envPath) {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	config := DefaultConfig()

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	config.RepoRoot = repoRoot

	return config, nil
}

func (c *Config) StorePath() string {
	return filepath.Join(c.RepoRoot, c.Store)
}

func (c *Config) GenesisPath() string {
	if filepath.IsAbs(c.Genesis) {
		return c.Genesis
	}
	return filepath.Join(c.RepoRoot, c.Genesis)
}
