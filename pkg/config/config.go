// Package config loads the node's YAML configuration, grounded on the
// teacher's pkg/config.Load (read file, unmarshal, wrap errors with
// github.com/pkg/errors), generalized from neo-go's protocol/application
// split into the single flat document spec.md §6 describes.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full set of node configuration keys from spec.md §6, plus
// the ambient keys the expanded spec adds (logging, metrics, persistence).
type Config struct {
	MyAddress      string `yaml:"myAddress"`
	MyPlatform     string `yaml:"myPlatform"`
	ShareMyAddress bool   `yaml:"shareMyAddress"`
	MyHallmark     string `yaml:"myHallmark"`

	PeerServerPort                  int `yaml:"peerServerPort"`
	MaxNumberOfConnectedPublicPeers int `yaml:"maxNumberOfConnectedPublicPeers"`

	ConnectTimeoutMillis int `yaml:"connectTimeout"`
	ReadTimeoutMillis    int `yaml:"readTimeout"`

	BlacklistingPeriodMillis int64 `yaml:"blacklistingPeriod"`

	EnableHallmarkProtection bool  `yaml:"enableHallmarkProtection"`
	PushThreshold            int64 `yaml:"pushThreshold"`
	PullThreshold            int64 `yaml:"pullThreshold"`

	SendToPeersLimit int `yaml:"sendToPeersLimit"`

	UsePeersDb bool `yaml:"usePeersDb"`
	SavePeers  bool `yaml:"savePeers"`

	IsTestnet bool `yaml:"isTestnet"`

	CommunicationLoggingMask int `yaml:"communicationLoggingMask"`

	// Added ambient keys (SPEC_FULL.md §6).
	LogLevel    string `yaml:"logLevel"`
	LogPath     string `yaml:"logPath"`
	MetricsAddr string `yaml:"metricsAddr"`
	PeersDbPath string `yaml:"peersDbPath"`
}

const (
	defaultMainnetPort = 7774
	defaultTestnetPort = 6874
)

// Default returns a Config with spec.md's stated defaults applied.
func Default() Config {
	return Config{
		ShareMyAddress:                   true,
		PeerServerPort:                   defaultMainnetPort,
		MaxNumberOfConnectedPublicPeers:  20,
		ConnectTimeoutMillis:             2000,
		ReadTimeoutMillis:                5000,
		BlacklistingPeriodMillis:         int64(30 * time.Minute / time.Millisecond),
		PushThreshold:                    0,
		PullThreshold:                    0,
		SendToPeersLimit:                 10,
		LogLevel:                         "info",
		PeersDbPath:                      "peers.db",
	}
}

// Load reads and parses the YAML file at path, applying Default() as a
// base so unset keys keep their documented defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "problem unmarshaling config data")
	}

	if cfg.IsTestnet && cfg.PeerServerPort == defaultMainnetPort {
		cfg.PeerServerPort = defaultTestnetPort
	}

	return cfg, nil
}
