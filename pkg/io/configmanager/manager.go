// Package configmanager loads fleetup settings with the usual precedence:
// defaults, then the fleetup.yaml config file, then FLEETUP_* environment
// variables, then flags bound by the commands.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment variables (FLEETUP_CLUSTER_COUNT, ...).
const envPrefix = "FLEETUP"

// configKeys lists every key the config knows. Each is bound to its
// FLEETUP_* environment variable explicitly; AutomaticEnv alone only
// covers keys that carry a default.
var configKeys = []string{
	"cluster.name",
	"cluster.count",
	"cluster.serverType",
	"cluster.image",
	"cluster.location",
	"cluster.file",
	"ssh.keyName",
	"ssh.keypair",
	"ssh.username",
	"saltapi.port",
	"saltapi.username",
	"saltapi.password",
	"provider.token",
}

// Config holds every tunable of the launch and provisioning flows.
type Config struct {
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	SSH      SSHConfig      `mapstructure:"ssh"`
	SaltAPI  SaltAPIConfig  `mapstructure:"saltapi"`
	Provider ProviderConfig `mapstructure:"provider"`
}

// ClusterConfig describes the machines to launch.
type ClusterConfig struct {
	Name       string `mapstructure:"name"`
	Count      int    `mapstructure:"count"`
	ServerType string `mapstructure:"serverType"`
	Image      string `mapstructure:"image"`
	Location   string `mapstructure:"location"`
	File       string `mapstructure:"file"`
}

// SSHConfig describes how to reach the machines.
type SSHConfig struct {
	KeyName  string `mapstructure:"keyName"`
	Keypair  string `mapstructure:"keypair"`
	Username string `mapstructure:"username"`
}

// SaltAPIConfig describes the dispatcher endpoint on the master.
type SaltAPIConfig struct {
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ProviderConfig holds cloud credentials.
type ProviderConfig struct {
	Token string `mapstructure:"token"`
}

// ConfigManager wires Viper with fleetup's defaults, file discovery and
// environment binding.
type ConfigManager struct {
	Viper  *viper.Viper
	Writer io.Writer

	configPath string
}

// NewConfigManager creates a manager. configPath may be empty, in which case
// fleetup.yaml is discovered in the working directory.
func NewConfigManager(writer io.Writer, configPath string) *ConfigManager {
	viperInstance := viper.New()

	viperInstance.SetDefault("cluster.name", "fleetup")
	viperInstance.SetDefault("cluster.count", 4)
	viperInstance.SetDefault("cluster.serverType", "cpx31")
	viperInstance.SetDefault("cluster.image", "ubuntu-24.04")
	viperInstance.SetDefault("cluster.location", "fsn1")
	viperInstance.SetDefault("cluster.file", "cluster.yaml")
	viperInstance.SetDefault("ssh.username", "root")
	viperInstance.SetDefault("saltapi.port", 8000)
	viperInstance.SetDefault("saltapi.username", "saltdev")

	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	for _, key := range configKeys {
		// BindEnv only errors on a missing key argument.
		_ = viperInstance.BindEnv(key)
	}

	if configPath != "" {
		viperInstance.SetConfigFile(configPath)
	} else {
		viperInstance.SetConfigName("fleetup")
		viperInstance.SetConfigType("yaml")
		viperInstance.AddConfigPath(".")
	}

	return &ConfigManager{
		Viper:      viperInstance,
		Writer:     writer,
		configPath: configPath,
	}
}

// BindFlag binds a config key to a command flag so flags take precedence
// over file and environment values.
func (m *ConfigManager) BindFlag(key string, flag *pflag.Flag) error {
	err := m.Viper.BindPFlag(key, flag)
	if err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}

	return nil
}

// Load reads the config file (if any) and resolves the final configuration.
// A missing config file is not an error; a malformed one is.
func (m *ConfigManager) Load() (*Config, error) {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingExplicitFile(err, m.configPath) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		notify.Infof(m.Writer, "Using config file %s", m.Viper.ConfigFileUsed())
	}

	var config Config

	err = m.Viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
}

// isMissingExplicitFile reports whether the error is just an absent
// explicitly-named config file.
func isMissingExplicitFile(err error, configPath string) bool {
	if configPath == "" {
		return false
	}

	return strings.Contains(err.Error(), "no such file")
}
