package osrmtests

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/Project-OSRM/osrm-contract-tests/client"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
	"github.com/Project-OSRM/osrm-contract-tests/supervisor"
)

const (
	DefaultHost    = "localhost"
	DefaultPort    = 5000
	DefaultProfile = "car"

	RoutedBinary   = "osrm-routed"
	ExtractBinary  = "osrm-extract"
	ContractBinary = "osrm-contract"
)

type Timeouts struct {
	Connect time.Duration `yaml:"connect"`
	Read    time.Duration `yaml:"read"`
	Ready   time.Duration `yaml:"ready"`
}

// Config describes where the build under test is and how to talk to it.
type Config struct {
	// Root is the project directory that holds features/, build/, profiles/ and test/cache/.
	Root        string            `yaml:"root"`
	BuildDir    string            `yaml:"build_dir"`
	ProfilesDir string            `yaml:"profiles_dir"`
	Host        string            `yaml:"host"`
	Port        int               `yaml:"port"`
	Profile     string            `yaml:"profile"`
	Timeouts    Timeouts          `yaml:"timeouts"`
	Params      map[string]string `yaml:"default_params"`
	// Preprocess makes the harness run the preprocessing tools for datasets that are missing.
	// Otherwise a missing dataset stops the run.
	Preprocess   bool     `yaml:"preprocess"`
	ExtractArgs  []string `yaml:"extract_args"`
	ContractArgs []string `yaml:"contract_args"`
}

// WithDefaults fills in every setting that was left empty.
func (c Config) WithDefaults() Config {
	if c.Root == "" {
		c.Root = "."
	}
	if c.BuildDir == "" {
		c.BuildDir = filepath.Join(c.Root, "build")
	}
	if c.ProfilesDir == "" {
		c.ProfilesDir = filepath.Join(c.Root, "profiles")
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.Timeouts.Connect <= 0 {
		c.Timeouts.Connect = client.DefaultConnectTimeout
	}
	if c.Timeouts.Read <= 0 {
		c.Timeouts.Read = client.DefaultReadTimeout
	}
	if c.Timeouts.Ready <= 0 {
		c.Timeouts.Ready = supervisor.DefaultReadyTimeout
	}
	return c
}

func (c Config) binary(name string) string {
	return filepath.Join(c.BuildDir, name)
}

func (c Config) profileScript(profile string) string {
	return filepath.Join(c.ProfilesDir, profile+".lua")
}

// defaultParams returns the configured query options in a stable order.
func (c Config) defaultParams() servicedef.Params {
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var p servicedef.Params
	for _, k := range keys {
		p.Set(k, c.Params[k])
	}
	return p
}
