package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"gopkg.in/yaml.v3"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/osrmtests"
)

const defaultFeaturesDir = "features"

type commandParams struct {
	configFile string
	config     osrmtests.Config
	paths      []string
	filters    framework.ScenarioFilters
	format     string
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	var (
		root         string
		profile      string
		host         string
		port         int
		preprocess   bool
		readyTimeout time.Duration
	)
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [feature files or directories]\n", args[0])
		fs.PrintDefaults()
	}
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&root, "root", ".", "project directory containing build/, profiles/ and features/")
	fs.StringVar(&profile, "profile", osrmtests.DefaultProfile, "profile used by scenarios that don't set one")
	fs.StringVar(&host, "host", osrmtests.DefaultHost, "hostname of the routing server")
	fs.IntVar(&port, "port", osrmtests.DefaultPort, "port of the routing server")
	fs.BoolVar(&preprocess, "preprocess", false, "build missing datasets with the preprocessing tools")
	fs.DurationVar(&readyTimeout, "ready-timeout", 0, "how long to wait for the server to load a dataset")
	fs.Var(&c.filters.Run, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.Skip, "skip", "regex pattern(s) to select scenarios not to run")
	fs.StringVar(&c.format, "format", "", "also print the output of this godog formatter (pretty, progress, cucumber, junit)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all scenarios")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}

	if c.configFile != "" {
		config, err := loadConfig(c.configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration file: %s\n", err)
			return false
		}
		c.config = config
	}
	// flags that were given explicitly override the configuration file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			c.config.Root = root
		case "profile":
			c.config.Profile = profile
		case "host":
			c.config.Host = host
		case "port":
			c.config.Port = port
		case "preprocess":
			c.config.Preprocess = preprocess
		case "ready-timeout":
			c.config.Timeouts.Ready = readyTimeout
		}
	})
	c.config = c.config.WithDefaults()

	c.paths = fs.Args()
	if len(c.paths) == 0 {
		c.paths = []string{filepath.Join(c.config.Root, defaultFeaturesDir)}
	}
	return true
}

func loadConfig(path string) (osrmtests.Config, error) {
	var config osrmtests.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
