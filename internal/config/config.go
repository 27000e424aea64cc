package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Input         Input         `toml:"input"`
	Analysis      Analysis      `toml:"analysis"`
	Components    Components    `toml:"components"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Watch         Watch         `toml:"watch"`
}

type Input struct {
	// Paths lists the archives, class directories or single .class files
	// to analyze.
	Paths []string `toml:"paths"`
	// ExcludeEntries are glob patterns matched against entry names.
	ExcludeEntries []string `toml:"exclude_entries"`
}

type Analysis struct {
	// ExternalTypes are glob patterns for referenced type names that never
	// become dependency edges.
	ExternalTypes []string `toml:"external_types"`
	// PoolSize bounds the extraction worker pool; 0 means GOMAXPROCS.
	PoolSize     int `toml:"pool_size"`
	FlowMaxDepth int `toml:"flow_max_depth"`
	FlowMaxEdges int `toml:"flow_max_edges"`
}

type Components struct {
	// Overrides maps annotation names to component roles (SERVICE,
	// CONTROLLER, REPOSITORY, ENTITY, CONFIGURATION; OTHER removes a
	// built-in marker).
	Overrides map[string]string `toml:"overrides"`
}

type Output struct {
	Markdown string `toml:"markdown"`
	Diagram  string `toml:"diagram"`
	JSON     string `toml:"json"`
	// InjectInto names an existing markdown document carrying
	// "classlens:dependencies" marker comments; the dependency diagram is
	// rewritten between them on every run.
	InjectInto string `toml:"inject_into"`
}

type History struct {
	Path string `toml:"path"`
}

type Observability struct {
	ListenAddr   string `toml:"listen_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Watch struct {
	Debounce   time.Duration `toml:"debounce"`
	RatePerSec float64       `toml:"rate_per_sec"`
	Burst      int           `toml:"burst"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied and no input paths.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.Analysis.ExternalTypes) == 0 {
		cfg.Analysis.ExternalTypes = []string{
			"java.*", "javax.*", "jakarta.*", "kotlin.*", "scala.*",
			"sun.*", "com.sun.*", "jdk.*",
		}
	}
	if cfg.Analysis.PoolSize <= 0 {
		cfg.Analysis.PoolSize = runtime.GOMAXPROCS(0)
	}
	if cfg.Analysis.FlowMaxDepth <= 0 {
		cfg.Analysis.FlowMaxDepth = 8
	}
	if cfg.Analysis.FlowMaxEdges <= 0 {
		cfg.Analysis.FlowMaxEdges = 25
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RatePerSec <= 0 {
		cfg.Watch.RatePerSec = 1
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 2
	}
}
