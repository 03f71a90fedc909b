package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

const DefaultFetchTimeout = 60 * time.Second

// Duration decodes "90s", "2m" or a bare number of seconds. "0" disables
// the fetch deadline.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty duration")
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return d, nil
}

type Repo struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

type Output struct {
	HTML      string `yaml:"html"`
	JSON      string `yaml:"json"`
	Checksums string `yaml:"checksums"`
	RunLog    string `yaml:"run_log"`
}

type Log struct {
	Mode string `yaml:"mode"`
}

type Publish struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type Config struct {
	Source       string   `yaml:"source"`
	FetchTimeout Duration `yaml:"fetch_timeout"`
	Timezone     string   `yaml:"timezone"`
	Repo         Repo     `yaml:"repo"`
	SchemaRepo   Repo     `yaml:"schema_repo"`
	Output       Output   `yaml:"output"`
	Log          Log      `yaml:"log"`
	Publish      Publish  `yaml:"publish"`

	// CI is filled from the environment, never from the file.
	CI CI `yaml:"-"`
}

func Default() Config {
	return Config{
		Source:       validation.DefaultSource,
		FetchTimeout: Duration(DefaultFetchTimeout),
		Timezone:     "UTC",
		Repo:         Repo{Owner: dashboard.DefaultRepoOwner, Name: dashboard.DefaultRepoName},
		SchemaRepo:   Repo{Owner: dashboard.DefaultSchemaOwner, Name: dashboard.DefaultSchemaRepo},
		Output:       Output{HTML: "index.html"},
		Log:          Log{Mode: "development"},
		Publish:      Publish{Region: "us-east-1", Prefix: "dashboard", UseSSL: true},
	}
}

// Load layers defaults, CI detection, the optional YAML file at path and
// CURATION_DASHBOARD_* overrides, in that order, then validates the result.
func Load(path string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Default()
	cfg.CI = DetectCI(lookup)
	if cfg.CI.Repository != "" {
		if owner, name, ok := strings.Cut(cfg.CI.Repository, "/"); ok && owner != "" && name != "" {
			cfg.Repo = Repo{Owner: owner, Name: name}
		}
	}

	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg, lookup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if errs := validateConfigYAML(&root); len(errs) > 0 {
		return &SchemaError{File: path, errors: errs}
	}
	if err := root.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Mode)) {
	case "", "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("log.mode must be development or production, got %q", c.Log.Mode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Publish.Enabled {
		if strings.TrimSpace(c.Publish.Endpoint) == "" {
			return errors.New("publish.endpoint is required when publish is enabled")
		}
		if strings.TrimSpace(c.Publish.Bucket) == "" {
			return errors.New("publish.bucket is required when publish is enabled")
		}
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (c Config) Timeout() time.Duration { return time.Duration(c.FetchTimeout) }

// DashboardOptions maps the page settings onto renderer options.
func (c Config) DashboardOptions() (dashboard.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return dashboard.Options{}, err
	}
	return dashboard.Options{
		RepoOwner:   c.Repo.Owner,
		RepoName:    c.Repo.Name,
		SchemaOwner: c.SchemaRepo.Owner,
		SchemaRepo:  c.SchemaRepo.Name,
		Location:    loc,
	}, nil
}
