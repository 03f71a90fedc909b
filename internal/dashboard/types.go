package dashboard

import (
	"context"
	"time"

	"github.com/waldronlab/curation-dashboard/internal/classify"
	"github.com/waldronlab/curation-dashboard/internal/logger"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

const (
	DefaultRepoOwner   = "waldronlab"
	DefaultRepoName    = "curatedMetagenomicDataCuration"
	DefaultSchemaOwner = "shbrief"
	DefaultSchemaRepo  = "OmicsMLRepoCuration"
	DefaultTitle       = "curatedMetagenomicData Validation Dashboard"
)

// Options control the parts of the page that do not come from the report.
type Options struct {
	Title       string
	RepoOwner   string
	RepoName    string
	SchemaOwner string
	SchemaRepo  string
	Location    *time.Location
}

func DefaultOptions() Options {
	return Options{
		Title:       DefaultTitle,
		RepoOwner:   DefaultRepoOwner,
		RepoName:    DefaultRepoName,
		SchemaOwner: DefaultSchemaOwner,
		SchemaRepo:  DefaultSchemaRepo,
		Location:    time.UTC,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.RepoOwner == "" {
		o.RepoOwner = d.RepoOwner
	}
	if o.RepoName == "" {
		o.RepoName = d.RepoName
	}
	if o.SchemaOwner == "" {
		o.SchemaOwner = d.SchemaOwner
	}
	if o.SchemaRepo == "" {
		o.SchemaRepo = d.SchemaRepo
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	return o
}

// Publisher uploads written artifacts and returns where they landed.
type Publisher interface {
	Publish(ctx context.Context, paths []string) ([]string, error)
}

// Fetcher loads the report document.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (validation.Document, error)
}

type Config struct {
	Source        string
	FetchTimeout  time.Duration
	OutHTMLPath   string
	OutJSONPath   string
	ChecksumsPath string
	RunLogPath    string
	Tab           string
	Sorts         []string
	Options       Options
	InvocationID  string

	Fetcher   Fetcher
	Publisher Publisher
	Logger    *logger.Logger
}

type Result struct {
	Status        validation.Status
	SourceSHA256  string
	Studies       int
	HTMLPath      string
	JSONPath      string
	ChecksumsPath string
	RunLogPath    string
	Published     []string
}

// Summary is the machine-readable companion written next to the page.
type Summary struct {
	Status         validation.Status  `json:"status"`
	Source         string             `json:"source"`
	SourceSHA256   string             `json:"source_sha256"`
	Counts         validation.Summary `json:"summary"`
	CategoryTotals map[string]int     `json:"category_totals"`
	Studies        []classify.Row     `json:"studies"`
}
