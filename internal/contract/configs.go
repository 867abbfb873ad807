package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/statscope/statscope/schema"
)

// Default configuration values.
const (
	DefaultRef         = "HEAD"
	DefaultResultLimit = 20
	DefaultStatsDir    = ".statscope"

	// maxWorkerFactor caps the auto-sized worker pool at 2x core count.
	maxWorkerFactor = 2
)

// Config holds the validated runtime configuration for a stats run.
type Config struct {
	RepoPath string // Absolute path to the repository
	Ref      string // Target reference for the run
	HeadID   string // Resolved commit id of Ref

	StatsDir    string // Output directory for report and cache sidecar
	Workers     int    // Fold worker count; 1 disables the parallel fold
	ResultLimit int    // Top-N cutoff for summaries and charts

	Output   schema.OutputMode // Console output format
	UseColor bool
	Width    int // Table width override; 0 means autodetect

	ProjectBackend   schema.DatabaseBackend // Project record store backend
	ProjectDBConnect string                 // Backend connection string; empty means backend default
}

// ConfigRawInput holds the raw, unvalidated configuration from all sources
// (file, env, flags). Viper unmarshals into this struct.
type ConfigRawInput struct {
	RepoPathStr      string `mapstructure:"-"`
	Ref              string `mapstructure:"ref"`
	StatsDir         string `mapstructure:"stats-dir"`
	Workers          int    `mapstructure:"workers"`
	Limit            int    `mapstructure:"limit"`
	Output           string `mapstructure:"output"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	ProjectBackend   string `mapstructure:"project-backend"`
	ProjectDBConnect string `mapstructure:"project-db-connect"`
}

// Clone returns a copy of the config for per-request overrides.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// RevalidateTarget re-resolves the repository path and target ref after a
// per-request override has changed them.
func RevalidateTarget(ctx context.Context, cfg *Config, client GitClient) error {
	repoPath, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return fmt.Errorf("invalid repository path %q: %w", cfg.RepoPath, err)
	}
	cfg.RepoPath = repoPath

	headID, err := client.ResolveCommit(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return fmt.Errorf("cannot resolve %q in %s: %w", cfg.Ref, cfg.RepoPath, err)
	}
	cfg.HeadID = headID
	cfg.StatsDir = filepath.Join(cfg.RepoPath, DefaultStatsDir)
	return nil
}

// ProcessAndValidate resolves the raw input into a validated Config. It
// verifies the repository by resolving the target ref up front, so every
// later failure is a real run failure rather than a bad-path failure.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	repoPath, err := filepath.Abs(input.RepoPathStr)
	if err != nil {
		return fmt.Errorf("invalid repository path %q: %w", input.RepoPathStr, err)
	}
	cfg.RepoPath = repoPath

	cfg.Ref = input.Ref
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}

	headID, err := client.ResolveCommit(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return fmt.Errorf("cannot resolve %q in %s: %w", cfg.Ref, cfg.RepoPath, err)
	}
	cfg.HeadID = headID

	cfg.StatsDir = input.StatsDir
	if cfg.StatsDir == "" {
		cfg.StatsDir = filepath.Join(cfg.RepoPath, DefaultStatsDir)
	} else if !filepath.IsAbs(cfg.StatsDir) {
		cfg.StatsDir = filepath.Join(cfg.RepoPath, cfg.StatsDir)
	}

	cfg.Workers = resolveWorkers(input.Workers)

	cfg.ResultLimit = input.Limit
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	}

	switch schema.OutputMode(input.Output) {
	case schema.TextOut, schema.JSONOut:
		cfg.Output = schema.OutputMode(input.Output)
	case "":
		cfg.Output = schema.TextOut
	default:
		return fmt.Errorf("invalid output mode %q. Must be text or json", input.Output)
	}

	useColor, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColor = useColor
	cfg.Width = input.Width

	switch schema.DatabaseBackend(input.ProjectBackend) {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		cfg.ProjectBackend = schema.DatabaseBackend(input.ProjectBackend)
	case "":
		cfg.ProjectBackend = schema.SQLiteBackend
	default:
		return fmt.Errorf("invalid project backend %q. Must be sqlite, mysql, postgresql, or none", input.ProjectBackend)
	}
	cfg.ProjectDBConnect = input.ProjectDBConnect

	return nil
}

// resolveWorkers clamps the requested worker count; zero or negative means
// auto-size from the core count.
func resolveWorkers(requested int) int {
	maxWorkers := runtime.GOMAXPROCS(0) * maxWorkerFactor
	if requested <= 0 {
		return maxWorkers
	}
	if requested > maxWorkers {
		return maxWorkers
	}
	return requested
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
