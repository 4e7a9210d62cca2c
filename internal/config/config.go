package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/hpungsan/pintree/internal/bookmark"
)

// Defaults applied when neither config file sets a value.
const (
	DefaultSource              = "pintree.json"
	DefaultFetchTimeoutSeconds = 10
)

// Config holds application configuration.
type Config struct {
	// Source is the bookmark export to load: a local path or an http(s) URL.
	Source string `json:"source,omitempty"`

	// Mode selects the tree transform ("identity", "category-lift", "level-promote").
	Mode string `json:"mode,omitempty"`

	// WrapperTitles names the root folders category-lift unwraps.
	// Empty means every root folder is a wrapper.
	WrapperTitles []string `json:"wrapper_titles,omitempty"`

	// LinkPlacement is "inline" or "bucket".
	LinkPlacement string `json:"link_placement,omitempty"`

	// LooseLinksTitle names the synthetic folder that collects loose links.
	LooseLinksTitle string `json:"loose_links_title,omitempty"`

	// SortByDate orders every folder's children newest first.
	SortByDate bool `json:"sort_by_date,omitempty"`

	// FetchTimeoutSeconds bounds a remote fetch. 0 means the default.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`

	// Watch reloads automatically when a local source file changes.
	Watch bool `json:"watch,omitempty"`

	// AllowedPaths is an allowlist of directories for export operations.
	// Paths outside ~/.pintree/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export.
	// When true, any directory is allowed (but symlink and extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// Known types: "bookmark". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source:              DefaultSource,
		Mode:                string(bookmark.ModeLevelPromote),
		LinkPlacement:       string(bookmark.PlacementInline),
		LooseLinksTitle:     bookmark.DefaultLooseLinksTitle,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
	}
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source must not be empty")
	}
	if _, err := bookmark.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := bookmark.ParseLinkPlacement(c.LinkPlacement); err != nil {
		return err
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("fetch_timeout_seconds must not be negative, got %d", c.FetchTimeoutSeconds)
	}
	return nil
}

// TransformOptions converts the transform settings. Call Validate first;
// unparseable values fall back to the defaults.
func (c *Config) TransformOptions() bookmark.TransformOptions {
	mode, err := bookmark.ParseMode(c.Mode)
	if err != nil {
		mode = bookmark.ModeLevelPromote
	}
	placement, err := bookmark.ParseLinkPlacement(c.LinkPlacement)
	if err != nil {
		placement = bookmark.PlacementInline
	}
	return bookmark.TransformOptions{
		Mode:            mode,
		WrapperTitles:   c.WrapperTitles,
		LinkPlacement:   placement,
		LooseLinksTitle: c.LooseLinksTitle,
		SortByDate:      c.SortByDate,
	}
}

// FetchTimeout returns the remote fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return DefaultFetchTimeoutSeconds * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.pintree.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.pintree) and repo (.pintree) directories.
// Repo config is found by walking upward from startDir to find the nearest .pintree/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// A relative source in the repo config is resolved against the repo root.
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}
	if repoConfigPath != "" && repo.Source != "" && isLocalRelative(repo.Source) {
		repo.Source = filepath.Join(filepath.Dir(filepath.Dir(repoConfigPath)), repo.Source)
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

func isLocalRelative(source string) bool {
	if strings.Contains(source, "://") {
		return false
	}
	return !filepath.IsAbs(source)
}

// FindRepoConfig walks upward from startDir to find the nearest .pintree/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".pintree", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Source = firstNonEmpty(overlay.Source, base.Source)
	result.Mode = firstNonEmpty(overlay.Mode, base.Mode)
	result.LinkPlacement = firstNonEmpty(overlay.LinkPlacement, base.LinkPlacement)
	result.LooseLinksTitle = firstNonEmpty(overlay.LooseLinksTitle, base.LooseLinksTitle)

	result.FetchTimeoutSeconds = overlay.FetchTimeoutSeconds
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = base.FetchTimeoutSeconds
	}

	// Booleans: overlay wins if true, else base
	result.SortByDate = base.SortByDate || overlay.SortByDate
	result.Watch = base.Watch || overlay.Watch
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.WrapperTitles = mergeStringSlice(base.WrapperTitles, overlay.WrapperTitles)
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
