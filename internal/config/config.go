// Package config manages minigit configuration and the .minigit directory structure.
// It handles loading, saving, and initializing the repository configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eyue1777/minigit/internal/objects"
	"github.com/eyue1777/minigit/internal/refs"
	"github.com/pelletier/go-toml/v2"
)

const (
	RepoDir      = ".minigit"
	ConfigFile   = "config"
	DatabaseFile = "minigit.db"
	ObjectsDir   = "objects"
	StagingFile  = "staging"
	IgnoreFile   = ".minigitignore"
)

// Storage backends.
const (
	BackendFiles = "files"
	BackendBolt  = "bolt"
)

// ErrNotRepository is returned when no .minigit directory is found.
var ErrNotRepository = errors.New("not a minigit repository (or any parent up to root)")

// Config represents the minigit configuration
type Config struct {
	Core     CoreConfig     `koanf:"core" toml:"core"`
	Storage  StorageConfig  `koanf:"storage" toml:"storage"`
	Worktree WorktreeConfig `koanf:"worktree" toml:"worktree"`
	Log      LogConfig      `koanf:"log" toml:"log"`

	root string // working tree root; the repository lives in root/.minigit
}

type CoreConfig struct {
	DefaultBranch string `koanf:"default_branch" toml:"default_branch"`
	Hash          string `koanf:"hash" toml:"hash"`
}

type StorageConfig struct {
	Backend   string `koanf:"backend" toml:"backend"`
	CacheSize int    `koanf:"cache_size" toml:"cache_size"`
}

type WorktreeConfig struct {
	Ignore []string `koanf:"ignore" toml:"ignore"`
}

type LogConfig struct {
	Level string `koanf:"level" toml:"level,omitempty"`
}

// Default returns the configuration used for new repositories.
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			DefaultBranch: "main",
			Hash:          objects.DefaultHash,
		},
		Storage: StorageConfig{
			Backend:   BackendFiles,
			CacheSize: objects.DefaultCacheSize,
		},
		Worktree: WorktreeConfig{Ignore: []string{}},
	}
}

// ForRoot returns the default configuration for the working tree at root
// without touching the filesystem.
func ForRoot(root string) *Config {
	cfg := Default()
	cfg.root = root
	return cfg
}

// FindRoot finds the working tree root by walking up from start until a
// directory containing .minigit is found.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, RepoDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotRepository
		}
		dir = parent
	}
}

// Validate checks that the configuration can be used to open a repository.
func (c *Config) Validate() error {
	if err := refs.ValidateBranchName(c.Core.DefaultBranch); err != nil {
		return fmt.Errorf("core.default_branch: %w", err)
	}
	if _, err := objects.NewHasher(c.Core.Hash); err != nil {
		return fmt.Errorf("core.hash: %w", err)
	}
	switch c.Storage.Backend {
	case BackendFiles, BackendBolt:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want %q or %q)", c.Storage.Backend, BackendFiles, BackendBolt)
	}
	if c.Storage.CacheSize < 0 {
		return fmt.Errorf("storage.cache_size: must not be negative, got %d", c.Storage.CacheSize)
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(c.ConfigPath(), data, 0644)
}

// Root returns the working tree root
func (c *Config) Root() string {
	return c.root
}

// RepoPath returns the path to the .minigit directory
func (c *Config) RepoPath() string {
	return filepath.Join(c.root, RepoDir)
}

// ConfigPath returns the path to the config file
func (c *Config) ConfigPath() string {
	return filepath.Join(c.RepoPath(), ConfigFile)
}

// DatabasePath returns the path to the bbolt database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.RepoPath(), DatabaseFile)
}

// ObjectsPath returns the path to the object directory
func (c *Config) ObjectsPath() string {
	return filepath.Join(c.RepoPath(), ObjectsDir)
}

// StagingPath returns the path to the staging list
func (c *Config) StagingPath() string {
	return filepath.Join(c.RepoPath(), StagingFile)
}

// IgnoreFilePath returns the path to the optional ignore file in the working tree
func (c *Config) IgnoreFilePath() string {
	return filepath.Join(c.root, IgnoreFile)
}

// Initialize creates a new .minigit directory under root and writes cfg
// (or the defaults when cfg is nil) as its configuration.
func Initialize(root string, cfg *Config) (*Config, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}
	cfg.root = root
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repoPath := cfg.RepoPath()

	// Check if already initialized
	if _, err := os.Stat(repoPath); err == nil {
		return nil, fmt.Errorf("minigit repository already exists in %s", root)
	}

	if err := os.MkdirAll(cfg.ObjectsPath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", RepoDir, err)
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(repoPath)
		return nil, err
	}

	return cfg, nil
}
