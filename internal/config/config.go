// Package config loads optional tool configuration from a YAML file.
//
// Everything has a sensible default; a missing config file is not an
// error, but a malformed one is fatal so a typo never silently reverts
// thresholds to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/phpsweep/internal/analyzer"
)

// DefaultFileName is looked up in the project directory when no explicit
// config path is given.
const DefaultFileName = ".phpsweep.yaml"

// ErrConfigInvalid indicates the config file exists but cannot be parsed.
var ErrConfigInvalid = errors.New("config file invalid")

// Config holds tool settings.
type Config struct {
	// BackupRoot is where per-run backup directories are created.
	// Defaults to ~/.phpsweep/backups.
	BackupRoot string `yaml:"backup_root"`

	// Complexity tiers for the complexity analyzer.
	Complexity analyzer.Thresholds `yaml:"complexity"`

	// SimilarityThreshold is the minimum directory-name Jaccard
	// similarity the structure analyzer flags.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// VendorDirs are directory names the vendor analyzer treats as
	// third-party roots.
	VendorDirs []string `yaml:"vendor_dirs"`
}

// Default returns the stock configuration.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return &Config{
		BackupRoot:          filepath.Join(home, ".phpsweep", "backups"),
		Complexity:          analyzer.DefaultThresholds(),
		SimilarityThreshold: analyzer.DefaultSimilarityThreshold,
		VendorDirs:          append([]string(nil), analyzer.DefaultVendorDirs...),
	}, nil
}

// Load reads configuration from path, filling unset fields with
// defaults. An empty path means DefaultFileName inside projectDir, and
// in that case a missing file yields the defaults. An explicitly named
// file must exist.
func Load(path, projectDir string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, path, err)
	}

	if file.BackupRoot != "" {
		cfg.BackupRoot = file.BackupRoot
	}
	if file.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = file.SimilarityThreshold
	}
	if len(file.VendorDirs) > 0 {
		cfg.VendorDirs = file.VendorDirs
	}
	cfg.Complexity = mergeThresholds(cfg.Complexity, file.Complexity)

	return cfg, nil
}

// mergeThresholds overlays non-zero fields from override onto base.
func mergeThresholds(base, override analyzer.Thresholds) analyzer.Thresholds {
	if override.CriticalDepth > 0 {
		base.CriticalDepth = override.CriticalDepth
	}
	if override.CriticalBranches > 0 {
		base.CriticalBranches = override.CriticalBranches
	}
	if override.HighDepth > 0 {
		base.HighDepth = override.HighDepth
	}
	if override.HighBranches > 0 {
		base.HighBranches = override.HighBranches
	}
	if override.ModerateDepth > 0 {
		base.ModerateDepth = override.ModerateDepth
	}
	if override.ModerateBranches > 0 {
		base.ModerateBranches = override.ModerateBranches
	}
	return base
}
