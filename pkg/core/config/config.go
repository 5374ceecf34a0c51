// Package config loads the optional sub configuration file.
//
// The file is TOML:
//
//	# flag codes applied to every run, as if declared on a leading spec
//	flags = "v"
//	# keep line-editing history for the interactive prompts
//	history = true
//	history_file = "/home/me/.config/sub/history"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rcarmo/go-sub/pkg/core"
	"github.com/rcarmo/go-sub/pkg/subst"
)

// EnvVar overrides the configuration file location.
const EnvVar = "SUB_CONFIG"

// Config holds user preferences.
type Config struct {
	Flags       string `toml:"flags"`
	History     bool   `toml:"history"`
	HistoryFile string `toml:"history_file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{History: true}
	if dir, err := Dir(); err == nil {
		cfg.HistoryFile = filepath.Join(dir, "history")
	}
	return cfg
}

// Dir returns the directory holding sub's files.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sub"), nil
}

// Path returns $SUB_CONFIG, or config.toml inside Dir.
func Path() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error. The
// returned Config is always usable: a file that fails to decode yields the
// defaults, while unknown keys are reported with the known ones applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	if !cfg.History {
		cfg.HistoryFile = ""
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%s: unknown key%s: %s", path, core.Plural(len(keys)), strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDefault loads the file named by Path.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultFlags parses Flags. Only run-wide codes are honoured; every other
// character is returned as unknown.
func (c *Config) DefaultFlags() (subst.FlagSet, string) {
	var flags subst.FlagSet
	var unknown strings.Builder
	for _, r := range strings.TrimSpace(c.Flags) {
		f, rest := subst.ParseFlags(string(r))
		if rest != "" || f != f.Globals() || f.ExpandStar {
			unknown.WriteRune(r)
			continue
		}
		flags = subst.MergeGlobals(flags, f)
	}
	return flags, unknown.String()
}
