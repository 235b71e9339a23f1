// Package config loads texlog's configuration file: named lists of strings, the "skip" list
// being the set of substrings that suppress warnings.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/farcloser/texlog/internal/types"
)

// SkipSection names the list of warning substrings to suppress. Lines before any section
// header belong to it.
const SkipSection = "skip"

const defaultConfigPath = "~/.config/texlog/config"

// Config is the parsed configuration.
type Config struct {
	Lists        map[string][]string
	Color        string
	MaxPrintLine int
}

// Skip returns the warning suppression list.
func (c Config) Skip() types.SkipList {
	return types.SkipList(c.Lists[SkipSection])
}

// Load reads the configuration at path. An empty path selects the default location, which
// may be absent. A path ending in ".toml" is read as TOML.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved) //nolint:gosec // user configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Config{Lists: map[string][]string{}}, nil
		}

		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(resolved), ".toml") {
		return ParseTOML(data)
	}

	return Parse(strings.NewReader(string(data)))
}

// Parse reads the line format: "[name]" switches the active list, any other non-blank line is
// trimmed and appended to it. Lines starting with "#" are comments.
func Parse(r io.Reader) (Config, error) {
	cfg := Config{Lists: map[string][]string{}}
	section := SkipSection

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			section = strings.TrimSpace(line[1 : len(line)-1])

			continue
		}

		cfg.Lists[section] = append(cfg.Lists[section], line)
	}

	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ParseTOML reads the TOML form of the configuration.
func ParseTOML(data []byte) (Config, error) {
	var raw struct {
		Skip         []string            `toml:"skip"`
		Color        string              `toml:"color"`
		MaxPrintLine int                 `toml:"max_print_line"`
		Lists        map[string][]string `toml:"lists"`
	}

	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		Lists:        map[string][]string{},
		Color:        strings.TrimSpace(raw.Color),
		MaxPrintLine: raw.MaxPrintLine,
	}

	for name, list := range raw.Lists {
		cfg.Lists[name] = trimAll(list)
	}

	if len(raw.Skip) > 0 {
		cfg.Lists[SkipSection] = append(cfg.Lists[SkipSection], trimAll(raw.Skip)...)
	}

	return cfg, nil
}

func trimAll(list []string) []string {
	out := make([]string, 0, len(list))

	for _, entry := range list {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}

	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "texlog", "config"), nil
		}

		return expandPath(defaultConfigPath)
	}

	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}

		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}

	return filepath.Abs(trimmed)
}
