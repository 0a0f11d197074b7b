package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Config struct {
	Layout       LayoutMode
	Effect       EffectKind
	Rate         float64
	LineCapacity int // 0 means estimate from terminal width
	MaxLines     int
	Color        string
	FPS          int
	DebugLog     string
}

func defaultConfig() *Config {
	return &Config{
		Layout:   LayoutSingle,
		Effect:   EffectGravity,
		Rate:     defaultDeletionRate,
		MaxLines: defaultMaxLines,
		FPS:      defaultFPS,
	}
}

func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		if loaded, err := loadConfigFrom(filepath.Join(homeDir, ".vanishrc")); err == nil {
			config = loaded
		}
	}
	if path := os.Getenv("VANISH_DEBUG"); path != "" && config.DebugLog == "" {
		config.DebugLog = path
	}
	return config
}

// loadConfigFrom reads key = value lines. Unknown keys and unparsable values
// are skipped so a bad line never costs the rest of the file.
func loadConfigFrom(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return config, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "layout", "layoutmode", "layout_mode", "mode":
			config.Layout = ParseLayoutMode(value)
		case "effect", "effectkind", "effect_kind":
			if kind, ok := ParseEffectKind(value); ok {
				config.Effect = kind
			}
		case "rate", "deletionrate", "deletion_rate", "speed":
			if rate, err := strconv.ParseFloat(value, 64); err == nil {
				config.Rate = normalizeRate(rate)
			}
		case "linecapacity", "line_capacity", "linecapacitychars", "chars_per_line":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.LineCapacity = n
			}
		case "maxlines", "max_lines":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.MaxLines = n
			}
		case "color", "colour":
			if _, err := colorful.Hex(value); err == nil {
				config.Color = value
			}
		case "fps":
			if n, err := strconv.Atoi(value); err == nil && n > 0 && n <= 240 {
				config.FPS = n
			}
		case "debuglog", "debug_log":
			if strings.HasPrefix(value, "~") {
				if homeDir, err := os.UserHomeDir(); err == nil {
					value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
				}
			}
			config.DebugLog = value
		}
	}

	return config, scanner.Err()
}
