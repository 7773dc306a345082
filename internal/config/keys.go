package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Keys lists every settable key in display order.
var Keys = []string{
	"council.models",
	"council.chairman",
	"agent.binary",
	"agent.scratch_dir",
	"timeouts.model",
	"timeouts.chairman",
	"timeouts.status",
	"display.preview_chars",
	"display.review_preview_chars",
	"display.color",
	"log.level",
	"log.format",
	"log.file",
}

// IsKey reports whether key names a configuration value, ignoring case.
func IsKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// GetValue returns a configuration value by dot-notation key.
// council.models is rendered comma-separated.
func GetValue(cfg *Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "council.models":
		return strings.Join(cfg.Council.Models, ","), nil
	case "council.chairman":
		return cfg.Council.Chairman, nil
	case "agent.binary":
		return cfg.Agent.Binary, nil
	case "agent.scratch_dir":
		return cfg.Agent.ScratchDir, nil
	case "timeouts.model":
		return cfg.Timeouts.Model.String(), nil
	case "timeouts.chairman":
		return cfg.Timeouts.Chairman.String(), nil
	case "timeouts.status":
		return cfg.Timeouts.Status.String(), nil
	case "display.preview_chars":
		return strconv.Itoa(cfg.Display.PreviewChars), nil
	case "display.review_preview_chars":
		return strconv.Itoa(cfg.Display.ReviewPreviewChars), nil
	case "display.color":
		return strconv.FormatBool(cfg.Display.Color), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	case "log.file":
		return cfg.Log.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// SetValue sets a configuration value by dot-notation key.
// council.models takes a comma-separated list.
func SetValue(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "council.models":
		cfg.Council.Models = splitList(value)
	case "council.chairman":
		cfg.Council.Chairman = strings.TrimSpace(value)
	case "agent.binary":
		cfg.Agent.Binary = value
	case "agent.scratch_dir":
		cfg.Agent.ScratchDir = value
	case "timeouts.model":
		return setDuration(&cfg.Timeouts.Model, key, value)
	case "timeouts.chairman":
		return setDuration(&cfg.Timeouts.Chairman, key, value)
	case "timeouts.status":
		return setDuration(&cfg.Timeouts.Status, key, value)
	case "display.preview_chars":
		return setInt(&cfg.Display.PreviewChars, key, value)
	case "display.review_preview_chars":
		return setInt(&cfg.Display.ReviewPreviewChars, key, value)
	case "display.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		cfg.Display.Color = b
	case "log.level":
		cfg.Log.Level = strings.ToLower(value)
	case "log.format":
		cfg.Log.Format = strings.ToLower(value)
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
