package config

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// yamlDocument mirrors Config with durations as strings, the same shape
// Load accepts.
type yamlDocument struct {
	Council struct {
		Models   []string `yaml:"models"`
		Chairman string   `yaml:"chairman"`
	} `yaml:"council"`
	Agent struct {
		Binary     string `yaml:"binary"`
		ScratchDir string `yaml:"scratch_dir"`
	} `yaml:"agent"`
	Timeouts struct {
		Model    string `yaml:"model"`
		Chairman string `yaml:"chairman"`
		Status   string `yaml:"status"`
	} `yaml:"timeouts"`
	Display struct {
		PreviewChars       int  `yaml:"preview_chars"`
		ReviewPreviewChars int  `yaml:"review_preview_chars"`
		Color              bool `yaml:"color"`
	} `yaml:"display"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

// ToYAML renders the effective configuration as a config file.
func ToYAML(cfg *Config) (string, error) {
	var doc yamlDocument
	doc.Council.Models = cfg.Council.Models
	doc.Council.Chairman = cfg.Council.Chairman
	doc.Agent.Binary = cfg.Agent.Binary
	doc.Agent.ScratchDir = cfg.Agent.ScratchDir
	doc.Timeouts.Model = cfg.Timeouts.Model.String()
	doc.Timeouts.Chairman = cfg.Timeouts.Chairman.String()
	doc.Timeouts.Status = cfg.Timeouts.Status.String()
	doc.Display.PreviewChars = cfg.Display.PreviewChars
	doc.Display.ReviewPreviewChars = cfg.Display.ReviewPreviewChars
	doc.Display.Color = cfg.Display.Color
	doc.Log.Level = cfg.Log.Level
	doc.Log.Format = cfg.Log.Format
	doc.Log.File = cfg.Log.File

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}
