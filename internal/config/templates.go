package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Crypto Journal Configuration

[storage]
# SQLite database file (default: journal.db next to this file)
# path = ""

[trading]
# Upper bound for the leverage input
max_leverage = 150.0
# Leverage pre-filled when logging a trade
default_leverage = 20.0
# Risk percent pre-filled in the position size calculator
default_risk_percent = 1.0

[feedback]
# LLM model used for AI trade feedback
model = "gpt-4o-mini"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02 15:04"
`

const credentialsTemplate = `# Crypto Journal Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	// First run continues on built-in defaults.
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
