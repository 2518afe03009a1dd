// Package secrets resolves secret values from configuration or files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from. File takes precedence over
// Value when both are set.
type Source struct {
	// Name gives error messages context about which secret failed.
	Name string
	// Value is an inline secret provided via configuration or flags.
	Value string
	// File points to a file holding the secret value.
	File string
}

// Load returns the resolved secret, always trimmed. An error names the
// secret when neither File nor Value yield a usable value.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
