// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ref-api-key, exa-api-key, jina-api-key, perplexity-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Names of the provider credentials every research run requires.
const (
	KeyRef        = "ref-api-key"
	KeyExa        = "exa-api-key"
	KeyJina       = "jina-api-key"
	KeyPerplexity = "perplexity-api-key"
)

// Required lists the credentials a research run cannot start without.
var Required = []string{KeyRef, KeyExa, KeyJina, KeyPerplexity}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Missing returns the names from keys that are absent or empty in loaded.
// Order follows keys so error messages are stable.
func Missing(loaded map[string]string, keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if loaded[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}
