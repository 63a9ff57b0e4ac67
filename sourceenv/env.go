package sourceenv

import (
	"fmt"
	"os"
	"strings"
)

// Options configures how an environment table is filtered.
type Options struct {
	// Prefix filters vars starting with prefix (stripped from the returned key).
	// Empty = keep all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	CaseSensitive bool
}

// Environ returns the current process environment as a map.
// Entries without "=" are skipped.
func Environ() map[string]string {
	environ := os.Environ()
	result := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// Filter selects the entries of env whose key carries opts.Prefix and strips
// the prefix. env is not modified.
func Filter(env map[string]string, opts Options) map[string]string {
	result := make(map[string]string)

	for key, value := range env {
		if opts.Prefix != "" {
			var hasPrefix bool
			if opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(opts.Prefix):]
		}

		if key == "" {
			continue
		}

		result[key] = value
	}

	return result
}

// Apply writes vars into the process environment.
// This is the only place in the module that mutates the process environment.
func Apply(vars map[string]string) error {
	for key, value := range vars {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
