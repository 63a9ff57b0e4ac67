package layerenv

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Redacted replaces the value of redacted variables in dumps.
const Redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withSources bool     // Include layer attribution for each variable
	asJSON      bool     // Output as JSON instead of dotenv lines
	indent      string   // Indentation for JSON output (default: "  ")
	redact      []string // Upper-cased key markers whose values are hidden
}

// WithSources includes the layer each variable came from.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs variables as JSON instead of dotenv lines.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  "); "" produces compact JSON.
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithRedaction hides the value of every variable whose name contains one of
// markers, compared case-insensitively (e.g. "PASSWORD", "SECRET").
func WithRedaction(markers ...string) DumpOption {
	return func(cfg *dumpConfig) {
		for _, m := range markers {
			if m = strings.TrimSpace(m); m != "" {
				cfg.redact = append(cfg.redact, strings.ToUpper(m))
			}
		}
	}
}

// Dump writes a resolved variable set sorted by name, either as dotenv lines
// (KEY="VALUE", escaped so that parsing the output yields the same values) or
// as JSON.
func Dump(w io.Writer, resolved *Resolved, opts ...DumpOption) error {
	if resolved == nil {
		return fmt.Errorf("resolved set is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, resolved, config)
	}
	return dumpAsDotenv(w, resolved, config)
}

// dumpAsDotenv outputs one KEY="VALUE" line per variable, preceded by a
// "# source" comment whenever the layer changes.
func dumpAsDotenv(w io.Writer, resolved *Resolved, config dumpConfig) error {
	var b strings.Builder
	lastSource := ""

	for _, key := range resolved.Keys() {
		if config.withSources {
			if source := sourceName(resolved, key); source != lastSource {
				fmt.Fprintf(&b, "# source: %s\n", source)
				lastSource = source
			}
		}

		fmt.Fprintf(&b, "%s=%s\n", key, quoteValue(displayValue(key, resolved.Vars[key], config)))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// jsonDump is the JSON document written with WithSources.
type jsonDump struct {
	Vars    map[string]string `json:"vars"`
	Sources map[string]string `json:"sources"`
}

// dumpAsJSON outputs variables as a JSON object, or as a jsonDump with sources.
func dumpAsJSON(w io.Writer, resolved *Resolved, config dumpConfig) error {
	vars := make(map[string]string, len(resolved.Vars))
	for key, value := range resolved.Vars {
		vars[key] = displayValue(key, value, config)
	}

	var result any = vars
	if config.withSources {
		sources := make(map[string]string, len(vars))
		for key := range vars {
			sources[key] = sourceName(resolved, key)
		}
		result = jsonDump{Vars: vars, Sources: sources}
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func displayValue(key, value string, config dumpConfig) string {
	upper := strings.ToUpper(key)
	for _, marker := range config.redact {
		if strings.Contains(upper, marker) {
			return Redacted
		}
	}
	return value
}

// sourceName returns the layer path, or its name for generated layers.
func sourceName(resolved *Resolved, key string) string {
	prov, ok := resolved.Source(key)
	if !ok {
		return ""
	}
	if prov.Path != "" {
		return prov.Path
	}
	return prov.Layer
}
