package layerenv

import (
	"sort"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
)

// VarProvenance describes which layer a resolved variable came from.
type VarProvenance struct {
	Key   string // Variable name
	Layer string // Name of the last layer defining the variable
	Path  string // Path of that layer; empty for generated layers
}

// Resolved is the variable set parsed from an assembly.
type Resolved struct {
	Vars       map[string]string
	provenance map[string]VarProvenance
}

// Resolve parses the assembly into a variable set.
//
// The concatenated text is parsed as a whole, so a layer may refer to variables
// of earlier layers. References may also name variables of env, which is
// rendered ahead of the layers for parsing only; the result holds just the
// keys the layers define. Each layer is also parsed on its own to record
// provenance; a layer that fails to parse is reported by name.
func (a *Assembly) Resolve(env Env) (*Resolved, error) {
	provenance := make(map[string]VarProvenance)
	for _, layer := range a.Layers {
		vars, err := godotenv.Unmarshal(layer.Content)
		if err != nil {
			return nil, &ParseError{Layer: layer.Name, Err: err}
		}
		for key := range vars {
			provenance[key] = VarProvenance{Key: key, Layer: layer.Name, Path: layer.Path}
		}
	}

	parsed, err := godotenv.Unmarshal(envBlock(env) + a.String())
	if err != nil {
		return nil, &ParseError{Layer: "assembly", Err: err}
	}

	vars := make(map[string]string, len(provenance))
	for key := range provenance {
		vars[key] = parsed[key]
	}

	return &Resolved{Vars: vars, provenance: provenance}, nil
}

// envBlock renders env as quoted dotenv lines. Names dotenv cannot express
// (e.g. "APP_SITE_DOMAIN--acme") and values ending in a backslash, which
// godotenv reads as an escaped closing quote, are left out.
func envBlock(env Env) string {
	keys := make([]string, 0, len(env))
	for key, value := range env {
		if validKey(key) && !strings.HasSuffix(value, `\`) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(quoteValue(env[key]))
		b.WriteByte('\n')
	}
	return b.String()
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// quoteValue double-quotes value so that godotenv reads it back unchanged.
func quoteValue(value string) string {
	return `"` + valueEscaper.Replace(value) + `"`
}

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
)

// Keys returns the variable names in sorted order.
func (r *Resolved) Keys() []string {
	keys := make([]string, 0, len(r.Vars))
	for key := range r.Vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Source returns the provenance of key.
func (r *Resolved) Source(key string) (VarProvenance, bool) {
	prov, ok := r.provenance[key]
	return prov, ok
}

// Provenance returns the provenance of every variable, sorted by name.
func (r *Resolved) Provenance() []VarProvenance {
	out := make([]VarProvenance, 0, len(r.Vars))
	for _, key := range r.Keys() {
		if prov, ok := r.provenance[key]; ok {
			out = append(out, prov)
		}
	}
	return out
}
