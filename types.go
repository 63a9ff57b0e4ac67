package layerenv

import (
	"context"
	"strings"
)

// Env is an environment table mapping variable names to values.
// Loaders read from and populate an Env instead of the process environment;
// see Bootstrap for the single place where the process environment is written.
type Env map[string]string

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	return e[key]
}

// Lookup returns the value of key and whether it is set.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Clone returns a shallow copy of e. A nil Env clones to an empty one.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Resolver supplies the project-specific parts of environment loading.
type Resolver interface {
	// DetermineEnvironment returns the id of the active environment (e.g. "prod"),
	// or "" when it cannot be determined.
	DetermineEnvironment(env Env) string

	// DetermineActiveSite returns the name of the active site.
	DetermineActiveSite(env Env) string

	// DefaultEnvironment returns dotenv text with default variables for site.
	// It is placed before all site*.env layers so they can refer to its variables.
	DefaultEnvironment(site string, env Env) string
}

// EnvIDNamer is implemented by resolvers that store the environment id in a
// variable other than DefaultEnvIDVariable.
type EnvIDNamer interface {
	EnvIDVariable() string
}

// SiteMatcher determines the active site while serving, e.g. by matching the
// incoming request's host.
type SiteMatcher interface {
	Match(ctx context.Context) (string, error)
}

// SiteMatcherFunc is a function adapter for SiteMatcher.
type SiteMatcherFunc func(ctx context.Context) (string, error)

// Match calls f(ctx).
func (f SiteMatcherFunc) Match(ctx context.Context) (string, error) {
	return f(ctx)
}

// Mode selects how the loader was invoked.
type Mode int

const (
	// ModeBoot is used when the loader runs while the application boots and
	// populates the environment directly.
	ModeBoot Mode = iota

	// ModeCLI is used when the loader is invoked from the command line and
	// prints assembled dotenv text.
	ModeCLI
)

// String returns "boot", "cli" or "unknown".
func (m Mode) String() string {
	switch m {
	case ModeBoot:
		return "boot"
	case ModeCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// Layer is one block of dotenv text in an assembly.
type Layer struct {
	Name    string // File name, or a label for generated layers (e.g. "env-id")
	Path    string // Resolved path; empty for generated layers
	Content string
}

// Assembly is an ordered list of layers. Later layers win on key collision.
type Assembly struct {
	Layers []Layer
}

// String concatenates all layer contents separated by newlines.
func (a *Assembly) String() string {
	contents := make([]string, len(a.Layers))
	for i, layer := range a.Layers {
		contents[i] = layer.Content
	}
	return strings.Join(contents, "\n")
}

// Files returns the paths of all file-backed layers in order.
func (a *Assembly) Files() []string {
	var files []string
	for _, layer := range a.Layers {
		if layer.Path != "" {
			files = append(files, layer.Path)
		}
	}
	return files
}
