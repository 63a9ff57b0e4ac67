package layerenv

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Azhovan/layerenv/sourceenv"
)

// Command names accepted in CLI mode.
const (
	CommandApp  = "app"
	CommandSite = "site"
)

// Command is a parsed CLI invocation.
type Command struct {
	Name string // CommandApp or CommandSite

	// PreferExisting makes "app" return the primary file when present.
	PreferExisting bool

	// Site selects the site for "site"; empty selects the active site.
	Site string
}

// Assemble builds the assembly requested by cmd. Unknown commands return ErrUsage.
func (l *Loader) Assemble(cmd Command) (*Assembly, error) {
	switch cmd.Name {
	case CommandApp:
		return l.AppEnvironment(cmd.PreferExisting)
	case CommandSite:
		return l.SiteEnvironment(cmd.Site)
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrUsage, cmd.Name)
	}
}

// RunCLI writes the assembled dotenv text for cmd to w.
func (l *Loader) RunCLI(w io.Writer, cmd Command) error {
	assembly, err := l.Assemble(cmd)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, assembly.String()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// Boot populates the loader's Env with the app environment and, when matcher
// is not nil, with the environment of the site it matches. Variables already
// present before booting are kept; the site pass overrides the app pass.
func (l *Loader) Boot(ctx context.Context, matcher SiteMatcher) (Env, error) {
	app, err := l.AppEnvironment(true)
	if err != nil {
		return nil, err
	}
	if err := l.populate(app); err != nil {
		return nil, fmt.Errorf("populate app environment: %w", err)
	}

	if matcher == nil {
		return l.env, nil
	}

	site, err := matcher.Match(ctx)
	if err != nil {
		return nil, fmt.Errorf("match site: %w", err)
	}
	l.logger.Debug("matched site", zap.String("site", site))

	siteAssembly, err := l.SiteEnvironment(site)
	if err != nil {
		return nil, err
	}
	if err := l.populate(siteAssembly); err != nil {
		return nil, fmt.Errorf("populate site environment: %w", err)
	}

	return l.env, nil
}

func (l *Loader) populate(assembly *Assembly) error {
	resolved, err := assembly.Resolve(l.env)
	if err != nil {
		return err
	}
	l.env = Populate(l.env, resolved.Vars, false)
	l.logger.Debug("populated environment",
		zap.Int("vars", len(resolved.Vars)),
		zap.Strings("files", assembly.Files()))
	return nil
}

// Bootstrap boots the loader against a snapshot of the process environment
// and writes every populated variable back to the process environment.
func Bootstrap(ctx context.Context, l *Loader, matcher SiteMatcher) error {
	env, err := l.WithEnv(Env(sourceenv.Environ())).Boot(ctx, matcher)
	if err != nil {
		return err
	}

	populated := make(map[string]string)
	for _, key := range LoadedKeys(env) {
		populated[key] = env[key]
	}
	if list, ok := env.Lookup(DotenvVarsKey); ok {
		populated[DotenvVarsKey] = list
	}

	return sourceenv.Apply(populated)
}
