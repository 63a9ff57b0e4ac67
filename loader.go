package layerenv

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Azhovan/layerenv/internal/normalize"
	"github.com/Azhovan/layerenv/sourcefile"
)

const (
	// DefaultEnvIDVariable holds the environment id unless the resolver or
	// WithEnvIDVariable names another variable.
	DefaultEnvIDVariable = "ENV_ID"

	// DefaultPrimaryFile is a pre-built dotenv file that replaces layered
	// resolution when preferred.
	DefaultPrimaryFile = ".env"

	// DefaultLocalFile is appended after all app layers to override them.
	DefaultLocalFile = ".env.local"

	// FileExtension is appended to every stem prefix when looking up layers.
	FileExtension = ".env"

	appStem  = "app"
	siteStem = "site"
)

// Loader assembles layered dotenv text from files in a base directory.
// A Loader is not safe for concurrent use while Boot populates its Env.
type Loader struct {
	baseDir     string
	resolver    Resolver
	env         Env
	envIDVar    string
	primaryFile string
	localFile   string
	logger      *zap.Logger
}

// NewLoader creates a Loader reading layers from baseDir.
// The environment id variable is taken from the resolver when it implements
// EnvIDNamer, else DefaultEnvIDVariable. The Env starts empty; see WithEnv.
func NewLoader(baseDir string, resolver Resolver) *Loader {
	envIDVar := DefaultEnvIDVariable
	if namer, ok := resolver.(EnvIDNamer); ok && namer.EnvIDVariable() != "" {
		envIDVar = namer.EnvIDVariable()
	}

	return &Loader{
		baseDir:     baseDir,
		resolver:    resolver,
		env:         Env{},
		envIDVar:    envIDVar,
		primaryFile: DefaultPrimaryFile,
		localFile:   DefaultLocalFile,
		logger:      zap.NewNop(),
	}
}

// WithEnv sets the environment table the resolver reads and Boot populates.
func (l *Loader) WithEnv(env Env) *Loader {
	if env == nil {
		env = Env{}
	}
	l.env = env
	return l
}

// WithEnvIDVariable overrides the name of the environment id variable.
func (l *Loader) WithEnvIDVariable(name string) *Loader {
	if name != "" {
		l.envIDVar = name
	}
	return l
}

// WithPrimaryFile sets the pre-built dotenv file. Relative paths are resolved
// against the base directory. An empty path disables it.
func (l *Loader) WithPrimaryFile(path string) *Loader {
	l.primaryFile = path
	return l
}

// WithLocalFile sets the local override file. Relative paths are resolved
// against the base directory. An empty path disables it.
func (l *Loader) WithLocalFile(path string) *Loader {
	l.localFile = path
	return l
}

// WithLogger sets the logger. Default: no-op.
func (l *Loader) WithLogger(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
	return l
}

// Env returns the loader's environment table.
func (l *Loader) Env() Env {
	return l.env
}

// EnvIDVariable returns the name of the environment id variable in use.
func (l *Loader) EnvIDVariable() string {
	return l.envIDVar
}

// DotenvFiles returns the layers found for a filename stem.
//
// For every prefix of the stem's segments, shortest first, the file
// "<prefix>.env" is looked up in the base directory. For "app--server--hoster.prod":
//   - app.env
//   - app--server.env
//   - app--server--hoster.env
//   - app--server--hoster--prod.env
//
// Missing files are skipped; no files at all yields an empty slice.
func (l *Loader) DotenvFiles(stem string) ([]Layer, error) {
	var layers []Layer
	seen := make(map[string]bool)

	for _, prefix := range normalize.Prefixes(stem) {
		name := prefix + FileExtension
		path := filepath.Join(l.baseDir, name)
		if seen[path] {
			continue
		}
		seen[path] = true

		content, found, err := sourcefile.ReadText(path)
		if err != nil {
			return nil, err
		}
		if !found {
			l.logger.Debug("dotenv layer not found", zap.String("path", path))
			continue
		}

		l.logger.Debug("dotenv layer found", zap.String("path", path))
		layers = append(layers, Layer{Name: name, Path: path, Content: content})
	}

	return layers, nil
}

// AppEnvironment assembles the app-wide dotenv layers.
//
// With preferExisting set and the primary file present, its content is
// returned as the only layer. Otherwise the environment id is required (see
// SiteEnvironment for how it is read); the
// layers for "app--<env-id>" follow a generated "<VAR>=<env-id>" layer, and
// the local override file comes last when present.
func (l *Loader) AppEnvironment(preferExisting bool) (*Assembly, error) {
	if preferExisting && l.primaryFile != "" {
		path := l.resolvePath(l.primaryFile)
		content, found, err := sourcefile.ReadText(path)
		if err != nil {
			return nil, err
		}
		if found {
			l.logger.Debug("using existing dotenv file", zap.String("path", path))
			return &Assembly{Layers: []Layer{{Name: filepath.Base(path), Path: path, Content: content}}}, nil
		}
	}

	envID := l.envID()
	if envID == "" {
		return nil, &MissingEnvironmentError{Variable: l.envIDVar}
	}

	files, err := l.DotenvFiles(appStem + normalize.StemSeparator + envID)
	if err != nil {
		return nil, fmt.Errorf("app layers: %w", err)
	}

	layers := make([]Layer, 0, len(files)+2)
	layers = append(layers, Layer{Name: "env-id", Content: l.envIDVar + "=" + envID})
	layers = append(layers, files...)

	if l.localFile != "" {
		localPath := l.resolvePath(l.localFile)
		content, found, err := sourcefile.ReadText(localPath)
		if err != nil {
			return nil, err
		}
		if found {
			layers = append(layers, Layer{Name: filepath.Base(localPath), Path: localPath, Content: content})
		}
	}

	l.logger.Debug("assembled app environment",
		zap.String("env_id", envID),
		zap.Int("layers", len(layers)))

	return &Assembly{Layers: layers}, nil
}

// SiteEnvironment assembles the dotenv layers of a site.
//
// An empty site selects the resolver's active site. The environment id is read
// from the environment id variable, falling back to the resolver. The site's
// default environment is placed before the "site--<site>--<env-id>" layers.
func (l *Loader) SiteEnvironment(site string) (*Assembly, error) {
	if site == "" {
		site = l.resolver.DetermineActiveSite(l.env)
	}

	envID := l.envID()

	stem := siteStem + normalize.StemSeparator + site + normalize.StemSeparator + envID
	files, err := l.DotenvFiles(stem)
	if err != nil {
		return nil, fmt.Errorf("site layers: %w", err)
	}

	layers := make([]Layer, 0, len(files)+1)
	layers = append(layers, Layer{Name: "site-defaults", Content: l.resolver.DefaultEnvironment(site, l.env)})
	layers = append(layers, files...)

	l.logger.Debug("assembled site environment",
		zap.String("site", site),
		zap.String("env_id", envID),
		zap.Int("layers", len(layers)))

	return &Assembly{Layers: layers}, nil
}

// envID reads the environment id variable, falling back to the resolver.
func (l *Loader) envID() string {
	if id := l.env.Get(l.envIDVar); id != "" {
		return id
	}
	return l.resolver.DetermineEnvironment(l.env)
}

func (l *Loader) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.baseDir, path)
}
