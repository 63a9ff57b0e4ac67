package sourcefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/layerenv/internal/normalize"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures settings file loading.
type Options struct {
	// Format: "yaml", "json", "toml" or "dotenv". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool
}

// Source reads a settings file and flattens it to dot-separated keys.
type Source struct {
	path string
	opts Options
}

// New creates a file-based settings source.
func New(path string, opts Options) *Source {
	return &Source{
		path: path,
		opts: opts,
	}
}

// Name returns a human-readable identifier for this source.
func (s *Source) Name() string {
	return "file:" + filepath.Base(s.path)
}

// Load reads and parses the file, returning flattened settings.
func (s *Source) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.opts.Required {
				return nil, fmt.Errorf("required settings file not found: %s: %w", s.path, err)
			}
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read settings file %s: %w", s.path, err)
	}

	format := s.opts.Format
	if format == "" {
		format = inferFormat(s.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", s.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", s.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", s.path, err)
		}
	case "dotenv", "env":
		vars, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse dotenv file %s: %w", s.path, err)
		}
		raw = make(map[string]any, len(vars))
		for key, value := range vars {
			raw[normalize.ToLowerDotPath(key)] = value
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml, dotenv)", format)
	}

	flattened := make(map[string]any)
	flatten("", raw, flattened)
	return flattened, nil
}

// flatten recursively flattens nested maps to dot-separated keys.
func flatten(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(joinKey(prefix, key), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flatten(joinKey(prefix, keyStr), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// ReadText returns the full text of the file at path.
// A missing file is not an error: found is false and content is empty.
func ReadText(path string) (content string, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read dotenv file %s: %w", path, err)
	}
	return string(data), true, nil
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".env":
		return "dotenv"
	default:
		return ""
	}
}
