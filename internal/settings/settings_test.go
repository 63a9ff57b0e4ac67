package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(context.Background(), "", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ".", s.BaseDir)
	assert.Empty(t, s.EnvIDVariable)
	assert.Equal(t, ".env", s.PrimaryFile)
	assert.Equal(t, ".env.local", s.LocalFile)
	assert.Equal(t, "auto", s.Format)
	assert.Empty(t, s.Redact)
	assert.Equal(t, "warn", s.LogLevel)

	assert.Equal(t, "default", s.Source("base_dir"))
	assert.Empty(t, s.Source("env_id_variable"))
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerenv.yaml")
	content := `
base_dir: /srv/app/dotenv
format: json
redact:
  - PASSWORD
  - SECRET
log:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	env := map[string]string{
		"LAYERENV_FORMAT":      "dotenv",
		"LAYERENV_LOG__LEVEL":  "debug",
		"LAYERENV_DOTENV_VARS": "A,B",
		"PHAPP_ENV":            "prod",
	}
	overrides := map[string]string{
		"log.level": "error",
	}

	s, err := Load(context.Background(), path, env, overrides)
	require.NoError(t, err)

	assert.Equal(t, "/srv/app/dotenv", s.BaseDir)
	assert.Equal(t, "file:layerenv.yaml", s.Source("base_dir"))

	assert.Equal(t, "dotenv", s.Format)
	assert.Equal(t, "env:LAYERENV_FORMAT", s.Source("format"))

	assert.Equal(t, "error", s.LogLevel)
	assert.Equal(t, "flag", s.Source("log.level"))

	assert.Equal(t, []string{"PASSWORD", "SECRET"}, s.Redact)
	assert.Equal(t, ".env", s.PrimaryFile)

	assert.Equal(t, []string{"base_dir", "format", "local_file", "log.level", "primary_file", "redact"}, s.Keys())
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerenv.toml")
	content := `
env_id_variable = "APP_ENV"
primary_file = "../.env"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(context.Background(), path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "APP_ENV", s.EnvIDVariable)
	assert.Equal(t, "../.env", s.PrimaryFile)
}

func TestLoad_UnknownFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_dri: dotenv\nformat: raw\n"), 0644))

	_, err := Load(context.Background(), path, nil, nil)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.FieldErrors, 1)
	assert.Equal(t, "base_dri", valErr.FieldErrors[0].FieldPath)
	assert.Equal(t, ErrCodeUnknownKey, valErr.FieldErrors[0].Code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load settings file")
}

func TestLoad_UnknownOverride(t *testing.T) {
	_, err := Load(context.Background(), "", nil, map[string]string{"bogus": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown settings override "bogus"`)
}

func TestLoad_ValidationErrors(t *testing.T) {
	env := map[string]string{
		"LAYERENV_FORMAT":     "xml",
		"LAYERENV_LOG__LEVEL": "trace",
	}

	_, err := Load(context.Background(), "", env, nil)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.FieldErrors, 2)

	codes := map[string]string{}
	for _, fe := range valErr.FieldErrors {
		codes[fe.FieldPath] = fe.Code
	}
	assert.Equal(t, ErrCodeOneOf, codes["format"])
	assert.Equal(t, ErrCodeOneOf, codes["log.level"])
}

func TestLoad_EmptyVariableIsUnset(t *testing.T) {
	s, err := Load(context.Background(), "", map[string]string{"LAYERENV_FORMAT": ""}, nil)
	require.NoError(t, err)
	assert.Equal(t, "auto", s.Format)
	assert.Equal(t, "default", s.Source("format"))
}

func TestValidationError_Error(t *testing.T) {
	single := &ValidationError{FieldErrors: []FieldError{
		{FieldPath: "format", Code: ErrCodeOneOf, Message: "\"xml\" is not one of auto, raw"},
	}}
	assert.Equal(t, "settings validation failed: 1 error\n  - format: oneof (\"xml\" is not one of auto, raw)", single.Error())

	multi := &ValidationError{FieldErrors: []FieldError{
		{FieldPath: "format", Code: ErrCodeOneOf, Message: "bad"},
		{FieldPath: "base_dri", Code: ErrCodeUnknownKey, Message: "unknown settings key"},
	}}
	assert.Equal(t, "settings validation failed: 2 errors\n  - format: oneof (bad)\n  - base_dri: unknown_key (unknown settings key)", multi.Error())

	assert.Equal(t, "settings validation failed: no errors", (&ValidationError{}).Error())
}

func TestLoad_EmptyOverrideDisablesFile(t *testing.T) {
	s, err := Load(context.Background(), "", nil, map[string]string{"local_file": ""})
	require.NoError(t, err)

	assert.Empty(t, s.LocalFile)
	assert.Equal(t, "flag", s.Source("local_file"))
	assert.Equal(t, ".env", s.PrimaryFile)
}
