// Package cli implements the layerenv command line: it parses arguments with
// kingpin, loads tool settings and prints app or site environments.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Azhovan/layerenv"
	"github.com/Azhovan/layerenv/internal/logging"
	"github.com/Azhovan/layerenv/internal/settings"
	"github.com/Azhovan/layerenv/project"
)

// Output formats accepted by --format.
const (
	FormatAuto      = "auto"
	FormatRaw       = "raw"
	FormatDotenv    = "dotenv"
	FormatAnnotated = "annotated"
	FormatJSON      = "json"
)

var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run executes the command line args (without the program name) against env
// and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, env map[string]string) int {
	app := kingpin.New("layerenv", "Assembles layered dotenv files of the app and its sites.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	exitCode := -1
	app.Terminate(func(code int) {
		if exitCode < 0 {
			exitCode = code
		}
	})

	configFile := app.Flag("config", "Path to a YAML, JSON, TOML or dotenv settings file").Short('c').String()
	baseDir := app.Flag("base-dir", "Directory holding the dotenv files").String()
	envIDVar := app.Flag("env-id-var", "Variable holding the environment id").String()
	format := app.Flag("format", "Output format: auto, raw, dotenv, annotated or json").String()
	redact := app.Flag("redact", "Comma-separated key markers whose values are hidden (dotenv, annotated, json)").String()
	output := app.Flag("output", "Write the output atomically to this file instead of stdout").Short('o').String()
	logLevel := app.Flag("log-level", "Log level: debug, info, warn or error").String()

	var primarySet, localSet bool
	primaryFile := app.Flag("primary-file", "Pre-built dotenv file preferred by \"app\"; \"\" disables it").
		IsSetByUser(&primarySet).String()
	localFile := app.Flag("local-file", "Local override file appended to \"app\"; \"\" disables it").
		IsSetByUser(&localSet).String()

	appCmd := app.Command(layerenv.CommandApp, "Print the app environment.")
	preferArg := appCmd.Arg("prefer-existing", "Use an existing .env file; false skips it").Default("true").String()

	siteCmd := app.Command(layerenv.CommandSite, "Print the environment of a site.")
	siteArg := siteCmd.Arg("site", "Site name; defaults to the active site").String()

	if len(args) == 0 {
		app.Usage(nil)
		return 1
	}

	name, err := app.Parse(args)
	if exitCode >= 0 {
		// kingpin shows help when no command was given
		if exitCode == 0 && name == "" && !helpRequested(args) {
			return 1
		}
		return exitCode
	}
	if err != nil {
		app.Usage(nil)
		fmt.Fprintf(stderr, "layerenv: error: %v\n", err)
		return 1
	}

	overrides := make(map[string]string)
	for key, value := range map[string]string{
		"base_dir":        *baseDir,
		"env_id_variable": *envIDVar,
		"format":          *format,
		"redact":          *redact,
		"log.level":       *logLevel,
	} {
		if value != "" {
			overrides[key] = value
		}
	}
	if primarySet {
		overrides["primary_file"] = *primaryFile
	}
	if localSet {
		overrides["local_file"] = *localFile
	}

	s, err := settings.Load(ctx, *configFile, env, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "layerenv: %v\n", err)
		return 1
	}

	logger, err := logging.New(s.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "layerenv: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, key := range s.Keys() {
		logger.Debug("setting", zap.String("key", key), zap.String("source", s.Source(key)))
	}

	loader := layerenv.NewLoader(s.BaseDir, project.New(layerenv.ModeCLI)).
		WithEnv(layerenv.Env(env)).
		WithEnvIDVariable(s.EnvIDVariable).
		WithPrimaryFile(s.PrimaryFile).
		WithLocalFile(s.LocalFile).
		WithLogger(logger)

	cmd := layerenv.Command{Name: name}
	switch name {
	case layerenv.CommandApp:
		cmd.PreferExisting = PreferExisting(*preferArg)
	case layerenv.CommandSite:
		cmd.Site = *siteArg
	}

	var dest io.Writer = stdout
	var buf bytes.Buffer
	if *output != "" {
		dest = &buf
	}

	outFormat := s.Format
	if outFormat == FormatAuto {
		outFormat = FormatRaw
		if *output == "" && isTerminal(stdout) {
			outFormat = FormatAnnotated
		}
	}

	if err := render(dest, loader, cmd, outFormat, s.Redact); err != nil {
		var missing *layerenv.MissingEnvironmentError
		switch {
		case errors.As(err, &missing):
			fmt.Fprintln(stderr, missing.Error())
		case errors.Is(err, layerenv.ErrUsage):
			app.Usage(nil)
		default:
			logger.Error("failed to assemble environment", zap.String("command", name), zap.Error(err))
			fmt.Fprintf(stderr, "layerenv: %v\n", err)
		}
		return 1
	}

	if *output != "" {
		if err := layerenv.WriteSnapshot(*output, buf.String()); err != nil {
			fmt.Fprintf(stderr, "layerenv: write %s: %v\n", *output, err)
			return 1
		}
		logger.Info("wrote environment", zap.String("path", *output), zap.String("command", name))
	}

	return 0
}

// render writes cmd's environment to w in the given format.
func render(w io.Writer, loader *layerenv.Loader, cmd layerenv.Command, format string, redact []string) error {
	if format == FormatRaw {
		return loader.RunCLI(w, cmd)
	}

	assembly, err := loader.Assemble(cmd)
	if err != nil {
		return err
	}
	resolved, err := assembly.Resolve(loader.Env())
	if err != nil {
		return err
	}

	opts := []layerenv.DumpOption{layerenv.WithRedaction(redact...)}
	switch format {
	case FormatDotenv:
	case FormatAnnotated:
		opts = append(opts, layerenv.WithSources())
	case FormatJSON:
		opts = append(opts, layerenv.AsJSON(), layerenv.WithSources())
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return layerenv.Dump(w, resolved, opts...)
}

func helpRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "help" || strings.HasPrefix(arg, "--help") || strings.HasPrefix(arg, "--completion") {
			return true
		}
	}
	return false
}

// PreferExisting interprets the optional second argument of "app": "false",
// "0" and "" skip an existing .env file, anything else prefers it.
func PreferExisting(arg string) bool {
	switch strings.TrimSpace(arg) {
	case "false", "0", "":
		return false
	default:
		return true
	}
}
