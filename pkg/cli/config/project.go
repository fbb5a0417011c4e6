package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/render"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = "compgen.toml"

// Settings is the content of compgen.toml.
type Settings struct {
	// Descriptors lists directories holding descriptor files.
	Descriptors []string `toml:"descriptors"`
	// Builtin includes the descriptors shipped with compgen.
	Builtin bool `toml:"builtin"`
	// Output is the directory generated files are written to.
	Output string `toml:"output"`
	// CommonImport overrides the module common definitions are imported from.
	CommonImport string `toml:"common_import"`
	// Layout places per-component files, see render.RenderOptions.
	Layout      string         `toml:"layout"`
	Renderers   []string       `toml:"renderers"`
	Concurrency int            `toml:"concurrency"`
	Schema      SchemaSettings `toml:"schema"`
}

// SchemaSettings configure the aggregated layout schema.
type SchemaSettings struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	File        string `toml:"file"`
	CommonFile  string `toml:"common_file"`
}

// DefaultSettings generates the built-in components into ./generated.
func DefaultSettings() *Settings {
	return &Settings{
		Builtin: true,
		Output:  "generated",
		Schema: SchemaSettings{
			File:       pipeline.DefaultSchemaFile,
			CommonFile: pipeline.DefaultCommonFile,
		},
	}
}

// Validate checks if the Settings are usable
func (s *Settings) Validate() error {
	if !s.Builtin && len(s.Descriptors) == 0 {
		return goerr.Wrap(ErrNoDescriptors, "set descriptors or enable builtin")
	}
	for _, dir := range s.Descriptors {
		if strings.TrimSpace(dir) == "" {
			return goerr.Wrap(ErrInvalidConfig, "descriptor directory is empty", goerr.V(FieldKey, "descriptors"))
		}
	}
	if s.Concurrency < 0 {
		return goerr.Wrap(ErrInvalidConfig, "concurrency must not be negative", goerr.V(FieldKey, "concurrency"), goerr.V(ValueKey, s.Concurrency))
	}
	if s.Layout != "" {
		if path.IsAbs(s.Layout) || strings.HasPrefix(path.Clean(s.Layout), "..") {
			return goerr.Wrap(ErrInvalidConfig, "layout must stay inside the output directory", goerr.V(FieldKey, "layout"), goerr.V(ValueKey, s.Layout))
		}
	}
	for _, name := range []string{s.Schema.File, s.Schema.CommonFile} {
		if name != "" && (path.IsAbs(name) || strings.HasPrefix(path.Clean(name), "..")) {
			return goerr.Wrap(ErrInvalidConfig, "schema files must stay inside the output directory", goerr.V(FieldKey, "schema"), goerr.V(ValueKey, name))
		}
	}
	return nil
}

// LoadSettings reads a TOML file on top of DefaultSettings. Relative
// descriptor and output paths are resolved against the file's directory.
func LoadSettings(configPath string) (*Settings, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, configPath))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, configPath))
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, configPath), goerr.V("cause", err.Error()))
	}

	base := filepath.Dir(configPath)
	for i, dir := range settings.Descriptors {
		settings.Descriptors[i] = resolve(base, dir)
	}
	settings.Output = resolve(base, settings.Output)

	if err := settings.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, configPath))
	}
	return settings, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// DescriptorSet loads the configured descriptors, the built-in set first.
func (s *Settings) DescriptorSet() (*descriptor.Set, error) {
	set := descriptor.NewSet()
	if s.Builtin {
		builtin, err := descriptor.Default()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load built-in descriptors")
		}
		if err := set.Merge(builtin); err != nil {
			return nil, goerr.Wrap(err, "failed to merge built-in descriptors")
		}
	}
	if len(s.Descriptors) > 0 {
		loaded, err := descriptor.LoadDirs(s.Descriptors...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load descriptors", goerr.V("dirs", s.Descriptors))
		}
		if err := set.Merge(loaded); err != nil {
			return nil, goerr.Wrap(err, "failed to merge descriptors", goerr.V("dirs", s.Descriptors))
		}
	}
	return set, nil
}

// PipelineOptions translates the settings into pipeline options.
func (s *Settings) PipelineOptions() []pipeline.Option {
	var docOpts []jsonschema.DocumentOption
	if s.Schema.ID != "" {
		docOpts = append(docOpts, jsonschema.WithID(s.Schema.ID))
	}
	if s.Schema.Title != "" {
		docOpts = append(docOpts, jsonschema.WithTitle(s.Schema.Title))
	}
	if s.Schema.Description != "" {
		docOpts = append(docOpts, jsonschema.WithDescription(s.Schema.Description))
	}

	opts := []pipeline.Option{
		pipeline.WithRenderOptions(render.RenderOptions{
			CommonImportPath: s.CommonImport,
			Layout:           s.Layout,
		}),
		pipeline.WithDocumentOptions(docOpts...),
		pipeline.WithSchemaFile(s.Schema.File),
		pipeline.WithCommonFile(s.Schema.CommonFile),
	}
	if len(s.Renderers) > 0 {
		opts = append(opts, pipeline.WithRenderers(s.Renderers...))
	}
	if s.Concurrency > 0 {
		opts = append(opts, pipeline.WithConcurrency(s.Concurrency))
	}
	return opts
}

// Project holds the flags shared by commands that read descriptors. Flags
// win over compgen.toml.
type Project struct {
	configPath  string
	descriptors []string
	noBuiltin   bool
	output      string
	renderers   []string
	concurrency int
}

func (x *Project) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Project configuration file",
			Category:    "Project",
			Destination: &x.configPath,
			Sources:     cli.EnvVars("COMPGEN_CONFIG"),
		},
		&cli.StringSliceFlag{
			Name:        "descriptors",
			Aliases:     []string{"d"},
			Usage:       "Directory holding component descriptors (repeatable)",
			Category:    "Project",
			Destination: &x.descriptors,
			Sources:     cli.EnvVars("COMPGEN_DESCRIPTORS"),
		},
		&cli.BoolFlag{
			Name:        "no-builtin",
			Usage:       "Do not include the built-in components",
			Category:    "Project",
			Destination: &x.noBuiltin,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory",
			Category:    "Project",
			Destination: &x.output,
			Sources:     cli.EnvVars("COMPGEN_OUTPUT"),
		},
		&cli.StringSliceFlag{
			Name:        "renderer",
			Aliases:     []string{"r"},
			Usage:       "Renderer to run (repeatable, default all)",
			Category:    "Project",
			Destination: &x.renderers,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Components rendered in parallel (0 uses GOMAXPROCS)",
			Category:    "Project",
			Destination: &x.concurrency,
			Sources:     cli.EnvVars("COMPGEN_CONCURRENCY"),
		},
	}
}

// Configure resolves the settings: the --config file, else compgen.toml in
// the working directory when present, else defaults. Flags are applied last.
func (x *Project) Configure() (*Settings, error) {
	var settings *Settings
	switch {
	case x.configPath != "":
		loaded, err := LoadSettings(x.configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	default:
		loaded, err := LoadSettings(DefaultConfigFile)
		switch {
		case err == nil:
			settings = loaded
		case errors.Is(err, ErrConfigNotFound):
			settings = DefaultSettings()
		default:
			return nil, err
		}
	}

	if len(x.descriptors) > 0 {
		settings.Descriptors = append([]string(nil), x.descriptors...)
	}
	if x.noBuiltin {
		settings.Builtin = false
	}
	if x.output != "" {
		settings.Output = x.output
	}
	if len(x.renderers) > 0 {
		settings.Renderers = append([]string(nil), x.renderers...)
	}
	if x.concurrency > 0 {
		settings.Concurrency = x.concurrency
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadEnv reads KEY=value pairs from file into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadEnv(file string) error {
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to stat env file", goerr.V(ConfigPathKey, file))
	}
	if err := godotenv.Load(file); err != nil {
		return goerr.Wrap(err, "failed to load env file", goerr.V(ConfigPathKey, file))
	}
	return nil
}
