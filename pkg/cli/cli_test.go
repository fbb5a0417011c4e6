package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/goliatone/go-compgen/pkg/cli"
)

func run(args ...string) error {
	return cli.Run(context.Background(), append([]string{"compgen", "--log-level", "error"}, args...), "test")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_Generate(t *testing.T) {
	out := t.TempDir()
	err := run("generate", "--output", out)
	gt.NoError(t, err).Required()

	_, err = os.Stat(filepath.Join(out, "layout.schema.json"))
	gt.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "common.generated.ts"))
	gt.NoError(t, err)
}

func TestRun_GenerateDryRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")
	err := run("generate", "--output", out, "--dry-run", "--type", "Button")
	gt.NoError(t, err).Required()

	_, err = os.Stat(out)
	gt.B(t, os.IsNotExist(err)).True()
}

func TestRun_GenerateFromDescriptorDirectory(t *testing.T) {
	descriptors := t.TempDir()
	writeFile(t, descriptors, "Banner.yaml", "type: Banner\ncategory: Presentation\n")
	out := t.TempDir()

	err := run("generate", "--no-builtin", "--descriptors", descriptors, "--output", out, "--renderer", "jsonschema")
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(filepath.Join(out, "layout.schema.json"))
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("CompBanner")
	gt.String(t, string(data)).NotContains("CompButton")
}

func TestRun_Schema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.schema.json")
	err := run("schema", "--type", "Header", "--out", out)
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains(`"CompHeader"`)
	gt.String(t, string(data)).NotContains(`"CompInput"`)

	component := filepath.Join(t.TempDir(), "Input.schema.json")
	gt.NoError(t, run("schema", "--component", "Input", "--out", component)).Required()
	data, err = os.ReadFile(component)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("#/definitions/ComponentBase")

	err = run("schema", "--component", "Nope")
	gt.Error(t, err).Is(cli.ErrUnknownType)
}

func TestRun_Validate(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.json", `{"data":{"layout":[{"id":"intro-text","type":"Paragraph"}]}}`)
	invalid := writeFile(t, dir, "invalid.json", `{"data":{"layout":[{"type":"Paragraph"}]}}`)

	gt.NoError(t, run("validate", valid))

	err := run("validate", valid, invalid)
	gt.Error(t, err).Is(cli.ErrInvalidLayout)

	err = run("validate")
	gt.Value(t, err).NotNil()

	err = run("validate", filepath.Join(dir, "missing.json"))
	gt.Value(t, err).NotNil()
}

func TestRun_OpenAPI(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.yaml")
	err := run("openapi", "--format", "yaml", "--validate-path", "/validate", "--out", out)
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("openapi: 3.0.3")
	gt.String(t, string(data)).Contains("/validate")

	err = run("openapi", "--format", "toml")
	gt.Error(t, err).Is(cli.ErrInvalidFormat)
}

func TestRun_WatchNeedsDescriptorDirectories(t *testing.T) {
	err := run("watch", "--output", t.TempDir())
	gt.Error(t, err).Is(cli.ErrNothingToWatch)
}

func TestRun_ProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Banner.yaml", "type: Banner\ncategory: Presentation\n")
	configPath := writeFile(t, dir, "compgen.toml", `
descriptors = ["."]
builtin = false
output = "out"
renderers = ["jsonschema"]

[schema]
title = "Banner layout"
`)

	gt.NoError(t, run("generate", "--config", configPath)).Required()
	data, err := os.ReadFile(filepath.Join(dir, "out", "layout.schema.json"))
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("Banner layout")
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "compgen.toml", "concurrency = -4\n")

	err := run("list", "--config", configPath)
	gt.Value(t, err).NotNil()

	err = run("list", "--config", filepath.Join(dir, "missing.toml"))
	gt.Value(t, err).NotNil()
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"compgen", "--log-level", "loud", "list"}, "test")
	gt.Value(t, err).NotNil()
}
