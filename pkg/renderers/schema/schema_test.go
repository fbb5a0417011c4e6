package schema_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/render"
	"github.com/goliatone/go-compgen/pkg/renderers/schema"
	"github.com/goliatone/go-compgen/pkg/testsupport"
)

func TestRenderer(t *testing.T) {
	cfg := component.New(component.Requirements{Category: component.CategoryAction})
	if err := cfg.SetType("Button", ""); err != nil {
		t.Fatalf("set type: %v", err)
	}

	r := schema.New()
	if got := r.Path(cfg, render.RenderOptions{}); got != "Button/schema.generated.json" {
		t.Fatalf("unexpected path %q", got)
	}
	out, err := r.Render(context.Background(), cfg, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out[len(out)-1] != '\n' {
		t.Fatalf("expected trailing newline")
	}

	decoded, ok := testsupport.MustDecodeJSON(t, out).(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %s", out)
	}
	allOf, ok := decoded["allOf"].([]any)
	if !ok || len(allOf) != 2 {
		t.Fatalf("expected base ref plus own object, got %s", out)
	}
	if ref := allOf[0].(map[string]any)["$ref"]; ref != "#/definitions/ComponentBase" {
		t.Fatalf("unexpected first base %v", ref)
	}
}
