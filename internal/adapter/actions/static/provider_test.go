package staticactions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDefinitionsReadsSingleAndArrayFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_batch.json", `[
  {"id": "pick_up", "type": "manipulation", "effects": ["holding_cup=True"], "cost": 1},
  {"id": "put_down", "type": "manipulation", "preconditions": ["holding_cup=True"], "effects": ["holding_cup=False"], "cost": 1}
]`)
	writeFile(t, dir, "a_single.json", `{"id": "look_around", "type": "perception", "effects": ["area_scanned=True"], "cost": 0.5}`)
	writeFile(t, dir, "notes.txt", "ignored")

	defs, err := Provider{Root: dir}.Definitions(context.Background())
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(defs))
	}
	// Files are read in name order, so a_single.json comes first.
	if defs[0].ID != "look_around" {
		t.Fatalf("expected look_around first, got %s", defs[0].ID)
	}
	if defs[1].ID != "pick_up" || defs[2].ID != "put_down" {
		t.Fatalf("unexpected batch order: %s, %s", defs[1].ID, defs[2].ID)
	}
}

func TestDefinitionsRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"id": "oops"`)

	if _, err := (Provider{Root: dir}).Definitions(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefinitionsMissingDir(t *testing.T) {
	if _, err := (Provider{Root: "/nonexistent/actions"}).Definitions(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDefinitionsEmptyDir(t *testing.T) {
	defs, err := Provider{Root: t.TempDir()}.Definitions(context.Background())
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("expected no definitions, got %d", len(defs))
	}
}
