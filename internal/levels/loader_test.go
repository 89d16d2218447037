package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-sokoban/internal/games/sokoban"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestBuiltinLevelsAreValid(t *testing.T) {
	lvls, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if len(lvls) < 4 {
		t.Fatalf("expected at least 4 built-in levels, got %d", len(lvls))
	}
	for _, lvl := range lvls {
		if !lvl.Builtin {
			t.Errorf("%s: Builtin flag not set", lvl.ID)
		}
		if lvl.Targets() == 0 {
			t.Errorf("%s: no targets", lvl.ID)
		}
		if _, err := lvl.NewGame(); err != nil {
			t.Errorf("%s: NewGame failed: %v", lvl.ID, err)
		}
	}
}

func TestLoaderLoadAllSorted(t *testing.T) {
	loader := NewLoader(t.TempDir())

	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// Should be sorted by ID
	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("levels not sorted: %s >= %s", lvls[i-1].ID, lvls[i].ID)
		}
	}
}

func TestLoaderMissingRootFallsBackToBuiltins(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))

	ids, err := loader.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) == 0 || ids[0] != "lvl01" {
		t.Errorf("ListIDs = %v, want built-ins starting at lvl01", ids)
	}
}

func TestLoaderUserLevelOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lvl01.yaml", `id: lvl01
name: Custom First
rows:
  - [1, 1, 1, 1]
  - [1, 2, 3, 4]
  - [1, 1, 1, 1]
`)

	lvl, err := NewLoader(dir).LoadByID("lvl01")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Name != "Custom First" {
		t.Errorf("Name = %q, want the user override", lvl.Name)
	}
	if lvl.Builtin {
		t.Error("override should not be flagged as built-in")
	}
	if lvl.Width() != 4 || lvl.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", lvl.Width(), lvl.Height())
	}
}

func TestLoaderLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "legacy.json", `[[1,1,1,1,1],[1,2,3,4,1],[1,1,1,1,1]]`)

	loader := NewLoader(dir)
	lvl, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if lvl.ID != "legacy" || lvl.Name != "legacy" {
		t.Errorf("ID/Name = %q/%q, want legacy/legacy", lvl.ID, lvl.Name)
	}
	if lvl.FilePath != path {
		t.Errorf("FilePath = %q, want %q", lvl.FilePath, path)
	}
	if lvl.Rows[1][2] != int(sokoban.CodeBlock) {
		t.Errorf("rows not decoded: %v", lvl.Rows)
	}
}

func TestLoaderSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "noplayer.yaml", "id: noplayer\nrows:\n  - [1, 0, 1]\n")
	writeFile(t, dir, "broken.json", "{not json")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "ok.json", `{"id": "ok", "name": "Fine", "rows": [[2, 3, 4]]}`)

	loader := NewLoader(dir)
	ids, err := loader.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}

	has := make(map[string]bool)
	for _, id := range ids {
		has[id] = true
	}
	if has["noplayer"] || has["broken"] || has["notes"] {
		t.Errorf("invalid files were loaded: %v", ids)
	}
	if !has["ok"] {
		t.Errorf("valid JSON object level missing: %v", ids)
	}

	if _, err := loader.LoadFile(filepath.Join(dir, "noplayer.yaml")); !errors.Is(err, sokoban.ErrNoPlayer) {
		t.Errorf("LoadFile(noplayer) error = %v, want ErrNoPlayer", err)
	}
}

func TestLoaderLoadByIDNotFound(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadByID("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadByID error = %v, want ErrNotFound", err)
	}
}

func TestLoaderSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	lvl := Blank("mine", 6, 5)
	lvl.Name = "My Level"
	lvl.Metadata = map[string]string{"author": "admin"}
	lvl.Rows[2][2] = int(sokoban.CodeBlock)
	lvl.Rows[2][3] = int(sokoban.CodeTarget)

	path, err := loader.Save(lvl)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, "mine.yaml") {
		t.Errorf("Save path = %q", path)
	}

	got, err := loader.LoadByID("mine")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if got.Name != "My Level" || got.Metadata["author"] != "admin" {
		t.Errorf("loaded %q %v", got.Name, got.Metadata)
	}
	for y := range lvl.Rows {
		for x := range lvl.Rows[y] {
			if got.Rows[y][x] != lvl.Rows[y][x] {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, got.Rows[y][x], lvl.Rows[y][x])
			}
		}
	}
}

func TestLoaderSaveRejectsInvalid(t *testing.T) {
	loader := NewLoader(t.TempDir())

	lvl := Blank("bad", 5, 5)
	lvl.Rows[1][1] = int(sokoban.CodeFloor)
	if _, err := loader.Save(lvl); !errors.Is(err, sokoban.ErrNoPlayer) {
		t.Errorf("Save error = %v, want ErrNoPlayer", err)
	}

	lvl = Blank("../escape", 5, 5)
	if _, err := loader.Save(lvl); err == nil {
		t.Error("Save should reject an unsafe id")
	}
}

func TestBlank(t *testing.T) {
	lvl := Blank("b", 4, 3)
	if lvl.Width() != 4 || lvl.Height() != 3 {
		t.Fatalf("size = %dx%d", lvl.Width(), lvl.Height())
	}
	if err := lvl.Validate(); err != nil {
		t.Errorf("blank level should validate: %v", err)
	}

	// Methods work on a returned value without taking its address
	if Blank("c", 5, 4).Width() != 5 || Blank("c", 5, 4).Validate() != nil {
		t.Error("methods on a Blank result")
	}
	if _, err := Blank("c", 5, 4).NewGame(); err != nil {
		t.Errorf("NewGame on a Blank result: %v", err)
	}
}

func TestLevelWarnings(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want int
	}{
		{"no targets", [][]int{{2, 0, 3}}, 1},
		{"too few blocks", [][]int{{2, 3, 4, 4}}, 1},
		{"block already placed", [][]int{{2, 5, 0}}, 0},
		{"balanced", [][]int{{6, 3, 4, 3}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := Level{ID: "w", Rows: tc.rows}
			if got := lvl.Warnings(); len(got) != tc.want {
				t.Errorf("Warnings() = %v, want %d warnings", got, tc.want)
			}
		})
	}

	if w := Blank("b", 5, 5).Warnings(); len(w) != 1 {
		t.Errorf("blank level warnings = %v, want the no-targets warning", w)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != "lvl01" {
		t.Errorf("NextID(nil) = %q", got)
	}
	taken := map[string]bool{"lvl01": true, "lvl02": true, "lvl04": true}
	if got := NextID(taken); got != "lvl03" {
		t.Errorf("NextID = %q, want lvl03", got)
	}
}
