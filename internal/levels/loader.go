// Package levels loads and saves Sokoban level files.
// Built-in levels are embedded in the binary; user levels live in a
// directory and override built-ins that share an ID.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-sokoban/internal/games/sokoban"
	"github.com/vovakirdan/tui-sokoban/internal/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("level not found")

// validID restricts IDs to names that are safe as file names.
var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Level represents a complete, validated level definition.
type Level struct {
	ID       string
	Name     string
	Rows     [][]int
	Metadata map[string]string
	FilePath string // Empty for built-in levels
	Builtin  bool
}

// Width returns the number of columns.
func (l Level) Width() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len(l.Rows[0])
}

// Height returns the number of rows.
func (l Level) Height() int {
	return len(l.Rows)
}

// Targets returns the number of target cells (codes 4, 5 and 6).
func (l Level) Targets() int {
	n := 0
	for _, row := range l.Rows {
		for _, v := range row {
			if v >= int(sokoban.CodeTarget) {
				n++
			}
		}
	}
	return n
}

// Validate checks the ID and that the rows form a playable puzzle.
func (l Level) Validate() error {
	if !validID.MatchString(l.ID) {
		return fmt.Errorf("invalid level id %q", l.ID)
	}
	if _, err := sokoban.NewPuzzle(l.Rows); err != nil {
		return err
	}
	return nil
}

// Warnings lists problems that leave a level loadable but not worth playing.
// A level without targets is solved before the first move, and one with
// fewer blocks than targets can never be solved.
func (l Level) Warnings() []string {
	var blocks, targets int
	for _, row := range l.Rows {
		for _, v := range row {
			switch sokoban.Code(v) {
			case sokoban.CodeBlock:
				blocks++
			case sokoban.CodeBlockOnTarget:
				blocks++
				targets++
			case sokoban.CodeTarget, sokoban.CodePlayerOnTarget:
				targets++
			}
		}
	}

	var warnings []string
	switch {
	case targets == 0:
		warnings = append(warnings, "level has no targets and is solved at start")
	case blocks < targets:
		warnings = append(warnings, fmt.Sprintf("%d blocks for %d targets, level cannot be solved", blocks, targets))
	}
	return warnings
}

// NewGame creates a playable game for this level.
func (l Level) NewGame() (*sokoban.Game, error) {
	return sokoban.New(l.ID, l.Name, l.Rows)
}

// Loader handles loading levels from the built-ins and a directory.
type Loader struct {
	Root string // User level directory; may be empty or missing
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll returns built-in levels merged with every valid file under Root.
// Invalid files are skipped. Levels are sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	byID := make(map[string]Level)

	builtins, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, lvl := range builtins {
		byID[lvl.ID] = lvl
	}

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == l.Root {
					return fs.SkipAll
				}
				return err
			}

			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			if !isSupportedExtension(ext) {
				return nil
			}

			level, err := l.LoadFile(path)
			if err != nil {
				// Skip invalid files
				return nil
			}

			byID[level.ID] = level
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
		}
	}

	levels := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		levels = append(levels, lvl)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	level, err := parse(data, path)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	level.FilePath = path

	if err := level.Validate(); err != nil {
		return Level{}, fmt.Errorf("validating file %s: %w", path, err)
	}

	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Save validates a level and writes it as YAML to Root/<id>.yaml.
// It returns the path written.
func (l *Loader) Save(level Level) (string, error) {
	if l.Root == "" {
		return "", errors.New("no levels directory configured")
	}
	if err := level.Validate(); err != nil {
		return "", err
	}

	data, err := formats.EncodeYAML(formats.Level{
		ID:       level.ID,
		Name:     level.Name,
		Rows:     level.Rows,
		Metadata: level.Metadata,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", l.Root, err)
	}

	path := filepath.Join(l.Root, level.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Builtin returns the levels embedded in the binary, sorted by ID.
func Builtin() ([]Level, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("reading built-in levels: %w", err)
	}

	levels := make([]Level, 0, len(entries))
	for _, e := range entries {
		path := "builtin/" + e.Name()
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading built-in level %s: %w", e.Name(), err)
		}
		level, err := parse(data, path)
		if err != nil {
			return nil, fmt.Errorf("parsing built-in level %s: %w", e.Name(), err)
		}
		if err := level.Validate(); err != nil {
			return nil, fmt.Errorf("built-in level %s: %w", e.Name(), err)
		}
		level.Builtin = true
		levels = append(levels, level)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// parse routes to the correct parser and fills defaults from the file name.
func parse(data []byte, path string) (Level, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var parsed formats.Level
	var err error
	switch ext {
	case ".yaml", ".yml":
		parsed, err = formats.ParseYAML(data)
	case ".json":
		parsed, err = formats.ParseJSON(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
	if err != nil {
		return Level{}, err
	}

	id := parsed.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	name := parsed.Name
	if name == "" {
		name = id
	}

	return Level{
		ID:       id,
		Name:     name,
		Rows:     parsed.Rows,
		Metadata: parsed.Metadata,
	}, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Blank returns a walled w×h level with the player in the top-left
// interior cell, used as the editor's starting point.
func Blank(id string, w, h int) Level {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
		for x := range rows[y] {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				rows[y][x] = int(sokoban.CodeWall)
			}
		}
	}
	if w > 2 && h > 2 {
		rows[1][1] = int(sokoban.CodePlayer)
	} else if w > 0 && h > 0 {
		rows[0][0] = int(sokoban.CodePlayer)
	}
	return Level{ID: id, Name: id, Rows: rows}
}

// NextID returns the first "lvlNN" ID not present in taken.
func NextID(taken map[string]bool) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("lvl%02d", n)
		if !taken[id] {
			return id
		}
	}
}
