package mapfile

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/paper-rally/internal/race"
)

func TestBuiltinMapsAreUsable(t *testing.T) {
	loader := NewLoader("")

	maps, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(maps) < 3 {
		t.Fatalf("only %d builtin maps, expected at least 3", len(maps))
	}

	// Every builtin map must produce a valid track and start a race with its
	// suggested racer count.
	for _, m := range maps {
		t.Run(m.ID, func(t *testing.T) {
			tr, err := m.Track()
			if err != nil {
				t.Fatalf("Track() failed: %v", err)
			}
			if len(tr.DestCells()) == 0 {
				t.Fatal("no destination cells")
			}
			rng := rand.New(rand.NewSource(1))
			if _, err := race.NewState(tr, m.Catalog, race.DefaultRules(), m.Racers, rng); err != nil {
				t.Errorf("NewState with %d racers failed: %v", m.Racers, err)
			}
		})
	}
}

func TestLoadByID(t *testing.T) {
	loader := NewLoader("")

	m, err := loader.LoadByID("oval")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if m.ID != "oval" {
		t.Errorf("loaded id = %q, expected oval", m.ID)
	}

	if _, err := loader.LoadByID("no-such-map"); err == nil {
		t.Error("expected error for unknown map id")
	}
}

func TestDiskMapShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	custom := `
id: oval
name: Custom Oval
rows:
  - "S.D"
`
	if err := os.WriteFile(filepath.Join(dir, "oval.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatalf("writing map file: %v", err)
	}

	loader := NewLoader(dir)
	m, err := loader.LoadByID("oval")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if m.Name != "Custom Oval" {
		t.Errorf("name = %q, expected the disk map to shadow the builtin", m.Name)
	}
}

func TestListIDsSorted(t *testing.T) {
	ids, err := NewLoader("").ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("ids not sorted: %v", ids)
		}
	}
}

func TestLoaderRejectsBrokenMapFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("rows:\n  - \"...\""), 0o644); err != nil {
		t.Fatalf("writing map file: %v", err)
	}

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("expected LoadAll to fail on an invalid map file")
	}
}
