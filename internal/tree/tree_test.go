package tree

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arborsmith/arbor/internal/fs"
)

func entry(dir, name string, isDir bool) fs.Entry {
	return fs.Entry{Name: name, Path: filepath.Join(dir, name), IsDir: isDir}
}

func visiblePaths(c *Cache) []string {
	nodes := c.Visible()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, filepath.ToSlash(n.Path))
	}
	return out
}

func TestToggleLoadsOnce(t *testing.T) {
	t.Parallel()

	c := New("/proj")

	if !c.Toggle("/proj") {
		t.Fatalf("expected the first toggle to request a load")
	}
	if c.Toggle("/proj") {
		t.Fatalf("expected no second fetch while one is outstanding")
	}

	ok := c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
	})
	if !ok {
		t.Fatalf("expected the load to be applied")
	}
	if !c.Root().Expanded || !c.Root().Loaded {
		t.Fatalf("expected the root to be loaded and expanded")
	}

	// Collapse and re-expand must both be served from the cache.
	if c.Toggle("/proj") {
		t.Fatalf("expected collapse to need no fetch")
	}
	if c.Root().Expanded {
		t.Fatalf("expected the root to be collapsed")
	}
	if c.Toggle("/proj") {
		t.Fatalf("expected re-expand to be served from the cache")
	}
	if !c.Root().Expanded {
		t.Fatalf("expected the root to be expanded again")
	}
}

func TestToggleIgnoresFilesAndUnknownPaths(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{entry("/proj", "a.txt", false)})

	if c.Toggle("/proj/a.txt") {
		t.Fatalf("expected a file toggle to be a no-op")
	}
	if c.Toggle("/proj/missing") {
		t.Fatalf("expected an unknown path to be a no-op")
	}
}

func TestVisibleFlattensPreOrder(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
	})
	c.Toggle("/proj/B")
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "c.txt", false),
	})

	got := visiblePaths(c)
	want := []string{"/proj", "/proj/B", "/proj/B/c.txt", "/proj/a.txt"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("expected visible order %v, got %v", want, got)
	}

	// Collapsing B hides its subtree but keeps it cached.
	c.Toggle("/proj/B")
	got = visiblePaths(c)
	want = []string{"/proj", "/proj/B", "/proj/a.txt"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("expected visible order %v after collapse, got %v", want, got)
	}
	if c.Get("/proj/B/c.txt") == nil {
		t.Fatalf("expected collapsed children to stay in the arena")
	}
}

func TestFinishLoadDiscardsStaleGeneration(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	stale := c.Generation()

	c.Reset()

	if c.FinishLoad("/proj", stale, []fs.Entry{entry("/proj", "a.txt", false)}) {
		t.Fatalf("expected a stale load to be discarded")
	}
	if c.Root().Loaded {
		t.Fatalf("expected the new epoch's root to stay unloaded")
	}
}

func TestApplyRenameRewritesSubtree(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
	})
	c.Toggle("/proj/B")
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "D", true),
		entry("/proj/B", "c.txt", false),
	})
	c.Toggle("/proj/B/D")
	c.FinishLoad("/proj/B/D", c.Generation(), []fs.Entry{
		entry("/proj/B/D", "e.txt", false),
	})

	if !c.ApplyRename(filepath.FromSlash("/proj/B"), filepath.FromSlash("/proj/ZZ")) {
		t.Fatalf("expected the rename patch to apply")
	}

	if c.Get(filepath.FromSlash("/proj/B")) != nil {
		t.Fatalf("expected the old key to leave the arena")
	}
	renamed := c.Get(filepath.FromSlash("/proj/ZZ"))
	if renamed == nil || renamed.Name != "ZZ" {
		t.Fatalf("expected a node named ZZ, got %+v", renamed)
	}
	if !renamed.Expanded {
		t.Fatalf("expected the renamed directory to keep its expansion state")
	}
	deep := c.Get(filepath.FromSlash("/proj/ZZ/D/e.txt"))
	if deep == nil {
		t.Fatalf("expected descendant keys to be rewritten")
	}
	if inner := c.Get(filepath.FromSlash("/proj/ZZ/D")); inner == nil || !inner.Expanded {
		t.Fatalf("expected nested expansion state to survive the rename")
	}
}

func TestApplyDeleteRemovesSubtree(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
	})
	c.Toggle("/proj/B")
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "c.txt", false),
	})

	if !c.ApplyDelete(filepath.FromSlash("/proj/B")) {
		t.Fatalf("expected the delete patch to apply")
	}
	if c.Get(filepath.FromSlash("/proj/B")) != nil || c.Get(filepath.FromSlash("/proj/B/c.txt")) != nil {
		t.Fatalf("expected the subtree to leave the arena")
	}

	got := visiblePaths(c)
	want := []string{"/proj", "/proj/a.txt"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("expected visible order %v, got %v", want, got)
	}

	if c.ApplyDelete("/proj") {
		t.Fatalf("expected the root to be undeletable")
	}
}

func TestApplyCreateInsertsSorted(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
		entry("/proj", "c.txt", false),
	})

	if n := c.ApplyCreate(filepath.FromSlash("/proj/ba.txt"), false); n == nil {
		t.Fatalf("expected the create patch to apply")
	}
	if n := c.ApplyCreate(filepath.FromSlash("/proj/A"), true); n == nil {
		t.Fatalf("expected the directory create patch to apply")
	}

	names := make([]string, 0, len(c.Root().Children))
	for _, ch := range c.Root().Children {
		names = append(names, ch.Name)
	}
	want := "A B a.txt ba.txt c.txt"
	if strings.Join(names, " ") != want {
		t.Fatalf("expected children %q, got %q", want, strings.Join(names, " "))
	}

	// Unloaded parents are left for their first real load.
	if n := c.ApplyCreate(filepath.FromSlash("/proj/B/x.txt"), false); n != nil {
		t.Fatalf("expected creates under unloaded parents to be ignored")
	}
}

func TestReloadPreservesSurvivingExpansion(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "a.txt", false),
	})
	c.Toggle("/proj/B")
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "c.txt", false),
	})

	if !c.StartReload("/proj") {
		t.Fatalf("expected a reload of a loaded directory to start")
	}
	if c.StartReload("/proj") {
		t.Fatalf("expected the guard to block a concurrent reload")
	}

	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
		entry("/proj", "d.txt", false),
	})

	b := c.Get(filepath.FromSlash("/proj/B"))
	if b == nil || !b.Expanded || len(b.Children) != 1 {
		t.Fatalf("expected B to survive the reload with its children, got %+v", b)
	}
	if c.Get(filepath.FromSlash("/proj/a.txt")) != nil {
		t.Fatalf("expected the vanished file to leave the arena")
	}
	if c.Get(filepath.FromSlash("/proj/d.txt")) == nil {
		t.Fatalf("expected the new file to join the arena")
	}
}

func TestReloadKeepsCollapsedDirectoriesClosed(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", "B", true),
	})
	c.Toggle("/proj/B")
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "c.txt", false),
	})

	b := c.Get(filepath.FromSlash("/proj/B"))
	if b == nil || !b.Expanded {
		t.Fatalf("expected the first load to open B, got %+v", b)
	}

	c.Toggle("/proj/B")
	if b.Expanded {
		t.Fatalf("expected toggling a loaded directory to collapse it")
	}

	if !c.StartReload("/proj/B") {
		t.Fatalf("expected a reload of a loaded directory to start")
	}
	c.FinishLoad("/proj/B", c.Generation(), []fs.Entry{
		entry("/proj/B", "c.txt", false),
		entry("/proj/B", "d.txt", false),
	})

	if b.Expanded {
		t.Fatalf("expected the reload to leave B collapsed")
	}
	if !b.Loaded || len(b.Children) != 2 {
		t.Fatalf("expected the reload to refresh B's children, got %+v", b)
	}
}

func TestFilterSkipsEntriesOnLoad(t *testing.T) {
	t.Parallel()

	c := New("/proj")
	c.SetFilter(func(name string, isDir bool) bool {
		return !strings.HasPrefix(name, ".")
	})

	c.Toggle("/proj")
	c.FinishLoad("/proj", c.Generation(), []fs.Entry{
		entry("/proj", ".git", true),
		entry("/proj", "a.txt", false),
	})

	if len(c.Root().Children) != 1 || c.Root().Children[0].Name != "a.txt" {
		t.Fatalf("expected only a.txt to survive the filter, got %+v", c.Root().Children)
	}
}
