// Package tree holds the lazily loaded directory tree as a flat arena:
// one map from absolute path to node plus parent pointers and ordered
// child lists. Mutation patches are index operations, so applying a
// rename or delete never re-reads the disk and never disturbs the
// expansion state of untouched siblings.
package tree

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arborsmith/arbor/internal/fs"
)

// Node is one row of the tree. Expanded and Loaded are independent: a
// collapsed node keeps its loaded children so re-expanding it costs
// nothing.
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	Depth    int
	Expanded bool
	Loaded   bool
	Loading  bool
	Children []*Node

	parent *Node
}

// Parent returns the containing directory node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Filter decides whether a listed entry becomes a node. A nil filter
// accepts everything.
type Filter func(name string, isDir bool) bool

// Cache owns the arena for one vault session.
type Cache struct {
	root   *Node
	nodes  map[string]*Node
	gen    int64
	filter Filter
}

// New builds a cache rooted at rootPath. The root starts collapsed and
// unloaded; the first Toggle reports that a load is needed.
func New(rootPath string) *Cache {
	c := &Cache{nodes: make(map[string]*Node), gen: 1}
	c.root = &Node{Path: rootPath, Name: filepath.Base(rootPath), IsDir: true}
	c.nodes[rootPath] = c.root
	return c
}

// SetFilter installs the entry filter applied on load. Changing the
// filter takes effect on the next load of each directory.
func (c *Cache) SetFilter(f Filter) { c.filter = f }

// Root returns the boundary node.
func (c *Cache) Root() *Node { return c.root }

// Get returns the node at path, or nil when the arena does not know it.
func (c *Cache) Get(path string) *Node { return c.nodes[path] }

// Len reports how many nodes the arena holds.
func (c *Cache) Len() int { return len(c.nodes) }

// Generation identifies the current arena epoch. Async load results
// carry the generation they were started under; FinishLoad discards
// results from older epochs.
func (c *Cache) Generation() int64 { return c.gen }

// AnyLoading reports whether any fetch is outstanding in the current
// epoch.
func (c *Cache) AnyLoading() bool {
	for _, n := range c.nodes {
		if n.Loading {
			return true
		}
	}
	return false
}

// Reset drops the whole arena and starts a new epoch over the same
// root. Outstanding loads from the old epoch become stale.
func (c *Cache) Reset() {
	c.gen++
	c.nodes = make(map[string]*Node, 1)
	c.root = &Node{Path: c.root.Path, Name: c.root.Name, IsDir: true}
	c.nodes[c.root.Path] = c.root
}

// Toggle flips the expansion state of the directory at path.
//
// Expanded nodes collapse (children stay cached, descendant expansion
// preserved). Collapsed loaded nodes expand without touching the disk.
// A node that has never been loaded is marked loading and needLoad is
// reported exactly once; while that fetch is outstanding further
// toggles are ignored, which is the re-entrancy guard.
func (c *Cache) Toggle(path string) (needLoad bool) {
	n := c.nodes[path]
	if n == nil || !n.IsDir {
		return false
	}
	if n.Loading {
		return false
	}
	if n.Expanded {
		n.Expanded = false
		return false
	}
	if n.Loaded {
		n.Expanded = true
		return false
	}
	n.Loading = true
	return true
}

// StartReload marks an already loaded directory for a fresh fetch,
// guarded the same way as first loads. It reports whether the caller
// should issue the fetch.
func (c *Cache) StartReload(path string) bool {
	n := c.nodes[path]
	if n == nil || !n.IsDir || !n.Loaded || n.Loading {
		return false
	}
	n.Loading = true
	return true
}

// FinishLoad integrates a completed listing. Results from a stale
// generation or for an evicted node are discarded. Existing child
// nodes are reused when their path and kind still match, so reloads
// preserve the expansion state of surviving subtrees; vanished
// children leave the arena.
func (c *Cache) FinishLoad(path string, gen int64, entries []fs.Entry) bool {
	if gen != c.gen {
		return false
	}
	n := c.nodes[path]
	if n == nil {
		return false
	}

	// A first load opens the directory the user just toggled; a reload
	// must not reopen one they have since collapsed.
	wasLoaded := n.Loaded
	n.Loading = false
	n.Loaded = true
	if !wasLoaded {
		n.Expanded = true
	}

	old := make(map[string]*Node, len(n.Children))
	for _, ch := range n.Children {
		old[ch.Path] = ch
	}

	children := make([]*Node, 0, len(entries))
	for _, e := range entries {
		if c.filter != nil && !c.filter(e.Name, e.IsDir) {
			continue
		}
		if prev, ok := old[e.Path]; ok && prev.IsDir == e.IsDir {
			delete(old, e.Path)
			children = append(children, prev)
			continue
		}
		children = append(children, &Node{
			Path:   e.Path,
			Name:   e.Name,
			IsDir:  e.IsDir,
			Depth:  n.Depth + 1,
			parent: n,
		})
	}
	for _, gone := range old {
		c.evict(gone)
	}

	n.Children = children
	for _, ch := range children {
		c.nodes[ch.Path] = ch
	}
	return true
}

// FailLoad clears the loading guard after a failed fetch, leaving the
// node unloaded so a later toggle can retry.
func (c *Cache) FailLoad(path string, gen int64) {
	if gen != c.gen {
		return
	}
	if n := c.nodes[path]; n != nil {
		n.Loading = false
	}
}

// Visible returns the flattened depth-first pre-order of every node
// whose ancestors are all expanded. The root is always the first row.
func (c *Cache) Visible() []*Node {
	out := make([]*Node, 0, len(c.nodes))
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		if !n.Expanded {
			return
		}
		for _, ch := range n.Children {
			walk(ch)
		}
	}
	walk(c.root)
	return out
}

// ApplyRename rewrites the node at oldPath (and every descendant key)
// to newPath and resorts its siblings. It reports whether anything was
// patched.
func (c *Cache) ApplyRename(oldPath, newPath string) bool {
	n := c.nodes[oldPath]
	if n == nil || n == c.root || c.nodes[newPath] != nil {
		return false
	}

	c.rekey(n, oldPath, newPath)
	n.Name = filepath.Base(newPath)
	sortChildren(n.parent)
	return true
}

func (c *Cache) rekey(n *Node, oldPrefix, newPrefix string) {
	delete(c.nodes, n.Path)
	n.Path = newPrefix + strings.TrimPrefix(n.Path, oldPrefix)
	c.nodes[n.Path] = n
	for _, ch := range n.Children {
		c.rekey(ch, oldPrefix, newPrefix)
	}
}

// ApplyDelete drops the subtree at path from the arena and its parent's
// child list. The root cannot be deleted.
func (c *Cache) ApplyDelete(path string) bool {
	n := c.nodes[path]
	if n == nil || n == c.root {
		return false
	}

	c.evict(n)
	parent := n.parent
	for i, ch := range parent.Children {
		if ch == n {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	return true
}

// ApplyCreate inserts a node for a freshly created entry at its sorted
// position. Parents that are unknown or not yet loaded are left alone;
// the entry will appear on their first load anyway.
func (c *Cache) ApplyCreate(path string, isDir bool) *Node {
	parent := c.nodes[filepath.Dir(path)]
	if parent == nil || !parent.Loaded {
		return nil
	}
	if existing := c.nodes[path]; existing != nil {
		return existing
	}

	name := filepath.Base(path)
	if c.filter != nil && !c.filter(name, isDir) {
		return nil
	}

	n := &Node{
		Path:   path,
		Name:   name,
		IsDir:  isDir,
		Depth:  parent.Depth + 1,
		parent: parent,
	}
	parent.Children = append(parent.Children, n)
	sortChildren(parent)
	c.nodes[path] = n
	return n
}

func (c *Cache) evict(n *Node) {
	delete(c.nodes, n.Path)
	for _, ch := range n.Children {
		c.evict(ch)
	}
}

func sortChildren(n *Node) {
	if n == nil {
		return
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
