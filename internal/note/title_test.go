package note

import "testing"

func TestDisplayTitlePrefersFrontmatter(t *testing.T) {
	t.Parallel()

	source := []byte("---\ntitle: Garden Notes\ntags: [plants]\n---\n\n# Something Else\n")
	if got := DisplayTitle("garden.md", source); got != "Garden Notes" {
		t.Fatalf("expected 'Garden Notes', got %q", got)
	}
}

func TestDisplayTitleFallsBackToHeading(t *testing.T) {
	t.Parallel()

	source := []byte("Intro paragraph.\n\n# First Heading\n\n## Second\n")
	if got := DisplayTitle("notes.md", source); got != "First Heading" {
		t.Fatalf("expected 'First Heading', got %q", got)
	}
}

func TestDisplayTitleFallsBackToFileName(t *testing.T) {
	t.Parallel()

	if got := DisplayTitle("plain-note.md", []byte("no headings here\n")); got != "plain-note" {
		t.Fatalf("expected 'plain-note', got %q", got)
	}
}

func TestDisplayTitleSkipsMalformedFrontmatter(t *testing.T) {
	t.Parallel()

	source := []byte("---\ntitle: [unclosed\n---\n\n# Rescue Heading\n")
	if got := DisplayTitle("broken.md", source); got != "Rescue Heading" {
		t.Fatalf("expected 'Rescue Heading', got %q", got)
	}
}
