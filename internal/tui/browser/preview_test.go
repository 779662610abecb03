package browser

import (
	"strings"
	"testing"
)

func TestRenderPreviewMarkdownUsesDisplayTitle(t *testing.T) {
	t.Parallel()

	content := []byte("---\ntitle: Project Notes\n---\n# Heading\n\nsome body text\n")
	got := renderPreview("/vault/plan.md", content, 60)

	if !strings.Contains(got, "Project Notes") {
		t.Fatalf("expected frontmatter title in preview, got %q", got)
	}
	if !strings.Contains(got, "some body text") {
		t.Fatalf("expected body text in preview, got %q", got)
	}
}

func TestRenderPreviewPlainTextPassesThrough(t *testing.T) {
	t.Parallel()

	content := []byte("plain contents\nsecond line\n")
	got := renderPreview("/vault/notes.txt", content, 60)

	if got != string(content) {
		t.Fatalf("expected raw passthrough, got %q", got)
	}
}

func TestRenderPreviewRefusesBinary(t *testing.T) {
	t.Parallel()

	content := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02}
	got := renderPreview("/vault/image.png", content, 60)

	if got != "image.png is not a text file" {
		t.Fatalf("unexpected binary notice %q", got)
	}
}

func TestRenderPreviewRefusesOversizedFiles(t *testing.T) {
	t.Parallel()

	content := make([]byte, maxPreviewBytes+1)
	for i := range content {
		content[i] = 'a'
	}
	got := renderPreview("/vault/huge.md", content, 60)

	if got != "huge.md is too large to preview" {
		t.Fatalf("unexpected size notice %q", got)
	}
}

func TestPreviewCacheKeyChangesWithWidthAndMtime(t *testing.T) {
	t.Parallel()

	base := previewCacheKey("/vault/a.md", 100, 80)
	if previewCacheKey("/vault/a.md", 100, 80) != base {
		t.Fatalf("expected stable key for identical inputs")
	}
	if previewCacheKey("/vault/a.md", 101, 80) == base {
		t.Fatalf("expected mtime to change the key")
	}
	if previewCacheKey("/vault/a.md", 100, 60) == base {
		t.Fatalf("expected width to change the key")
	}
}

func TestTruncateKeepsShortNamesAndMarksLongOnes(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short name unchanged, got %q", got)
	}
	if got := truncate("exactly-ten", 11); got != "exactly-ten" {
		t.Fatalf("expected exact fit unchanged, got %q", got)
	}
	if got := truncate("much-too-long-name", 8); got != "much-to…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Fatalf("expected zero width to disable truncation, got %q", got)
	}
}
