package skillmd

import "testing"

func TestExtractDescriptionFrontmatter(t *testing.T) {
	content := "---\nname: pdf-rotate\ndescription: \"Rotate pages in a PDF\"\n---\n\n# PDF Rotate\n\nBody text here.\n"
	if got := ExtractDescription(content); got != "Rotate pages in a PDF" {
		t.Errorf("ExtractDescription = %q", got)
	}
}

func TestExtractDescriptionFirstParagraph(t *testing.T) {
	content := "# Title\n\nFirst line of body.\nSecond line of body.\n\nNext paragraph.\n"
	want := "First line of body. Second line of body."
	if got := ExtractDescription(content); got != want {
		t.Errorf("ExtractDescription = %q, want %q", got, want)
	}
}

func TestExtractDescriptionEmpty(t *testing.T) {
	if got := ExtractDescription("# Only a heading\n"); got != "" {
		t.Errorf("ExtractDescription = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 60); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	long := "a description that keeps going well past the width available for a line"
	got := Truncate(long, 20)
	if len(got) != 20 || got[17:] != "..." {
		t.Errorf("Truncate = %q", got)
	}
}
