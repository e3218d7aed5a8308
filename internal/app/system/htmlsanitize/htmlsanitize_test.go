package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/tourhub/internal/app/system/htmlsanitize"
)

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_KeepsFormatting(t *testing.T) {
	in := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(in); got != in {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	got := htmlsanitize.PlainText("<b>The Forest Hiker</b> adventure")
	if got != "The Forest Hiker adventure" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_RemovesOnclick(t *testing.T) {
	got := htmlsanitize.PlainText(`<button onclick="alert('xss')">Click</button>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "<") {
		t.Errorf("expected markup removed, got %q", got)
	}
}
