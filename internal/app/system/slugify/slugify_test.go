package slugify

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"The Sea Explorer", "the-sea-explorer"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces", "multiple-spaces"},
		{"Punctuation, everywhere!", "punctuation-everywhere"},
		{"Already-Hyphenated Name", "already-hyphenated-name"},
		{"Tour 2024 Edition", "tour-2024-edition"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
