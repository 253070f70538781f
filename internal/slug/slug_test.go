// ABOUTME: Tests for slug derivation from titles
// ABOUTME: Covers symbol stripping, whitespace and hyphen collapsing, and empty output

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"symbols stripped and case folded", "Patient Engagement! 2.0", "patient-engagement-20"},
		{"plain words", "Design Systems", "design-systems"},
		{"whitespace run", "Design \t\n  Systems", "design-systems"},
		{"hyphen run", "UX---Research", "ux-research"},
		{"mixed hyphen and space", "UX - Research", "ux-research"},
		{"symbol between separators", "a ! b", "a-b"},
		{"underscore dropped", "snake_case_title", "snakecasetitle"},
		{"non-ascii dropped", "Café Crème", "caf-crme"},
		{"leading and trailing separators kept single", "  Hello  ", "-hello-"},
		{"all symbols", "!!! ???", "-"},
		{"only symbols no space", "@#$%", ""},
		{"empty", "", ""},
		{"already a slug", "patient-engagement-20", "patient-engagement-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Patient Engagement! 2.0",
		"  --  weird -- input  --  ",
		"Ünïcödé Tïtle",
		"",
		"tab\tseparated\tvalues",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "input %q", in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("patient-engagement"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("Patient Engagement"))
	assert.False(t, Valid("a--b"))
	assert.False(t, Valid("-"), "hyphens alone are not a slug")
	assert.True(t, Valid("-hello-"))
}
