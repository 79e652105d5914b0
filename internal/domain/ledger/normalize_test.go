package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"acronym kept", "TV set for home", "TV Set For Home"},
		{"whitespace collapsed", "  food   for cat ", "Food For Cat"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"mixed case untouched", "iPhone case", "IPhone Case"},
		{"capitalized rest kept", "McDonald's meal", "McDonald's Meal"},
		{"digits", "2 kg apples", "2 Kg Apples"},
		{"cyrillic", "корм для кота", "Корм Для Кота"},
		{"single letter", "a b", "A B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"TV set for home",
		"  food   for cat ",
		"pet supplies",
		"aBC dEF",
		"x",
		"éclair au chocolat",
		"NASA  space   program",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}
