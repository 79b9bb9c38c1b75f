package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":           "hello-world",
		"  Hello,   World!  ":   "hello-world",
		"Go -- the  good parts": "go-the-good-parts",
		"snake_case stays":      "snake_case-stays",
		"Ünïcödé letters go":    "ncd-letters-go",
		"!!!":                   "post",
		"Trailing dash -":       "trailing-dash",
	}
	for title, want := range cases {
		assert.Equal(t, want, Slugify(title), title)
	}
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("one two three"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, ReadTime(strings.Repeat("word\n", 1000)))
}
