package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  Title  ", "trimmed-title"},
		{"Special!@#Characters", "special-characters"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER Case 123", "upper-case-123"},
		{"---", "untitled"},
		{"", "untitled"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.input), "input %q", tc.input)
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	slug := UniqueSlug("My Product", func(string) bool { return false })
	assert.Equal(t, "my-product", slug)
}

func TestUniqueSlugWithCollision(t *testing.T) {
	taken := map[string]bool{"my-product": true}

	slug := UniqueSlug("My Product", func(candidate string) bool {
		return taken[candidate]
	})

	assert.NotEqual(t, "my-product", slug)
	assert.Contains(t, slug, "my-product-")
}
