package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Crème Brûlée!! ", "creme-brulee"},
		{"iPhone 15 Pro / Max", "iphone-15-pro-max"},
		{"Футболка мужская", "футболка-мужская"},
		{"Շապիկ", "շապիկ"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
		{"Ñandú_2024__edition", "nandu-2024-edition"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), tc.in)
	}
}
