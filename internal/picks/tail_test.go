package picks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailIndex_Lookup(t *testing.T) {
	ix := NewTailIndex([]string{"Ethan", "JB", "Carley", "Jon Bryce"})

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"ethan", "Ethan", true},
		{"J.B.", "JB", true},
		{"Carley (legends)", "Carley", true},
		{"bryce", "Jon Bryce", true},
		{"Kansas -14", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ix.Lookup(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTailIndex_FullNameBeatsInitials(t *testing.T) {
	ix := NewTailIndex([]string{"Jon Bryce", "JB"})

	got, ok := ix.Lookup("jb")
	assert.True(t, ok)
	assert.Equal(t, "JB", got, "An exact player name should outrank another player's initials")
}

func TestParseDirective(t *testing.T) {
	ref, ok := ParseDirective("Tail JB")
	assert.True(t, ok)
	assert.Equal(t, TailRef{Kind: TailFollow, Target: "JB"}, ref)

	ref, ok = ParseDirective("reverse tail  Mitch (leaders)")
	assert.True(t, ok)
	assert.Equal(t, TailRef{Kind: TailReverse, Target: "Mitch"}, ref)

	ref, ok = ParseDirective("Fade Phil")
	assert.True(t, ok)
	assert.Equal(t, TailReverse, ref.Kind)

	_, ok = ParseDirective("Tailgate Tigers -3")
	assert.False(t, ok)
}

func TestTailIndex_Detect(t *testing.T) {
	ix := NewTailIndex([]string{"Ethan", "Mitch", "JB"})

	ref, ok := ix.Detect("Ethan", "mitch (legends)")
	assert.True(t, ok)
	assert.Equal(t, TailRef{Kind: TailFollow, Target: "Mitch"}, ref)
	assert.Equal(t, "Tail Mitch", ref.Resolved())

	ref, ok = ix.Detect("Ethan", "Fade jb")
	assert.True(t, ok)
	assert.Equal(t, "Reverse Tail JB", ref.Resolved())

	_, ok = ix.Detect("Ethan", "Ethan")
	assert.False(t, ok, "A player cannot tail themselves")

	_, ok = ix.Detect("Ethan", "Texas -3")
	assert.False(t, ok)
}
