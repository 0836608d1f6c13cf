package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testArgs() *Args {
	return NewArgs(map[string]any{
		"lr":     0.1,
		"epochs": 3,
		"script": "train.py",
		"rest":   []string{"--a", "b"},
	})
}

func TestAccessors(t *testing.T) {
	args := testArgs()
	assert.Equal(t, 0.1, args.Float("lr"))
	assert.Equal(t, 3, args.Int("epochs"))
	assert.Equal(t, "train.py", args.String("script"))
	assert.Equal(t, []string{"--a", "b"}, args.Remainder("rest"))

	assert.True(t, args.Has("lr"))
	assert.False(t, args.Has("momentum"))
}

func TestAccessorPanics(t *testing.T) {
	args := testArgs()

	t.Run("undeclared name", func(t *testing.T) {
		assert.PanicsWithValue(t, `argument "momentum" is not declared by this document`, func() {
			args.Float("momentum")
		})
	})

	t.Run("kind mismatch", func(t *testing.T) {
		assert.Panics(t, func() { args.Int("lr") })
		assert.Panics(t, func() { args.String("rest") })
	})
}

func TestNewArgsCopiesTheMapping(t *testing.T) {
	src := map[string]any{"lr": 0.1}
	args := NewArgs(src)
	src["lr"] = "mutated"
	assert.Equal(t, 0.1, args.Float("lr"))
}
