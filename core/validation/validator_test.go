package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeValidator(t *testing.T) {
	var fail error
	v := NewChangeValidator(func() error { return fail })

	fail = errors.New("regex is empty")
	assert.False(t, v.Validate())
	assert.Equal(t, "regex is empty", v.Error())

	fail = nil
	assert.True(t, v.Validate())
	assert.Empty(t, v.Error())
}

func TestAutoTrigger(t *testing.T) {
	calls := 0
	v := NewChangeValidator(func() error {
		calls++
		return nil
	})
	trigger := NewAutoTrigger(v)

	t.Run("Skips first evaluation", func(t *testing.T) {
		assert.False(t, trigger.Evaluate("Regex", `(\d+)`))
		assert.Equal(t, 0, calls)
	})

	t.Run("Skips unchanged deps", func(t *testing.T) {
		assert.False(t, trigger.Evaluate("Regex", `(\d+)`))
		assert.Equal(t, 0, calls)
	})

	t.Run("Validates on change", func(t *testing.T) {
		assert.True(t, trigger.Evaluate("Regex", `(\w+)`))
		assert.Equal(t, 1, calls)
	})
}

func TestAutoTrigger_StoresFailure(t *testing.T) {
	v := NewChangeValidator(func() error { return errors.New("bad") })
	trigger := NewAutoTrigger(v)

	trigger.Evaluate(1)
	assert.Empty(t, v.Error())

	trigger.Evaluate(2)
	assert.Equal(t, "bad", v.Error())
}
