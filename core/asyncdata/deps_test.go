package asyncdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameDeps(t *testing.T) {
	shared := []string{"a"}
	m := map[string]int{"a": 1}
	p := &struct{}{}

	tests := []struct {
		name string
		a    []any
		b    []any
		want bool
	}{
		{"Both empty", nil, []any{}, true},
		{"Equal scalars", []any{"x", 1, true}, []any{"x", 1, true}, true},
		{"Different order", []any{1, 2}, []any{2, 1}, false},
		{"Different length", []any{1}, []any{1, 2}, false},
		{"Different types", []any{1}, []any{int64(1)}, false},
		{"Nil entries", []any{nil}, []any{nil}, true},
		{"Nil vs value", []any{nil}, []any{0}, false},
		{"Same slice", []any{shared}, []any{shared}, true},
		{"Equal but distinct slices", []any{shared}, []any{[]string{"a"}}, false},
		{"Same map", []any{m}, []any{m}, true},
		{"Distinct maps", []any{m}, []any{map[string]int{"a": 1}}, false},
		{"Same pointer", []any{p}, []any{p}, true},
		{"Comparable structs", []any{struct{ A int }{1}}, []any{struct{ A int }{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameDeps(tt.a, tt.b))
		})
	}
}
