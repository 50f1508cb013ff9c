package unstructured

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountElements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"top-level array", `[{"type":"Title"},{"type":"Text"},{"type":"Table"}]`, 3},
		{"object with elements array", `{"elements":[{"a":1},{"b":2}]}`, 2},
		{"object with elements as encoded string", `{"elements":"[{\"a\":1},{\"b\":2},{\"c\":3}]"}`, 3},
		{"object without elements key", `{"detail":"ok"}`, 0},
		{"elements string decoding to non-array", `{"elements":"{\"a\":1}"}`, 0},
		{"elements string with invalid json", `{"elements":"not json"}`, 0},
		{"top-level encoded string", `"[1,2]"`, 2},
		{"empty array", `[]`, 0},
		{"number", `42`, 0},
		{"malformed body", `{"elements":`, 0},
		{"empty body", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountElements([]byte(tt.body)))
		})
	}
}
