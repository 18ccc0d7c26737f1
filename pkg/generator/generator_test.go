package generator

import (
	"testing"

	"aristo/pkg/codes"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCount(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"Default batch", 18, 18},
		{"Single", 1, 1},
		{"Zero", 0, 0},
		{"Negative", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, g.Generate(tt.count), tt.want)
		})
	}
}

func TestGenerateRange(t *testing.T) {
	g := NewGenerator()
	for _, c := range g.Generate(5000) {
		if !codes.Valid(c) {
			t.Fatalf("generated code %d outside [%d, %d]", c, codes.Min, codes.Max)
		}
		assert.Len(t, c.String(), codes.Width)
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewSeededGenerator(1, 2).Generate(10)
	b := NewSeededGenerator(1, 2).Generate(10)
	assert.Equal(t, a, b)

	c := NewSeededGenerator(3, 4).Generate(10)
	assert.NotEqual(t, a, c)
}
