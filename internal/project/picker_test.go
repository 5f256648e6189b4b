package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickerLine(t *testing.T) {
	p := Project{Name: "perch", Tags: []string{"go", "cli"}}
	assert.Equal(t, "perch - #go, #cli", PickerLine(p))

	assert.Equal(t, "bare - ", PickerLine(Project{Name: "bare"}))
}

func TestNameFromPicker(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"perch - #go, #cli", "perch"},
		{"bare - ", "bare"},
		{"plain", "plain"},
		{"a - b - #c", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromPicker(tt.line))
		})
	}
}

func TestNameFromPicker_RoundTrip(t *testing.T) {
	p := Project{Name: "my-proj", Tags: []string{"x"}}
	assert.Equal(t, p.Name, NameFromPicker(PickerLine(p)))
}
