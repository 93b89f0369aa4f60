package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHexColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Full", "#34c759", "#34C759"},
		{"NoHash", "ff9500", "#FF9500"},
		{"Short", "#fa0", "#FFAA00"},
		{"Named", "Orange", "#FF9500"},
		{"Empty", "", DefaultColor},
		{"Garbage", "#zzzzzz", DefaultColor},
		{"WrongLength", "#12345", DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHexColor(tt.in))
		})
	}
}

func TestNormalizeShareCode(t *testing.T) {
	assert.Equal(t, "AB12CD", NormalizeShareCode("  ab12cd "))
}
