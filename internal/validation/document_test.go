package validation_test

import (
	"testing"

	"github.com/rafael/central-backend/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestValidCPF(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     bool
	}{
		{"valid unformatted", "52998224725", true},
		{"valid formatted", "529.982.247-25", true},
		{"valid second fixture", "11144477735", true},
		{"first check digit wrong", "52998224715", false},
		{"second check digit wrong", "52998224724", false},
		{"all identical digits", "11111111111", false},
		{"all zeros", "00000000000", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.ValidCPF(tt.document))
		})
	}
}

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     bool
	}{
		{"valid unformatted", "11222333000181", true},
		{"valid formatted", "11.222.333/0001-81", true},
		{"check digit wrong", "11222333000180", false},
		{"all identical digits", "11111111111111", false},
		{"cpf length", "52998224725", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.ValidCNPJ(tt.document))
		})
	}
}

func TestValidDocument(t *testing.T) {
	assert.True(t, validation.ValidDocument("52998224725"))
	assert.True(t, validation.ValidDocument("11222333000181"))
	assert.False(t, validation.ValidDocument("12345678901"))
}
