package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCPF(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"123", "123"},
		{"1234", "123.4"},
		{"123456", "123.456"},
		{"1234567", "123.456.7"},
		{"123456789", "123.456.789"},
		{"1234567890", "123.456.789-0"},
		{"12345678901", "123.456.789-01"},
		{"12345678901999", "123.456.789-01"},
		{"123.456.789-01", "123.456.789-01"},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCPF(tt.in), "FormatCPF(%q)", tt.in)
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "1"},
		{"11", "11"},
		{"119", "(11) 9"},
		{"1198765", "(11) 98765"},
		{"11987654", "(11) 98765-4"},
		{"11987654321", "(11) 98765-4321"},
		{"119876543210", "(11) 98765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhone(tt.in), "FormatPhone(%q)", tt.in)
	}
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "-", MaskCPF(""))
	assert.Equal(t, "***.456.***-**", MaskCPF("123.456.789-01"))
	assert.Equal(t, "***.456.***-**", MaskCPF("12345678901"))
	assert.Equal(t, "123.456", MaskCPF("123.456"))
}

func TestMaskPhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "-"},
		{"(11) 98765-4321", "(11) 98765-****"},
		{"(11)8765-4321", "(11)8765-****"},
		{"11987654321", "(11) 98765-****"},
		{"1187654321", "(11) 8765-****"},
		{"98765", "98765"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskPhone(tt.in), "MaskPhone(%q)", tt.in)
	}
}

func TestSignatureFileName(t *testing.T) {
	at := time.UnixMilli(1718000000123)
	assert.Equal(t, "assinatura_1718000000123_joao_da_conceicao.png", SignatureFileName("João da Conceição", at))
	assert.Equal(t, "assinatura_1718000000123_ana_maria_.png", SignatureFileName("Ana Maria!", at))
}

func TestParseBirthDate(t *testing.T) {
	want := time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"1990-03-04", "04/03/1990", " 1990-03-04 "} {
		got, err := ParseBirthDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
	_, err := ParseBirthDate("4 de março")
	assert.Error(t, err)
}
