package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "Plain words", raw: "Grand Hotel", expected: "grand-hotel"},
		{name: "Punctuation runs", raw: "  Acme -- Resorts, Inc. ", expected: "acme-resorts-inc"},
		{name: "Non ASCII letters", raw: "Hôtel Métropole", expected: "h-tel-m-tropole"},
		{name: "Digits kept", raw: "Tower 42", expected: "tower-42"},
		{name: "Nothing usable", raw: "¡¿!", expected: ""},
		{name: "Empty", raw: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slug(tc.raw))
		})
	}
}

func TestCodeCandidate(t *testing.T) {
	assert.Equal(t, "acme-001", CodeCandidate("acme", 1))
	assert.Equal(t, "hotel-042", CodeCandidate("hotel", 42))
	assert.Equal(t, "group-1234", CodeCandidate("group", 1234))
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "jane@example.com", Email("  Jane@Example.COM "))
	assert.Equal(t, "acme", Code(" ACME "))
	assert.Equal(t, "", Code("   "))
	assert.Equal(t, "ANDROID", Platform(" android"))
	assert.True(t, Blank(" \t"))
	assert.False(t, Blank(" x "))

	assert.Nil(t, OptionalText(nil))
	blank := "   "
	assert.Nil(t, OptionalText(&blank))
	phone := " +33 1 23 "
	if got := OptionalText(&phone); assert.NotNil(t, got) {
		assert.Equal(t, "+33 1 23", *got)
	}
}
