package filestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEscapeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "should keep plain names", input: "Task 1", expected: "Task 1"},
		{name: "should keep safe punctuation", input: "a_b-c.d", expected: "a_b-c.d"},
		{name: "should escape slashes", input: "a/b", expected: "a%2Fb"},
		{name: "should escape percent", input: "a%2Fb", expected: "a%252Fb"},
		{name: "should escape a leading dot", input: "..", expected: "%2E."},
		{name: "should escape backslashes", input: `a\b`, expected: "a%5Cb"},
		{name: "should escape multibyte characters per byte", input: "ü", expected: "%C3%BC"},
		{name: "should escape the comment delimiter", input: "x:--:y", expected: "x%3A--%3Ay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeName(tt.input))
		})
	}
}

func TestEscapeName_LongNamesAreHashed(t *testing.T) {
	long := strings.Repeat("ü", 200)
	stem := EscapeName(long)

	assert.LessOrEqual(t, len(stem), maxStemLength)
	assert.Contains(t, stem, hashSeparator)
	assert.NotEqual(t, stem, EscapeName(long+"x"))

	_, err := UnescapeName(stem)
	assert.Error(t, err)
}

func TestUnescapeName_Errors(t *testing.T) {
	_, err := UnescapeName("abc%2")
	assert.Error(t, err)

	_, err = UnescapeName("abc%zz")
	assert.Error(t, err)
}

func TestEscapeName_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringN(1, 60, -1).Draw(t, "name")
		stem := EscapeName(name)

		if strings.ContainsAny(stem, `/\`) || strings.HasPrefix(stem, ".") {
			t.Fatalf("unsafe stem %q for %q", stem, name)
		}
		if len(stem) > maxStemLength {
			t.Fatalf("stem too long: %d", len(stem))
		}
		if strings.Contains(stem, hashSeparator) {
			return
		}
		back, err := UnescapeName(stem)
		if err != nil {
			t.Fatalf("unescape %q: %v", stem, err)
		}
		if back != name {
			t.Fatalf("round trip mismatch: %q != %q", back, name)
		}
	})
}

func TestEscapeName_Injective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.String().Draw(t, "a")
		b := rapid.String().Draw(t, "b")
		if a != b && EscapeName(a) == EscapeName(b) {
			t.Fatalf("%q and %q share stem %q", a, b, EscapeName(a))
		}
	})
}

func TestIsTempFile(t *testing.T) {
	require.True(t, isTempFile(tempPrefix+"abc"))
	require.False(t, isTempFile("T1.json"))
}
