package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// maxStemLength keeps "<stem>.json" under the common 255 byte NAME_MAX.
	maxStemLength = 200
	// hashedPrefixLength is how much of an over-long stem survives before the digest.
	hashedPrefixLength = 135
	// hashSeparator never appears in escaped output, so hashed stems cannot collide with plain ones.
	hashSeparator = "~"
)

func isSafeByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == ' ', b == '_', b == '.', b == '-':
		return true
	default:
		return false
	}
}

// EscapeName maps a task name to a file name stem that is safe as a single
// path segment. Bytes outside [A-Za-z0-9 _.-] become %XX, as does a leading
// dot, so distinct names never share a file and no name can leave the
// directory. Stems longer than maxStemLength are shortened and suffixed with
// a SHA-256 digest of the original name.
func EscapeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isSafeByte(c) && !(i == 0 && c == '.') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}

	stem := b.String()
	if len(stem) <= maxStemLength {
		return stem
	}
	sum := sha256.Sum256([]byte(name))
	return stem[:hashedPrefixLength] + hashSeparator + hex.EncodeToString(sum[:])
}

// UnescapeName reverses EscapeName for stems that were not shortened.
func UnescapeName(stem string) (string, error) {
	if strings.Contains(stem, hashSeparator) {
		return "", fmt.Errorf("stem %q is hashed and cannot be reversed", stem)
	}

	var b strings.Builder
	b.Grow(len(stem))
	for i := 0; i < len(stem); i++ {
		c := stem[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(stem) {
			return "", fmt.Errorf("truncated escape in %q", stem)
		}
		v, err := hex.DecodeString(stem[i+1 : i+3])
		if err != nil {
			return "", fmt.Errorf("invalid escape in %q: %w", stem, err)
		}
		b.WriteByte(v[0])
		i += 2
	}
	return b.String(), nil
}
