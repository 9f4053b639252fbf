package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID returns an identifier of the form "<prefix>_<random>"
// where the random suffix is drawn from crypto/rand over [0-9a-z].
func GenerateSecureID(prefix string, length int) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("idgen: prefix must not be empty")
	}
	if length <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", length)
	}

	alphabetLen := big.NewInt(int64(len(idAlphabet)))
	suffix := make([]byte, length)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("idgen: read random bytes: %w", err)
		}
		suffix[i] = idAlphabet[n.Int64()]
	}

	return prefix + "_" + string(suffix), nil
}

// ValidateIDFormat reports whether id matches "<expectedPrefix>_<suffix>"
// with a non-empty suffix limited to [0-9a-z].
func ValidateIDFormat(id, expectedPrefix string) bool {
	if id == "" || expectedPrefix == "" {
		return false
	}

	head := expectedPrefix + "_"
	if !strings.HasPrefix(id, head) {
		return false
	}

	suffix := id[len(head):]
	if suffix == "" {
		return false
	}

	for _, char := range suffix {
		if (char < 'a' || char > 'z') && (char < '0' || char > '9') {
			return false
		}
	}

	return true
}
