package contentid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HexLength is the length of a rendered fingerprint.
const HexLength = sha256.Size * 2

// Fingerprint computes the SHA-256 digest of r as a lowercase hex string.
// The reader is consumed in chunks, so arbitrarily large files never load
// into memory at once.
func Fingerprint(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FingerprintFile computes the content fingerprint of the file at path.
func FingerprintFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Fingerprint(file)
}

// Valid reports whether value looks like a fingerprint this package produced.
func Valid(value string) bool {
	if len(value) != HexLength {
		return false
	}
	_, err := hex.DecodeString(value)
	return err == nil
}
