package contentid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprintKnownVector(t *testing.T) {
	got, err := Fingerprint(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("Fingerprint = %s, want %s", got, want)
	}
	if !Valid(got) {
		t.Fatalf("Valid(%s) = false", got)
	}
}

func TestFingerprintFileMatchesReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	payload := strings.Repeat("quaver", 4096)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fromFile, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	fromReader, err := Fingerprint(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fromFile != fromReader {
		t.Fatalf("file digest %s != reader digest %s", fromFile, fromReader)
	}
}

func TestFingerprintFileMissing(t *testing.T) {
	if _, err := FingerprintFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidRejectsJunk(t *testing.T) {
	cases := []string{"", "abc", strings.Repeat("z", HexLength), strings.Repeat("a", HexLength-1)}
	for _, value := range cases {
		if Valid(value) {
			t.Fatalf("Valid(%q) = true", value)
		}
	}
}
