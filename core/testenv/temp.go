package testenv

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemp writes content to a file in a temporary directory and returns its name.
// The temporary directory is deleted during cleanup.
func WriteTemp(t testing.TB, name, content string) (filename string) {
	filename = filepath.Join(t.TempDir(), name)
	if e := os.WriteFile(filename, []byte(content), 0o644); e != nil {
		t.Fatal(e)
	}
	return filename
}
