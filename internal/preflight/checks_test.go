package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := CheckDirectoryAccess("dir", dir); !res.Passed {
		t.Fatalf("writable temp dir should pass: %+v", res)
	}
	if res := CheckDirectoryAccess("dir", filepath.Join(dir, "missing")); res.Passed {
		t.Fatalf("missing dir should fail: %+v", res)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if res := CheckDirectoryAccess("dir", file); res.Passed {
		t.Fatalf("regular file should fail: %+v", res)
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed([]Result{{Passed: true}, {Passed: true}}) {
		t.Fatal("expected true")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Fatal("expected false")
	}
	if !AllPassed(nil) {
		t.Fatal("empty result set passes")
	}
}
