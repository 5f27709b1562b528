package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_ValidateFileName(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		file      string
		wantError bool
	}{
		{name: "plain name", file: "refs.bib", wantError: false},
		{name: "prefixed name", file: "processed_refs.bib", wantError: false},
		{name: "prefix only", file: "processed_", wantError: false},
		{name: "empty", file: "", wantError: true},
		{name: "current directory", file: ".", wantError: true},
		{name: "parent directory", file: "..", wantError: true},
		{name: "slash", file: "out/refs.bib", wantError: true},
		{name: "backslash", file: "out\\refs.bib", wantError: true},
		{name: "absolute path", file: "/etc/hosts", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateFileName(tt.file)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateFileName(%q) error = %v, wantError %v", tt.file, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	existing := filepath.Join(tmpDir, "refs.bib")
	if err := os.WriteFile(existing, []byte("@misc{x,}"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	ok, err := fs.Exists(existing)
	if err != nil || !ok {
		t.Errorf("Exists(existing) = %v, %v; want true, nil", ok, err)
	}

	ok, err = fs.Exists(filepath.Join(tmpDir, "missing.bib"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("write to new file in new directory", func(t *testing.T) {
		path := filepath.Join(tmpDir, "out", "processed_refs.bib")
		content := []byte("@article{a,\n  journal = {J. Things}\n}")

		if err := fs.AtomicWrite(path, content, 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("File content mismatch: got %q, want %q", got, content)
		}
	})

	t.Run("overwrite existing file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "overwrite.bib")
		if err := os.WriteFile(path, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to create initial file: %v", err)
		}

		if err := fs.AtomicWrite(path, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		got, err := fs.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != "overwritten" {
			t.Errorf("File content not updated: got %q", got)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "clean")
		if err := fs.AtomicWrite(filepath.Join(dir, "a.bib"), []byte("a"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected exactly one file, got %d", len(entries))
		}
	})
}

func TestRealFS_Stat(t *testing.T) {
	fs := &RealFS{}
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte("12345"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	info, err := fs.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size() = %d, want 5", info.Size())
	}
}
