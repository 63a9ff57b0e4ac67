package layerenv

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PHAPP_ENV=prod\nDB_HOST=db\n"

	if err := WriteSnapshot(path, content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("expected %q, got %q", content, string(data))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
		}
	}
}

// TestWriteSnapshot_Overwrite verifies that an existing file is replaced and tightened to 0600.
func TestWriteSnapshot_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OLD=1"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteSnapshot(path, "NEW=1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "NEW=1" {
		t.Errorf("expected new content, got %q", string(data))
	}

	if runtime.GOOS != "windows" {
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteSnapshot_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "dotenv", ".env")

	if err := WriteSnapshot(path, "A=1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestWriteSnapshot_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Repeat("x", MaxSnapshotSize+1)

	err := WriteSnapshot(path, content)
	if !errors.Is(err, ErrSnapshotTooLarge) {
		t.Fatalf("expected ErrSnapshotTooLarge, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written")
	}
}

func TestGenerateTempFileName(t *testing.T) {
	first, err := generateTempFileName("/srv/.env")
	if err != nil {
		t.Fatal(err)
	}
	second, err := generateTempFileName("/srv/.env")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(first, "/srv/.env.tmp.") || len(first) != len("/srv/.env.tmp.")+16 {
		t.Errorf("unexpected temp name: %s", first)
	}
	if first == second {
		t.Error("temp names should be unique")
	}
}

func BenchmarkWriteSnapshot(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, ".env")

	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("APP_SETTING_")
		sb.WriteString(strings.Repeat("X", i%16))
		sb.WriteString("=value\n")
	}
	content := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteSnapshot(path, content); err != nil {
			b.Fatal(err)
		}
	}
}
