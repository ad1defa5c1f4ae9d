package fs

import (
	"os"
	"path/filepath"
	"testing"
)

// createTestFile creates a test file with given content
func createTestFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	testPath := filepath.Join(dir, "testfile.txt")

	// First create should succeed
	f, err := Create(testPath, 0644)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	f.Close()

	// Second create should fail (file already exists)
	_, err = Create(testPath, 0644)
	if err == nil {
		t.Fatal("Expected error when creating existing file, got nil")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "sub")
	if err := EnsureDir(target, 0700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Second call is a no-op
	if err := EnsureDir(target, 0700); err != nil {
		t.Fatalf("EnsureDir on existing directory failed: %v", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("Failed to stat created directory: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("Created path is not a directory")
	}

	// Existing regular file must be rejected
	filePath := filepath.Join(dir, "regular")
	createTestFile(t, filePath, "content")
	if err := EnsureDir(filePath, 0700); err == nil {
		t.Fatal("Expected error for existing non-directory, got nil")
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.txt")
	dstPath := filepath.Join(dir, "destination.txt")
	content := "test content"

	createTestFile(t, srcPath, content)

	err := Move(srcPath, dstPath, false)
	if err != nil {
		t.Fatalf("Failed to move file: %v", err)
	}

	// Verify source file is gone
	_, err = os.Stat(srcPath)
	if !os.IsNotExist(err) {
		t.Fatal("Source file should not exist after move")
	}

	// Verify destination file exists with correct content
	dstContent, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatalf("Failed to read destination file: %v", err)
	}
	if string(dstContent) != content {
		t.Fatalf("Destination file content mismatch. Expected %q, got %q", content, dstContent)
	}
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Move(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), false)
	if err == nil {
		t.Fatal("Expected error when moving missing source, got nil")
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	createTestFile(t, filepath.Join(dir, "a.txt"), "aaaa")
	createTestFile(t, filepath.Join(sub, "b.txt"), "bbbbbbbb")

	// Symlinks must not contribute
	if err := os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	withLink, err := DirSize(dir)
	if err != nil {
		t.Fatalf("DirSize failed: %v", err)
	}
	if withLink <= 0 {
		t.Fatalf("DirSize returned %d, want > 0", withLink)
	}

	// Block-based accounting always yields multiples of 512
	if withLink%512 != 0 {
		t.Fatalf("DirSize returned %d, want a multiple of 512", withLink)
	}
}

func TestDirSizeOnFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file")
	createTestFile(t, filePath, "content")

	if _, err := DirSize(filePath); err == nil {
		t.Fatal("Expected error for non-directory, got nil")
	}
}

func TestIsWritableDir(t *testing.T) {
	dir := t.TempDir()
	if !IsWritableDir(dir) {
		t.Fatal("Temp directory should be writable")
	}
	if IsWritableDir(filepath.Join(dir, "missing")) {
		t.Fatal("Missing directory should not be writable")
	}
}

func TestCanDelete(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "victim")
	createTestFile(t, filePath, "content")

	if !CanDelete(filePath) {
		t.Fatal("Expected file in writable directory to be deletable")
	}
	if CanDelete(filepath.Join(dir, "missing")) {
		t.Fatal("Missing file should not be deletable")
	}

	// A dangling symlink can still be unlinked
	linkPath := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), linkPath); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
	if !CanDelete(linkPath) {
		t.Fatal("Dangling symlink in writable directory should be deletable")
	}
}
