package trash

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInfoRender(t *testing.T) {
	deletedAt := time.Date(2024, 3, 14, 15, 9, 26, 0, time.Local)
	info := &Info{
		Path:         "/home/u/notes.txt",
		OriginalName: "notes.txt",
		DeletionDate: deletedAt,
	}

	want := "[Trash Info]\nPath=/home/u/notes.txt\nDeletionDate=2024-03-14T15:09:26\n"
	if got := info.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestInfoRenderEncodesPath(t *testing.T) {
	info := &Info{
		Path:         "/home/u/my docs/a&b.txt",
		DeletionDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
	}

	rendered := info.Render()
	if !strings.Contains(rendered, "Path=/home/u/my%20docs/a%26b.txt") {
		t.Errorf("Render() did not percent-encode path: %q", rendered)
	}
	if strings.Contains(rendered, "+") {
		t.Errorf("Render() used + for spaces: %q", rendered)
	}
}

func TestParseInfo(t *testing.T) {
	content := "[Trash Info]\nPath=/home/u/my%20docs/notes.txt\nDeletionDate=2024-03-14T15:09:26\n"
	info, err := ParseInfo(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseInfo failed: %v", err)
	}

	if info.Path != "/home/u/my docs/notes.txt" {
		t.Errorf("Path = %q, want /home/u/my docs/notes.txt", info.Path)
	}
	if info.OriginalName != "notes.txt" {
		t.Errorf("OriginalName = %q, want notes.txt", info.OriginalName)
	}
	want := time.Date(2024, 3, 14, 15, 9, 26, 0, time.Local)
	if !info.DeletionDate.Equal(want) {
		t.Errorf("DeletionDate = %v, want %v", info.DeletionDate, want)
	}
}

func TestParseInfoCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"missing header", "Path=/a\nDeletionDate=2024-03-14T15:09:26\n"},
		{"missing path", "[Trash Info]\nDeletionDate=2024-03-14T15:09:26\n"},
		{"missing date", "[Trash Info]\nPath=/a\n"},
		{"bad date", "[Trash Info]\nPath=/a\nDeletionDate=yesterday\n"},
		{"field before header", "Path=/a\n[Trash Info]\nDeletionDate=2024-03-14T15:09:26\n"},
		{"date before path", "[Trash Info]\nDeletionDate=2024-03-14T15:09:26\nPath=/a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInfo(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("Expected error for corrupt info, got nil")
			}
			if !errors.Is(err, ErrCorruptInfo) {
				t.Errorf("error = %v, want ErrCorruptInfo", err)
			}
		})
	}
}

func TestParseInfoSkipsUnknownKeys(t *testing.T) {
	content := "[Trash Info]\nPath=/a\nDeletionDate=2024-03-14T15:09:26\nScale=1\n"
	info, err := ParseInfo(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseInfo failed on unknown key: %v", err)
	}
	if info.Path != "/a" {
		t.Errorf("Path = %q, want /a", info.Path)
	}
}

func TestInfoRoundTrip(t *testing.T) {
	root := newTestRoot(t)

	original := "/home/u/projects/report final.pdf"
	deletedAt := time.Date(2023, 11, 5, 1, 30, 0, 0, time.Local)
	info, err := NewInfo(original, deletedAt, root)
	if err != nil {
		t.Fatalf("NewInfo failed: %v", err)
	}

	parsed, err := ParseInfo(strings.NewReader(info.Render()))
	if err != nil {
		t.Fatalf("ParseInfo failed: %v", err)
	}
	if parsed.Path != original {
		t.Errorf("round-tripped path = %q, want %q", parsed.Path, original)
	}
	if !parsed.DeletionDate.Equal(deletedAt) {
		t.Errorf("round-tripped date = %v, want %v", parsed.DeletionDate, deletedAt)
	}
}

func TestInfoSaveExclusive(t *testing.T) {
	root := newTestRoot(t)
	infoPath := filepath.Join(root.InfoDir, "notes.txt.trashinfo")

	info := &Info{
		Path:         "/home/u/notes.txt",
		DeletionDate: time.Now(),
	}
	if err := info.Save(infoPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A second save must refuse to overwrite
	err := info.Save(infoPath)
	if err == nil {
		t.Fatal("Expected error when saving over existing info file, got nil")
	}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestNewInfoTopDirRelative(t *testing.T) {
	dir := t.TempDir()
	root := newRoot(&Device{MountPoint: dir}, filepath.Join(dir, ".Trash-1000"), RootTopDirUser)
	if err := root.ensureLayout(); err != nil {
		t.Fatalf("Failed to create trash layout: %v", err)
	}

	original := filepath.Join(dir, "docs", "a.txt")
	info, err := NewInfo(original, time.Now(), root)
	if err != nil {
		t.Fatalf("NewInfo failed: %v", err)
	}

	// Topdir entries store mount-relative paths
	if info.Path != "docs/a.txt" {
		t.Errorf("Path = %q, want docs/a.txt", info.Path)
	}
	if info.AbsolutePath() != original {
		t.Errorf("AbsolutePath() = %q, want %q", info.AbsolutePath(), original)
	}
}
