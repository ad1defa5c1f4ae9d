package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chamilad/trashbin/internal/trash"
)

// newTestCLI redirects the home trash into a throwaway XDG data home.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return &CLI{version: Version{AppName: "trash"}, runID: "test"}
}

func TestPutPathValidation(t *testing.T) {
	c := newTestCLI(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"root", "/", ExitInvalidArgs},
		{"dot", ".", ExitInvalidArgs},
		{"dotdot", "..", ExitInvalidArgs},
		{"missing", filepath.Join(t.TempDir(), "missing"), ExitInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.putPath(tt.path)
			if err == nil {
				t.Fatal("putPath should fail")
			}
			if got := ExitCode(err); got != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestPutMissingOperandForced(t *testing.T) {
	c := newTestCLI(t)
	c.option.Rm.Force = true

	if err := c.putPath(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Errorf("putPath with force should ignore missing operands, got %v", err)
	}
}

func TestPutTrashesFile(t *testing.T) {
	c := newTestCLI(t)

	work := t.TempDir()
	path := filepath.Join(work, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := c.putPath(path); err != nil {
		t.Fatalf("putPath failed: %v", err)
	}
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Error("original file should be gone after trashing")
	}

	root := filepath.Join(os.Getenv("XDG_DATA_HOME"), "Trash")
	if _, err := os.Stat(filepath.Join(root, "files", "notes.txt")); err != nil {
		t.Errorf("trashed file missing from files/: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "info", "notes.txt.trashinfo")); err != nil {
		t.Errorf("info file missing from info/: %v", err)
	}
}

func TestPutRefusesTrashingTrash(t *testing.T) {
	c := newTestCLI(t)

	work := t.TempDir()
	path := filepath.Join(work, "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := c.putPath(path); err != nil {
		t.Fatalf("putPath failed: %v", err)
	}

	inTrash := filepath.Join(os.Getenv("XDG_DATA_HOME"), "Trash", "files", "notes.txt")
	err := c.putPath(inTrash)
	if !errors.Is(err, trash.ErrTrashingTrash) {
		t.Errorf("putPath error = %v, want ErrTrashingTrash", err)
	}
	if got := ExitCode(err); got != ExitUnsupported {
		t.Errorf("ExitCode = %d, want %d", got, ExitUnsupported)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", fmt.Errorf("%w: too few arguments", errUsage), ExitInvalidArgs},
		{"not found", trash.ErrNotFound, ExitInvalidArgs},
		{"unsupported root", trash.ErrUnsupportedRoot, ExitUnsupported},
		{"permission", trash.ErrPermissionDenied, ExitUnsupported},
		{"invalid root", trash.ErrInvalidRoot, ExitUnsupported},
		{"trashing trash", trash.ErrTrashingTrash, ExitUnsupported},
		{"wrapped", fmt.Errorf("outer: %w", trash.ErrPermissionDenied), ExitUnsupported},
		{"reported", reportedError{trash.ErrNotFound}, ExitInvalidArgs},
		{"unexpected", errors.New("disk on fire"), ExitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
