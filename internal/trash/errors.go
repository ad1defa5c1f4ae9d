package trash

import "errors"

// Common errors returned by trash operations
var (
	// ErrNotFound is returned when the source file does not exist. A broken
	// symlink is not NotFound; the link itself is a valid trashable object.
	ErrNotFound = errors.New("no such file or directory")

	// ErrPermissionDenied is returned when the user lacks the rights to
	// delete the source or write to the trash root
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedRoot is returned when no usable trash root can be
	// resolved for a path
	ErrUnsupportedRoot = errors.New("unsupported trash root")

	// ErrInvalidRoot marks an admin topdir trash that failed the sticky-bit
	// or symlink checks. It only drives the admin-to-user fallback and is
	// never surfaced as a failure of the overall resolution.
	ErrInvalidRoot = errors.New("invalid trash root")

	// ErrAlreadyExists is returned when a trash entry name was claimed by
	// another process between naming and creation
	ErrAlreadyExists = errors.New("trash entry already exists")

	// ErrCorruptInfo is returned when a .trashinfo file is malformed
	ErrCorruptInfo = errors.New("malformed trashinfo file")

	// ErrNameExhausted is returned when entry naming runs out of candidates
	ErrNameExhausted = errors.New("reached maximum trash file name iteration")

	// ErrFileExists is returned when a restore destination is occupied
	ErrFileExists = errors.New("file already exists")

	// ErrTrashingTrash is returned on an attempt to trash a path inside the
	// trash root that governs it
	ErrTrashingTrash = errors.New("trashing the trash is not supported")
)

// OpError wraps an error with context about the trash operation that failed
type OpError struct {
	// Op is the operation that failed (e.g., "trash", "restore", "purge")
	Op string

	// Path is the path of the file that caused the error
	Path string

	// Err is the underlying error
	Err error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError
func NewOpError(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Err: err}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied returns true if the error is ErrPermissionDenied
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsUnsupportedRoot returns true if the error is ErrUnsupportedRoot
func IsUnsupportedRoot(err error) bool {
	return errors.Is(err, ErrUnsupportedRoot)
}

// IsFileExists returns true if the error is ErrFileExists
func IsFileExists(err error) bool {
	return errors.Is(err, ErrFileExists)
}
