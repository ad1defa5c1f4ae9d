package fs

import "testing"

func TestIsUnsafePath(t *testing.T) {
	tests := []struct {
		path   string
		unsafe bool
	}{
		{".", true},                 // original dot
		{"..", true},                // original double dot
		{"./", true},                // dot with slash
		{"./.", true},               // multiple dots
		{"./../../foo/../..", true}, // complex path to root
		{"/", true},                 // root
		{"//", true},                // double slash
		{"//foo", true},             // path with double slash
		{"/foo", false},             // normal absolute path
		{"foo", false},              // normal relative path
		{"foo/bar", false},          // normal nested path
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsUnsafePath(tt.path); got != tt.unsafe {
				t.Errorf("IsUnsafePath(%q) = %v, want %v", tt.path, got, tt.unsafe)
			}
		})
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		child   string
		parent  string
		want    string
		wantErr bool
	}{
		{"/mnt/disk/docs/a.txt", "/mnt/disk", "docs/a.txt", false},
		{"/mnt/disk", "/mnt/disk", ".", false},
		{"/mnt/other/a.txt", "/mnt/disk", "", true}, // not a descendant
		{"relative/path", "/mnt/disk", "", true},    // child not absolute
		{"/mnt/disk/a", "relative", "", true},       // parent not absolute
	}

	for _, tt := range tests {
		got, err := RelativeTo(tt.child, tt.parent)
		if (err != nil) != tt.wantErr {
			t.Errorf("RelativeTo(%q, %q) error = %v, wantErr %v", tt.child, tt.parent, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("RelativeTo(%q, %q) = %q, want %q", tt.child, tt.parent, got, tt.want)
		}
	}
}
