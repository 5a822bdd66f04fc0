package utils

import (
	"path/filepath"
	"testing"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"wall.jpg", "jpg"},
		{"wall.JPEG", "jpeg"},
		{"/some/dir/wall.png", "png"},
		{"noext", ""},
	}

	for _, tt := range tests {
		if got := GetFileExtension(tt.path); got != tt.want {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	if !IsImageFile("wall.jpg") || !IsImageFile("wall.webp") {
		t.Error("expected jpg and webp to be recognized as images")
	}
	if IsImageFile("notes.txt") || IsImageFile("wall") {
		t.Error("expected non-image paths to be rejected")
	}
}

func TestDetectionsPath(t *testing.T) {
	got := DetectionsPath(filepath.Join("photos", "gym-wall.jpg"))
	want := filepath.Join("photos", "gym-wall-detected-holds.json")
	if got != want {
		t.Errorf("DetectionsPath = %q, want %q", got, want)
	}
}

func TestOverlayPath(t *testing.T) {
	got := OverlayPath(filepath.Join("photos", "gym-wall.jpg"))
	want := filepath.Join("photos", "gym-wall-holds-overlay.png")
	if got != want {
		t.Errorf("OverlayPath = %q, want %q", got, want)
	}
}
