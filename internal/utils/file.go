package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	ext := GetFileExtension(filename)
	imageExts := []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"}

	for _, imgExt := range imageExts {
		if ext == imgExt {
			return true
		}
	}
	return false
}

// Stem returns the base name of a path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DetectionsPath returns the default output path for the detection JSON:
// "<stem>-detected-holds.json" alongside the input image.
func DetectionsPath(imagePath string) string {
	return filepath.Join(filepath.Dir(imagePath), fmt.Sprintf("%s-detected-holds.json", Stem(imagePath)))
}

// OverlayPath returns the default output path for the detection overlay:
// "<stem>-holds-overlay.png" alongside the input image.
func OverlayPath(imagePath string) string {
	return filepath.Join(filepath.Dir(imagePath), fmt.Sprintf("%s-holds-overlay.png", Stem(imagePath)))
}
