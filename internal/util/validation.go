package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// IsValidImageFile checks if a filename has a valid image extension
func IsValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}

// IsValidVideoFile checks if a filename has a valid video extension
func IsValidVideoFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".mp4" || ext == ".webm" || ext == ".mov"
}

// IsValidAudioFile checks if a filename has a valid audio extension
func IsValidAudioFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".mp3", ".wav", ".m4a", ".ogg"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}

// ValidateFilename checks if a display filename is valid
// Filename is required and cannot contain directory separators
// Must be <= 255 chars
func ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename is required")
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return errors.New("filename cannot contain directory paths")
	}
	if len(filename) > 255 {
		return errors.New("filename too long (max 255 characters)")
	}
	return nil
}
