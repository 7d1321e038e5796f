// Package storage persists media on the local filesystem. The app is
// local-first, so posts, stories and AI renders live under one media root
// served as static files rather than in a cloud bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

// LocalStore writes media files under a root directory
type LocalStore struct {
	root    string
	baseURL string
}

// SaveResult describes where a media file landed
type SaveResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
// baseURL is the public prefix the key is appended to.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", dir, err)
	}
	return &LocalStore{
		root:    dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save writes data under {kind}/{year}/{month}/{userID}/{fileID}{ext} and
// returns the key and public URL
func (s *LocalStore) Save(ctx context.Context, data []byte, userID, originalFilename, kind string) (*SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileID := uuid.New().String()
	extension := filepath.Ext(originalFilename)
	if extension == "" {
		extension = ".bin"
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%s/%s%s",
		kind, now.Year(), now.Month(), userID, fileID, extension)

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	logger.Log.Debug("Media saved",
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return &SaveResult{
		Key:  key,
		URL:  s.baseURL + "/" + key,
		Size: int64(len(data)),
	}, nil
}

// Read returns the contents of a stored media file
func (s *LocalStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read media %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a stored media file. Deleting a missing key is not an
// error; expiry cleanup may race user deletion.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete media %s: %w", key, err)
	}
	return nil
}

// resolve maps a key to a path under the root, rejecting traversal
func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}

// ContentType guesses a MIME type from a key's extension
func ContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
