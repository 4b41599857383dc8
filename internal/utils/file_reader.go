package utils

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/chrisbeaver/outbound/internal/errors"
)

// FileReader reads project source files as text with caching
type FileReader struct {
	fs           afero.Fs
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader over the given filesystem
func NewFileReader(filesystem afero.Fs) *FileReader {
	return &FileReader{
		fs:           filesystem,
		contentCache: NewCache[string, string](),
	}
}

// ReadFile returns the file's contents. A missing file yields a NotFound error.
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.Get(cleanPath); exists {
		return cached, nil
	}

	content, err := afero.ReadFile(fr.fs, cleanPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NotFound("file", cleanPath)
		}
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	contentStr := string(content)
	fr.contentCache.Set(cleanPath, contentStr)

	return contentStr, nil
}

// Exists reports whether a regular file exists at the path
func (fr *FileReader) Exists(filePath string) bool {
	info, err := fr.fs.Stat(filepath.Clean(filePath))
	return err == nil && !info.IsDir()
}

// GetCacheStats returns statistics about the content cache
func (fr *FileReader) GetCacheStats() CacheStats {
	return fr.contentCache.GetStats()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	// Allow .. only at the beginning (relative path)
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
	}

	return cleanPath, nil
}
