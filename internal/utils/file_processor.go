package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileProcessor walks project directory trees
type FileProcessor struct {
	fs afero.Fs
}

// NewFileProcessor creates a new file processor
func NewFileProcessor(filesystem afero.Fs) *FileProcessor {
	return &FileProcessor{fs: filesystem}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.FileInfo) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.FileInfo) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// NamedFileFilter matches files with exactly the given base name
func NamedFileFilter(name string) FileFilter {
	return func(path string, info os.FileInfo) bool {
		return !info.IsDir() && info.Name() == name
	}
}

// DefaultSkipDirs are never searched for application classes
var DefaultSkipDirs = []string{
	"vendor",
	"node_modules",
	"storage",
	"public",
	"build",
	"dist",
}

// DefaultDirectoryFilter skips hidden, vendored and build directories plus any extra names
func DefaultDirectoryFilter(extra ...string) DirectoryFilter {
	skipDirs := make(map[string]bool, len(DefaultSkipDirs)+len(extra))
	for _, name := range DefaultSkipDirs {
		skipDirs[name] = true
	}
	for _, name := range extra {
		skipDirs[strings.Trim(name, "/")] = true
	}

	return func(path string, info os.FileInfo) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks a directory tree and returns matching files in lexical order.
// The root itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string
	root := filepath.Clean(rootDir)

	err := afero.Walk(fp.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if info.IsDir() {
			if path != root && options.DirectoryFilter != nil && !options.DirectoryFilter(path, info) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, info) {
			matchedFiles = append(matchedFiles, path)
		}

		return nil
	})

	return matchedFiles, err
}
