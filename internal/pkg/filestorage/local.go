// Package filestorage stores uploaded documents on the local filesystem.
// Files get a uuid name so colliding uploads never overwrite each other;
// the original filename lives only in the database record.
package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/evrim/opphub/internal/pkg/logger"
)

// Storage defines the interface for file storage operations
type Storage interface {
	Save(fileHeader *multipart.FileHeader, subPath string) (string, error)
	Delete(filePath string) error
}

// LocalStorage handles saving files to the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory when missing.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes an uploaded file under basePath/subPath and returns the
// stored relative path.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create storage subdirectory: %w", err)
		}
	}

	uniqueName := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	fullPath := filepath.Join(dir, uniqueName)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	stored := filepath.Join(subPath, uniqueName)
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("storedAs", stored).
		Msg("File saved")
	return stored, nil
}

// Delete removes a stored file. Deleting a missing file is a no-op so
// the operation can be retried safely.
func (ls *LocalStorage) Delete(filePath string) error {
	if filePath == "" {
		return nil
	}

	fullPath := filepath.Join(ls.basePath, filePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		logger.Warn().Str("path", fullPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
