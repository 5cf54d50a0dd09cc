package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/retrohub/retrohub-api/internal/models"
)

// FileStore saves uploaded project files on local disk under one directory
// per project. Stored names are random so original filenames never collide.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save writes an uploaded file to disk and returns a ProjectFile record for
// it. The record is not persisted here; the repository owns that.
func (s *FileStore) Save(projectID, uploaderID uint64, header *multipart.FileHeader) (*models.ProjectFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.baseDir, fmt.Sprintf("%d", projectID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create project dir: %w", err)
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	relPath := filepath.Join(fmt.Sprintf("%d", projectID), storedName)

	dst, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	return &models.ProjectFile{
		ProjectID:    projectID,
		OriginalName: header.Filename,
		StoredName:   storedName,
		MimeType:     mime,
		Size:         size,
		UploaderID:   uploaderID,
		Path:         relPath,
	}, nil
}

// SaveImage stores a cover image and returns its storage-relative path.
func (s *FileStore) SaveImage(projectID uint64, header *multipart.FileHeader) (string, error) {
	file, err := s.Save(projectID, 0, header)
	if err != nil {
		return "", err
	}
	return file.Path, nil
}

// Remove deletes a single stored file.
func (s *FileStore) Remove(relPath string) error {
	return os.Remove(filepath.Join(s.baseDir, relPath))
}

// RemoveProject deletes every stored file for a project.
func (s *FileStore) RemoveProject(projectID uint64) error {
	return os.RemoveAll(filepath.Join(s.baseDir, fmt.Sprintf("%d", projectID)))
}

// Open returns a reader for a stored file, for download serving.
func (s *FileStore) Open(relPath string) (*os.File, error) {
	return os.Open(filepath.Join(s.baseDir, relPath))
}

// BaseDir returns the root of the store.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}
