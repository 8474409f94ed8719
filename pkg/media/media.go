package media

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/fault"
)

// allowedTypes maps the accepted image MIME types to the extension the stored
// file gets. Detection sniffs content, never the client-supplied name.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Asset describes a stored file. It carries everything the content layer
// needs to record and later release the file.
type Asset struct {
	StorageName  string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
}

// LocalStore writes uploads to a local directory and serves them under a
// public path prefix.
type LocalStore struct {
	dir         string
	publicPath  string
	maxFileSize int64
}

func MakeLocalStore(e env.UploadsEnvironment) (*LocalStore, error) {
	dir := strings.TrimSpace(e.Dir)
	if dir == "" {
		return nil, errors.New("uploads dir cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir [%s]: %w", dir, err)
	}

	return &LocalStore{
		dir:         dir,
		publicPath:  strings.TrimRight(e.PublicPath, "/"),
		maxFileSize: e.MaxFileSize,
	}, nil
}

func (s *LocalStore) Store(data []byte, originalName string) (*Asset, error) {
	if len(data) == 0 {
		return nil, fault.NewValidation("uploaded file is empty",
			fault.FieldError{Field: "images", Message: "cannot be empty"},
		)
	}

	if int64(len(data)) > s.maxFileSize {
		message := fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize)

		return nil, fault.NewValidation(message,
			fault.FieldError{Field: "images", Message: message},
		)
	}

	detected := mimetype.Detect(data)

	ext, ok := allowedTypes[detected.String()]
	if !ok {
		message := fmt.Sprintf("unsupported file type [%s]", detected.String())

		return nil, fault.NewValidation(message,
			fault.FieldError{Field: "images", Message: message},
		)
	}

	storageName := uuid.NewString() + ext
	path := filepath.Join(s.dir, storageName)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fault.NewStorage("could not store uploaded file",
			fmt.Errorf("write upload [%s]: %w", storageName, err),
		)
	}

	return &Asset{
		StorageName:  storageName,
		OriginalName: filepath.Base(originalName),
		Path:         s.URLFor(storageName),
		Size:         int64(len(data)),
		MimeType:     detected.String(),
	}, nil
}

// Remove deletes a stored file. Failures are logged rather than returned:
// asset cleanup is best effort and must never mask the outcome of the
// operation that triggered it.
func (s *LocalStore) Remove(storageName string) {
	name := filepath.Base(strings.TrimSpace(storageName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return
	}

	path := filepath.Join(s.dir, name)

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("could not remove stored file", "file", name, "error", err)
	}
}

func (s *LocalStore) RemoveAll(storageNames []string) {
	for _, name := range storageNames {
		s.Remove(name)
	}
}

func (s *LocalStore) URLFor(storageName string) string {
	return s.publicPath + "/" + storageName
}

func (s *LocalStore) Dir() string {
	return s.dir
}
