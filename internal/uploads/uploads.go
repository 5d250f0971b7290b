// Package uploads validates multipart files and persists them behind a
// Storage, returning the public /uploads/<name> path recorded in the store.
package uploads

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
)

// PublicPrefix is the URL prefix files are served under.
const PublicPrefix = "/uploads/"

// Policy restricts what a form field may carry.
type Policy struct {
	MaxBytes    int64
	Allowed     []string
	TypeMessage string
	SizeMessage string
}

var (
	ImagePolicy = Policy{
		MaxBytes:    5 << 20,
		Allowed:     []string{"image/jpeg", "image/png", "image/webp"},
		TypeMessage: "Only JPG, PNG, and WEBP images are allowed",
		SizeMessage: "Image exceeds the 5 MB limit",
	}
	VideoPolicy = Policy{
		MaxBytes:    100 << 20,
		Allowed:     []string{"video/mp4", "video/webm", "video/ogg", "application/ogg", "video/quicktime"},
		TypeMessage: "Only MP4, WebM, OGG, and MOV videos are allowed",
		SizeMessage: "Video exceeds the 100 MB limit",
	}
)

// File is an upload that passed its policy and is ready to be stored.
type File struct {
	Filename    string
	ContentType string
	Extension   string
	Size        int64
	open        func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the file contents.
func (f *File) Open() (io.ReadCloser, error) {
	return f.open()
}

// FromMultipart size-checks a multipart file, then checks both the type the
// client declared and the type sniffed from its bytes. Violations are
// returned as validation errors.
func FromMultipart(fh *multipart.FileHeader, p Policy) (*File, error) {
	if fh.Size > p.MaxBytes {
		return nil, apperr.BadRequest(p.SizeMessage)
	}
	if !declaredAllowed(fh.Header.Get("Content-Type"), p.Allowed) {
		return nil, apperr.BadRequest(p.TypeMessage)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("Failed to read upload", err)
	}
	defer src.Close()

	return newFile(fh.Filename, fh.Size, src, func() (io.ReadCloser, error) { return fh.Open() }, p)
}

// declaredAllowed accepts a missing or generic declared type, since the
// sniffed type is authoritative; any specific type must be on the list.
func declaredAllowed(declared string, list []string) bool {
	if declared == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	return mediaType == "application/octet-stream" || lo.Contains(list, mediaType)
}

func newFile(filename string, size int64, head io.Reader, open func() (io.ReadCloser, error), p Policy) (*File, error) {
	mtype, err := mimetype.DetectReader(head)
	if err != nil {
		return nil, apperr.Internal("Failed to read upload", err)
	}
	if !allowed(mtype, p.Allowed) {
		return nil, apperr.BadRequest(p.TypeMessage)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mtype.Extension()
	}

	return &File{
		Filename:    filename,
		ContentType: mtype.String(),
		Extension:   ext,
		Size:        size,
		open:        open,
	}, nil
}

func allowed(mtype *mimetype.MIME, list []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if lo.Contains(list, m.String()) {
			return true
		}
	}
	return false
}

// Storage persists validated uploads.
type Storage interface {
	// Save stores the file under a fresh unique name and returns its public path.
	Save(ctx context.Context, f *File) (string, error)
	// Remove deletes the file behind a public path. A missing file is not an error.
	Remove(ctx context.Context, publicPath string) error
	// Open returns the stored object for serving.
	Open(ctx context.Context, name string) (*Object, error)
}

// Object is a stored file opened for reading.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ErrNotStored is returned by Open when no object exists under the name.
var ErrNotStored = errors.New("upload not found")

func newName(f *File) string {
	return uuid.NewString() + f.Extension
}

// PublicPath returns the URL path for a stored name.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// NameFromPath extracts the stored name from a public path, dropping any
// directory components.
func NameFromPath(publicPath string) string {
	name := path.Base(strings.TrimPrefix(publicPath, PublicPrefix))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
