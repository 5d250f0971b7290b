package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	mp4Bytes = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), make([]byte, 64)...)
)

// fileHeader builds a parsed multipart file part. An empty contentType
// leaves the part's declared type as application/octet-stream.
func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File["file"][0]
}

func mustFile(t *testing.T, filename string, data []byte, p Policy) *File {
	t.Helper()
	f, err := FromMultipart(fileHeader(t, filename, "", data), p)
	require.NoError(t, err)
	return f
}

func TestFromMultipart_Policies(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		policy      Policy
		wantErr     string
		wantType    string
	}{
		{"png image", "smile.PNG", "image/png", pngBytes, ImagePolicy, "", "image/png"},
		{"generic declared type", "smile.png", "", pngBytes, ImagePolicy, "", "image/png"},
		{"mp4 video", "story.mp4", "video/mp4", mp4Bytes, VideoPolicy, "", "video/mp4"},
		{"text as image", "notes.png", "", []byte("hello there, not an image"), ImagePolicy, ImagePolicy.TypeMessage, ""},
		{"image as video", "clip.mp4", "", pngBytes, VideoPolicy, VideoPolicy.TypeMessage, ""},
		{"declared gif", "smile.gif", "image/gif", pngBytes, ImagePolicy, ImagePolicy.TypeMessage, ""},
		{"declared image as video", "clip.mp4", "image/png", mp4Bytes, VideoPolicy, VideoPolicy.TypeMessage, ""},
		{"malformed declared type", "smile.png", "image/", pngBytes, ImagePolicy, ImagePolicy.TypeMessage, ""},
		{"too large", "big.png", "image/png", append(pngBytes, make([]byte, 5<<20)...), ImagePolicy, ImagePolicy.SizeMessage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromMultipart(fileHeader(t, tt.filename, tt.contentType, tt.data), tt.policy)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				assert.Equal(t, tt.wantErr, apperr.As(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, f.ContentType)
			assert.Equal(t, strings.ToLower(filepath.Ext(tt.filename)), f.Extension)
		})
	}
}

func TestFromMultipart(t *testing.T) {
	f, err := FromMultipart(fileHeader(t, "clinic.png", "image/png", pngBytes), ImagePolicy)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(len(pngBytes)), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestNameFromPath(t *testing.T) {
	assert.Equal(t, "a.png", NameFromPath("/uploads/a.png"))
	assert.Equal(t, "a.png", NameFromPath("/uploads/../../etc/a.png"))
	assert.Equal(t, "", NameFromPath("/uploads/"))
	assert.Equal(t, "", NameFromPath(""))
}

func TestLocalStorage_SaveOpenRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	f := mustFile(t, "photo.png", pngBytes, ImagePolicy)

	publicPath, err := store.Save(ctx, f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, PublicPrefix))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	obj, err := store.Open(ctx, NameFromPath(publicPath))
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	obj.Body.Close()
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, store.Remove(ctx, publicPath))
	_, err = os.Stat(filepath.Join(dir, "uploads", NameFromPath(publicPath)))
	assert.True(t, os.IsNotExist(err))

	// removing again is not an error
	assert.NoError(t, store.Remove(ctx, publicPath))

	_, err = store.Open(ctx, NameFromPath(publicPath))
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestLocalStorage_UniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	f := mustFile(t, "same.png", pngBytes, ImagePolicy)

	first, err := store.Save(context.Background(), f)
	require.NoError(t, err)
	second, err := store.Save(context.Background(), f)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
