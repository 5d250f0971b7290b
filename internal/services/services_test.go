package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/metrics"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/store/storetest"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	mp4Bytes = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), make([]byte, 64)...)

	fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	repo    *store.GormStore
	dir     string
	jwt     *utils.JWTManager
	metrics *metrics.Collector
	svc     *Services
	seq     int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	storage, err := uploads.NewLocalStorage(dir)
	require.NoError(t, err)

	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		repo:    storetest.New(t),
		dir:     dir,
		jwt:     utils.NewJWTManager("test-secret", 24*time.Hour),
		metrics: metrics.NewCollector(),
	}
	f.svc = New(Deps{
		Repo:    f.repo,
		Storage: storage,
		JWT:     f.jwt,
		Hasher:  utils.NewPasswordHasher(bcrypt.MinCost),
		Metrics: f.metrics,
		Logger:  logger.Discard(),
		Now:     func() time.Time { return fixedNow },
	})
	return f
}

// user inserts an account directly, skipping password hashing.
func (f *fixture) user(role models.Role, name string) models.Identity {
	f.t.Helper()
	f.seq++
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("user%d@example.com", f.seq),
		Password: "unused",
		Role:     role,
	}
	require.NoError(f.t, f.repo.CreateUser(f.ctx, u))
	return models.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f *fixture) dentist(status models.DentistStatus) (models.Identity, *models.Dentist) {
	f.t.Helper()
	id := f.user(models.RoleDentist, "Dr Smile")
	d := &models.Dentist{
		UserID:         id.ID,
		Qualification:  "DDS",
		Experience:     7,
		ClinicName:     "Bright Teeth",
		ClinicAddress:  "12 High St",
		Fees:           40,
		Specialization: "General",
		Status:         status,
	}
	require.NoError(f.t, f.repo.CreateDentist(f.ctx, d))
	return id, d
}

func (f *fixture) slot(dentistID uint, date, clock string) *models.TimeSlot {
	f.t.Helper()
	s := &models.TimeSlot{DentistID: dentistID, SlotDate: date, SlotTime: clock, IsAvailable: true}
	require.NoError(f.t, f.repo.CreateSlot(f.ctx, s))
	return s
}

func (f *fixture) image() *uploads.File {
	f.t.Helper()
	return f.upload("photo.png", pngBytes, uploads.ImagePolicy)
}

func (f *fixture) video() *uploads.File {
	f.t.Helper()
	return f.upload("story.mp4", mp4Bytes, uploads.VideoPolicy)
}

// upload passes data through the same multipart path a request takes.
func (f *fixture) upload(filename string, data []byte, p uploads.Policy) *uploads.File {
	f.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(f.t, err)
	_, err = part.Write(data)
	require.NoError(f.t, err)
	require.NoError(f.t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = form.RemoveAll() })

	file, err := uploads.FromMultipart(form.File["file"][0], p)
	require.NoError(f.t, err)
	return file
}

func (f *fixture) stored(publicPath string) bool {
	_, err := os.Stat(filepath.Join(f.dir, uploads.NameFromPath(publicPath)))
	return err == nil
}

// scraped reports whether the metrics endpoint exposes the given sample line.
func (f *fixture) scraped(line string) bool {
	w := httptest.NewRecorder()
	f.metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return strings.Contains(w.Body.String(), line)
}

func assertKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, kind, appErr.Kind, "error: %v", err)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func TestNormalizeSchedule(t *testing.T) {
	tests := []struct {
		date, clock         string
		wantDate, wantClock string
		ok                  bool
	}{
		{"2025-06-01", "10:00", "2025-06-01", "10:00", true},
		{" 2025-06-01 ", "9:05", "2025-06-01", "09:05", true},
		{"2025-6-1", "10:00", "", "", false},
		{"2025-06-01", "25:00", "", "", false},
		{"tomorrow", "10:00", "", "", false},
	}
	for _, tt := range tests {
		d, c, ok := normalizeSchedule(tt.date, tt.clock)
		assert.Equal(t, tt.ok, ok, "%s %s", tt.date, tt.clock)
		assert.Equal(t, tt.wantDate, d)
		assert.Equal(t, tt.wantClock, c)
	}
}
