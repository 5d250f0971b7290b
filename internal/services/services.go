// Package services implements the marketplace operations on top of the
// repository and upload storage. Every failure is returned as *apperr.Error.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/metrics"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Deps are the collaborators shared by all services.
type Deps struct {
	Repo    store.Repository
	Storage uploads.Storage
	JWT     *utils.JWTManager
	// Hasher defaults to bcrypt.DefaultCost.
	Hasher  *utils.PasswordHasher
	Metrics *metrics.Collector
	Logger  *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Services struct {
	Auth         *AuthService
	Dentists     *DentistService
	Media        *MediaService
	Slots        *SlotService
	Appointments *AppointmentService
	Admin        *AdminService
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	if d.Hasher == nil {
		d.Hasher = utils.NewPasswordHasher(0)
	}
	dentists := &DentistService{deps: d, log: d.Logger.WithComponent("dentists")}
	return &Services{
		Auth:         &AuthService{deps: d, log: d.Logger.WithComponent("auth")},
		Dentists:     dentists,
		Media:        &MediaService{deps: d, log: d.Logger.WithComponent("media")},
		Slots:        &SlotService{deps: d, log: d.Logger.WithComponent("slots")},
		Appointments: &AppointmentService{deps: d, log: d.Logger.WithComponent("appointments")},
		Admin:        &AdminService{deps: d, dentists: dentists, log: d.Logger.WithComponent("admin")},
	}
}

func today(now func() time.Time) string {
	return now().Format(dateLayout)
}

// normalizeSchedule parses a date and time and returns them in canonical
// YYYY-MM-DD / HH:MM form.
func normalizeSchedule(date, clock string) (string, string, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", "", false
	}
	t, err := time.Parse(timeLayout, strings.TrimSpace(clock))
	if err != nil {
		return "", "", false
	}
	return d.Format(dateLayout), t.Format(timeLayout), true
}

// internal wraps an unexpected store failure.
func internal(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.Internal("Database error", err)
}

// removeFiles deletes stored uploads, logging failures instead of returning them.
func removeFiles(ctx context.Context, storage uploads.Storage, log *logrus.Entry, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := storage.Remove(ctx, p); err != nil {
			log.WithError(err).WithField("path", p).Warn("Failed to remove upload")
		}
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
