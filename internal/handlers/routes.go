package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/harentsoaR/dentist-platform/internal/metrics"
	"github.com/harentsoaR/dentist-platform/internal/middleware"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

// RouterConfig carries what the router needs beyond the handlers.
type RouterConfig struct {
	JWT         *utils.JWTManager
	Metrics     *metrics.Collector
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(origins) == 0 || lo.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(h *Handler, rc RouterConfig) *gin.Engine {
	r := gin.New()

	// --- Middleware ---
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(h.Log))
	if rc.Metrics != nil {
		r.Use(rc.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(rc.CORSOrigins)))

	// --- Infrastructure ---
	r.GET("/health", h.Health)
	if rc.Metrics != nil {
		r.GET("/metrics", gin.WrapH(rc.Metrics.Handler()))
	}
	r.GET("/uploads/*filepath", h.ServeUpload)

	auth := middleware.Authenticate(rc.JWT)
	patient := middleware.RequireRole(models.RolePatient)
	dentist := middleware.RequireRole(models.RoleDentist)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")

	// --- Auth Routes ---
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/me", auth, h.GetCurrentUser)
		authRoutes.PUT("/me", auth, h.UpdateCurrentUser)
		authRoutes.PATCH("/me/password", auth, h.ChangePassword)
	}

	// --- Dentist Routes ---
	dentists := api.Group("/dentists")
	{
		dentists.GET("", h.ListDentists)
		dentists.GET("/me", auth, dentist, h.GetMyDentistProfile)
		dentists.GET("/:id", h.GetDentist)
		dentists.POST("", auth, dentist, h.CreateDentistProfile)
		dentists.PUT("/:id", auth, dentist, h.UpdateDentistProfile)
		dentists.DELETE("/:id", auth, dentist, h.DeleteDentistProfile)

		dentists.GET("/:id/images", h.ListImages)
		dentists.POST("/:id/images", auth, dentist, h.UploadImage)
		dentists.DELETE("/:id/images/:imageId", auth, dentist, h.DeleteImage)

		dentists.GET("/:id/testimonials", h.ListTestimonials)
		dentists.POST("/:id/testimonials", auth, dentist, h.UploadTestimonial)
		dentists.DELETE("/:id/testimonials/:testimonialId", auth, dentist, h.DeleteTestimonial)

		dentists.GET("/:id/reviews", h.ListReviews)
		dentists.POST("/:id/reviews", auth, patient, h.AddReview)
		dentists.DELETE("/:id/reviews/:reviewId", auth, h.DeleteReview)

		dentists.GET("/:id/slots", h.ListDentistSlots)
	}

	// --- Slot Routes ---
	slots := api.Group("/my-slots", auth, dentist)
	{
		slots.GET("", h.ListMySlots)
		slots.POST("", h.AddSlot)
		slots.DELETE("/:slotId", h.DeleteSlot)
	}

	// --- Appointment Routes ---
	appointments := api.Group("/appointments", auth)
	{
		appointments.POST("", patient, h.BookAppointment)
		appointments.GET("/my-appointments", patient, h.ListMyAppointments)
		appointments.GET("/my-appointments/:id", patient, h.GetMyAppointment)
		appointments.PATCH("/:id/cancel", patient, h.CancelAppointment)
		appointments.PATCH("/:id/reschedule", patient, h.RescheduleAppointment)
		appointments.GET("/dentist/patients", dentist, h.ListDentistAppointments)
		appointments.PATCH("/:id/status", dentist, h.UpdateAppointmentStatus)
	}

	// --- Admin Routes ---
	adminRoutes := api.Group("/admin", auth, admin)
	{
		adminRoutes.GET("/stats", h.AdminStats)
		adminRoutes.GET("/dentists", h.AdminListDentists)
		adminRoutes.GET("/dentists/:id", h.AdminGetDentist)
		adminRoutes.PATCH("/dentists/:id/status", h.AdminUpdateDentistStatus)
		adminRoutes.PUT("/dentists/:id", h.AdminUpdateDentist)
		adminRoutes.DELETE("/dentists/:id", h.AdminDeleteDentist)
		adminRoutes.GET("/users", h.AdminListUsers)
		adminRoutes.DELETE("/users/:id", h.AdminDeleteUser)
	}

	return r
}
