package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/middleware"
	"github.com/harentsoaR/dentist-platform/internal/services"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// --- CLINIC IMAGES ---

func (h *Handler) ListImages(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	images, err := h.Services.Media.ListImages(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	file, err := formFile(c, "image", uploads.ImagePolicy)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var caption *string
	if v, present := c.GetPostForm("caption"); present {
		caption = &v
	}

	image, err := h.Services.Media.AddImage(c.Request.Context(), middleware.CurrentIdentity(c), id, caption, file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Image uploaded",
		"id":        image.ID,
		"image_url": image.ImageURL,
		"caption":   image.Caption,
	})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	imageID, ok := h.idParam(c, "imageId")
	if !ok {
		return
	}
	if err := h.Services.Media.DeleteImage(c.Request.Context(), middleware.CurrentIdentity(c), imageID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

// --- VIDEO TESTIMONIALS ---

func (h *Handler) ListTestimonials(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	testimonials, err := h.Services.Media.ListTestimonials(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

func (h *Handler) UploadTestimonial(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	video, err := formFile(c, "video", uploads.VideoPolicy)
	if err != nil {
		h.respondError(c, err)
		return
	}

	in := services.TestimonialInput{PatientName: c.PostForm("patient_name")}
	if v, present := c.GetPostForm("thumbnail_url"); present {
		in.ThumbnailURL = &v
	}
	if v, present := c.GetPostForm("description"); present {
		in.Description = &v
	}

	testimonial, err := h.Services.Media.AddTestimonial(c.Request.Context(), middleware.CurrentIdentity(c), id, in, video)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Testimonial uploaded",
		"id":        testimonial.ID,
		"video_url": testimonial.VideoURL,
	})
}

func (h *Handler) DeleteTestimonial(c *gin.Context) {
	testimonialID, ok := h.idParam(c, "testimonialId")
	if !ok {
		return
	}
	if err := h.Services.Media.DeleteTestimonial(c.Request.Context(), middleware.CurrentIdentity(c), testimonialID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted"})
}

// --- REVIEWS ---

func (h *Handler) ListReviews(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.Services.Media.ListReviews(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) AddReview(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.Services.Media.AddReview(c.Request.Context(), middleware.CurrentIdentity(c), id, req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted successfully", "id": review.ID})
}

func (h *Handler) DeleteReview(c *gin.Context) {
	reviewID, ok := h.idParam(c, "reviewId")
	if !ok {
		return
	}
	if err := h.Services.Media.DeleteReview(c.Request.Context(), middleware.CurrentIdentity(c), reviewID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
