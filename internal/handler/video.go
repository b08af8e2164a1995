package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionforge/api/internal/model"
	"github.com/motionforge/api/internal/registry"
	"github.com/motionforge/api/internal/service"
	"github.com/motionforge/api/pkg/response"
)

type VideoHandler struct {
	service   *service.VideoService
	validator *validator.Validate
}

func NewVideoHandler(svc *service.VideoService, v *validator.Validate) *VideoHandler {
	return &VideoHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/generate
func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.service.Submit(c.Context(), req.URL)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, model.GenerateResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: "Job queued. Poll /api/status/" + job.ID,
	})
}

// Status handles GET /api/status/:jobId
func (h *VideoHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, model.StatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Stage:       job.Stage,
		StageDetail: job.StageDetail,
		VideoPath:   job.VideoPath,
		Message:     job.Message,
	})
}

// formatValidationErrors converts validator errors into field/tag pairs for
// the error envelope.
func formatValidationErrors(err error) []map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	details := make([]map[string]string, 0, len(ve))
	for _, fe := range ve {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return details
}
