package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/leaguepairings/scheduler/internal/dto"
	"github.com/leaguepairings/scheduler/internal/scheduler"
	appErrors "github.com/leaguepairings/scheduler/pkg/errors"
	"github.com/leaguepairings/scheduler/pkg/response"
)

const dateLayout = "2006-01-02"

// ScheduleHandler exposes the single operation of §6: GET /schedule.
type ScheduleHandler struct {
	scheduler *scheduler.Scheduler
	validate  *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(s *scheduler.Scheduler) *ScheduleHandler {
	return &ScheduleHandler{scheduler: s, validate: validator.New()}
}

// Generate binds and validates the query string, runs one generation, and writes the
// fixed response shape of §6. Empty/infeasible outcomes are HTTP 200 with warnings,
// never errors (§7).
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, "start_date must be YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, "end_date must be YYYY-MM-DD"))
		return
	}

	result, err := h.scheduler.Generate(c.Request.Context(), startDate, endDate, req.Algorithm)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("X-Generation-ID", result.Metadata.GenerationID)
	response.JSON(c, http.StatusOK, dto.FromResult(result))
}
