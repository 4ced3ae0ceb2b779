package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChecklistHandler struct {
	svc    *services.ChecklistService
	logger *zap.Logger
	now    func() time.Time
}

func NewChecklistHandler(svc *services.ChecklistService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
}

type toggleRequest struct {
	Date      string `json:"date"`
	Completed *bool  `json:"completed" binding:"required"`
}

// checklistFailure carries the placeholder list next to the error so a client
// can still render something.
type checklistFailure struct {
	Error     string            `json:"error"`
	Checklist *domain.Checklist `json:"checklist"`
}

func (h *ChecklistHandler) RegisterRoutes(router *gin.RouterGroup) {
	checklist := router.Group("/checklist")
	{
		checklist.GET("", h.Get)
		checklist.PUT("/:habit_id", h.Toggle)
	}
}

// parseDay reads a YYYY-MM-DD day, defaulting to today.
func (h *ChecklistHandler) parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return domain.StartOfDay(h.now()), nil
	}
	return domain.ParseDate(raw)
}

// Get godoc
// @Summary     Checklist of habits due on a date
// @Tags        checklist
// @Produce     json
// @Param       date query string false "YYYY-MM-DD, defaults to today"
// @Success     200 {object} domain.Checklist
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Failure     503 {object} checklistFailure
// @Security    BearerAuth
// @Router      /checklist [get]
func (h *ChecklistHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	day, err := h.parseDay(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	checklist, err := h.svc.GetChecklist(c.Request.Context(), userID, day)
	if err != nil {
		h.respondDegraded(c, day, nil, err)
		return
	}

	c.JSON(http.StatusOK, checklist)
}

// Toggle godoc
// @Summary     Mark or unmark a habit for a date
// @Description Returns the checklist as re-read from the store after the write.
// @Tags        checklist
// @Accept      json
// @Produce     json
// @Param       habit_id path string        true "Habit id"
// @Param       body     body toggleRequest true "Target state; date defaults to today"
// @Success     200 {object} domain.Checklist
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Failure     503 {object} errorResponse
// @Security    BearerAuth
// @Router      /checklist/{habit_id} [put]
func (h *ChecklistHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	day, err := h.parseDay(req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	checklist, err := h.svc.Toggle(c.Request.Context(), services.ToggleInput{
		UserID:    userID,
		HabitID:   c.Param("habit_id"),
		Date:      day,
		Completed: *req.Completed,
	})
	if err != nil {
		h.respondDegraded(c, day, checklist, err)
		return
	}

	c.JSON(http.StatusOK, checklist)
}

// respondDegraded answers read failures with the placeholder checklist.
// Everything else goes through the regular error mapping.
func (h *ChecklistHandler) respondDegraded(c *gin.Context, day time.Time, placeholder *domain.Checklist, err error) {
	if !errors.Is(err, domain.ErrFetch) {
		respondError(c, h.logger, err)
		return
	}
	status := statusFor(err)

	if placeholder == nil {
		placeholder = domain.FailedChecklist(domain.FormatDate(day))
	}
	_ = c.Error(err)
	h.logger.Warn("checklist degraded", zap.String("date", placeholder.Date), zap.Error(err))
	c.JSON(status, checklistFailure{
		Error:     messageFor(status, err),
		Checklist: placeholder,
	})
}
