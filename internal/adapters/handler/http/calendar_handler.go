package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	svc    *services.CalendarService
	logger *zap.Logger
	now    func() time.Time
}

func NewCalendarHandler(svc *services.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/calendar", h.Month)
}

// Month godoc
// @Summary     Month grid with per-day figures
// @Tags        calendar
// @Produce     json
// @Param       year  query int false "Defaults to the current year"
// @Param       month query int false "Zero-based (0=January), defaults to the current month"
// @Success     200 {object} domain.MonthView
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Failure     503 {object} errorResponse
// @Security    BearerAuth
// @Router      /calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	now := h.now()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "year must be an integer"})
		return
	}
	month, err := intQuery(c, "month", int(now.Month())-1)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "month must be an integer"})
		return
	}

	view, err := h.svc.Month(c.Request.Context(), domain.MonthInput{
		UserID: userID,
		Year:   year,
		Month:  month,
		Now:    now,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
