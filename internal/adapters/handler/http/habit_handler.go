package http

import (
	"net/http"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HabitHandler struct {
	svc    *services.HabitService
	logger *zap.Logger
}

func NewHabitHandler(svc *services.HabitService, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{
		svc:    svc,
		logger: logger,
	}
}

type createHabitRequest struct {
	Name       string `json:"name" binding:"required"`
	Recurrence []int  `json:"recurrence" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
	}
}

// Create godoc
// @Summary     Create a habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Param       body body createHabitRequest true "Habit definition, recurrence holds weekdays 0=Sunday..6=Saturday"
// @Success     201 {object} domain.Habit
// @Failure     400 {object} errorResponse
// @Failure     401 {object} errorResponse
// @Failure     503 {object} errorResponse
// @Security    BearerAuth
// @Router      /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:     userID,
		Name:       req.Name,
		Recurrence: req.Recurrence,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary     List the caller's habits
// @Tags        habits
// @Produce     json
// @Success     200 {array}  domain.Habit
// @Failure     401 {object} errorResponse
// @Failure     503 {object} errorResponse
// @Security    BearerAuth
// @Router      /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	list, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
