package http

import (
	"net/http"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScoreHandler struct {
	svc    *services.ScoreService
	logger *zap.Logger
}

func NewScoreHandler(svc *services.ScoreService, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *ScoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/score", h.Get)
}

// Get godoc
// @Summary     Consistency score of the caller
// @Description Always 200. available=false means the count could not be read and score is 0.
// @Tags        score
// @Produce     json
// @Success     200 {object} domain.ConsistencyScore
// @Failure     401 {object} errorResponse
// @Security    BearerAuth
// @Router      /score [get]
func (h *ScoreHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.Snapshot(c.Request.Context(), userID))
}
