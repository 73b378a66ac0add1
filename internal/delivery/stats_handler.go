package delivery

import (
	"net/http"

	"mixmall_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StatsHandler struct {
	useCase domain.StatsUseCase
	log     *logrus.Logger
}

func NewStatsHandler(uc domain.StatsUseCase, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *StatsHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.GET("/statistics", h.GetStatistics)
}

func (h *StatsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.useCase.GetStatistics()
	if err != nil {
		h.log.Errorf("Failed to compute statistics: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
