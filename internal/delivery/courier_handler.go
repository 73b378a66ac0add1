package delivery

import (
	"net/http"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CourierHandler struct {
	useCase domain.CourierUseCase
	log     *logrus.Logger
}

func NewCourierHandler(uc domain.CourierUseCase, logger *logrus.Logger) *CourierHandler {
	return &CourierHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CourierHandler) RegisterAdminRoutes(router gin.IRouter) {
	couriers := router.Group("/couriers")
	{
		couriers.GET("", h.ListCouriers)
		couriers.POST("", h.CreateCourier)
		couriers.PUT("/:id", h.UpdateCourier)
		couriers.DELETE("/:id", h.DeleteCourier)
	}
}

func (h *CourierHandler) CreateCourier(c *gin.Context) {
	var courier domain.Courier
	if err := c.ShouldBindJSON(&courier); err != nil {
		h.log.Warnf("Failed to bind JSON for create courier: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdCourier, err := h.useCase.CreateCourier(&courier)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create courier '%s': %v", courier.Name, err)
		ErrorResponse(c, statusCode, "Failed to create courier: "+err.Error())
		return
	}

	h.log.Infof("Courier %d created successfully", createdCourier.ID)
	SuccessResponse(c, http.StatusCreated, "Courier created successfully", createdCourier)
}

func (h *CourierHandler) UpdateCourier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid courier ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid courier ID format")
		return
	}

	var courier domain.Courier
	if err := c.ShouldBindJSON(&courier); err != nil {
		h.log.Warnf("Failed to bind JSON for update courier %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	courier.ID = id

	updatedCourier, err := h.useCase.UpdateCourier(&courier)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update courier %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update courier: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Courier updated successfully", updatedCourier)
}

func (h *CourierHandler) DeleteCourier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid courier ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid courier ID format")
		return
	}

	if err := h.useCase.DeleteCourier(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to delete courier %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete courier: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Courier deleted successfully", nil)
}

func (h *CourierHandler) ListCouriers(c *gin.Context) {
	couriers, err := h.useCase.ListCouriers()
	if err != nil {
		h.log.Errorf("Failed to list couriers: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve couriers")
		return
	}

	if len(couriers) == 0 {
		SuccessResponse(c, http.StatusOK, "No couriers found", []domain.Courier{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Couriers retrieved successfully", couriers)
}
