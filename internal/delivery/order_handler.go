package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"mixmall_backend/internal/domain"
	"mixmall_backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	checkout domain.CheckoutUseCase
	useCase  domain.OrderUseCase
	log      *logrus.Logger
}

func NewOrderHandler(checkout domain.CheckoutUseCase, uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		useCase:  uc,
		log:      logger,
	}
}

// RegisterCustomerRoutes mounts the endpoints available to any
// authenticated user.
func (h *OrderHandler) RegisterCustomerRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("/create", h.CreateOrder)
		orders.GET("/user", h.ListUserOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.POST("/:orderId/rate", h.RateOrderItem)
	}
}

// RegisterAdminRoutes mounts the management endpoints, guarded by AdminOnly.
func (h *OrderHandler) RegisterAdminRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListAllOrders)
		orders.PUT("/:orderId/status", h.UpdateOrderStatus)
		orders.PUT("/:orderId/courier", h.AssignCourier)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	h.log.Infof("Processing create order request for User ID: %d", userID)

	createdOrder, err := h.checkout.PlaceOrder(userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create order for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to create order: "+err.Error())
		return
	}

	metrics.OrdersTotal.WithLabelValues(string(createdOrder.Status)).Inc()
	metrics.OrderAmount.Observe(createdOrder.TotalPrice)

	h.log.Infof("Order %s created successfully for user %d", createdOrder.OrderID, userID)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", createdOrder)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	h.log.Infof("User %d requesting order details for Order ID: %s", userID, orderID)

	order, err := h.useCase.GetOrder(orderID, userID, isAdminRequest(c))
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get order %s (requested by user %d): %v", orderID, userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve order: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	limit, offset := paginationParams(c, h.log)
	h.log.Infof("Attempting to list orders for user %d with limit %d, offset %d", userID, limit, offset)

	orders, err := h.useCase.ListUserOrders(userID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	h.log.Infof("Retrieved %d orders for user %d", len(orders), userID)
	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found for this user", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var status domain.OrderStatus
	if statusStr := c.Query("status"); statusStr != "" {
		status = domain.OrderStatus(statusStr)
		if !domain.IsValidStatus(status) {
			ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Invalid status filter '%s'", statusStr))
			return
		}
	}

	limit, offset := paginationParams(c, h.log)

	orders, err := h.useCase.ListAllOrders(status, limit, offset)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to list all orders: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve orders")
		return
	}

	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var updateRequest struct {
		Status *domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&updateRequest); err != nil {
		h.log.Warnf("Failed to bind JSON for update order %s: %v", orderID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if updateRequest.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}
	if !domain.IsValidStatus(*updateRequest.Status) {
		ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: invalid status value '%s'", *updateRequest.Status))
		return
	}
	h.log.Infof("Attempting to update status for order %s to '%s'", orderID, *updateRequest.Status)

	updatedOrder, err := h.useCase.UpdateStatus(orderID, *updateRequest.Status)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update status for order %s: %v", orderID, err)
		ErrorResponse(c, statusCode, "Failed to update order status: "+err.Error())
		return
	}

	metrics.OrdersTotal.WithLabelValues(string(updatedOrder.Status)).Inc()

	h.log.Infof("Order status updated successfully for %s", updatedOrder.OrderID)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", updatedOrder)
}

func (h *OrderHandler) AssignCourier(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var requestBody struct {
		CourierID int64 `json:"courierId"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for assign courier on order %s: %v", orderID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.CourierID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'courierId' must be positive")
		return
	}

	updatedOrder, err := h.useCase.AssignCourier(orderID, requestBody.CourierID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to assign courier %d to order %s: %v", requestBody.CourierID, orderID, err)
		ErrorResponse(c, statusCode, "Failed to assign courier: "+err.Error())
		return
	}

	h.log.Infof("Courier %d assigned to order %s", requestBody.CourierID, orderID)
	SuccessResponse(c, http.StatusOK, "Courier assigned successfully", updatedOrder)
}

func (h *OrderHandler) RateOrderItem(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var requestBody struct {
		ProductID int64  `json:"productId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for rate order %s (user %d): %v", orderID, userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updatedOrder, err := h.useCase.RateItem(orderID, userID, requestBody.ProductID, requestBody.Rating, requestBody.Comment)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to rate product %d on order %s (user %d): %v", requestBody.ProductID, orderID, userID, err)
		ErrorResponse(c, statusCode, "Failed to rate product: "+err.Error())
		return
	}

	h.log.Infof("Product %d rated on order %s by user %d", requestBody.ProductID, orderID, userID)
	SuccessResponse(c, http.StatusOK, "Product rated successfully", updatedOrder)
}

func paginationParams(c *gin.Context, log *logrus.Logger) (int, int) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		log.Warnf("Invalid limit parameter '%s', using default 10", limitStr)
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		log.Warnf("Invalid offset parameter '%s', using default 0", offsetStr)
		offset = 0
	}
	return limit, offset
}
