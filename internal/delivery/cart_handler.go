package delivery

import (
	"net/http"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:productId", h.UpdateItem)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	cart, err := h.useCase.GetCart(userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to get cart for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve cart: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var requestBody struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for add cart item (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Quantity == 0 {
		requestBody.Quantity = 1
	}

	cart, err := h.useCase.AddItem(userID, requestBody.ProductID, requestBody.Quantity)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to add product %d to cart of user %d: %v", requestBody.ProductID, userID, err)
		ErrorResponse(c, statusCode, "Failed to add item to cart: "+err.Error())
		return
	}

	h.log.Infof("Product %d added to cart of user %d", requestBody.ProductID, userID)
	SuccessResponse(c, http.StatusOK, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("productId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var requestBody struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update cart item (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.useCase.UpdateItem(userID, productID, requestBody.Quantity)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to update product %d in cart of user %d: %v", productID, userID, err)
		ErrorResponse(c, statusCode, "Failed to update cart item: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart item updated", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("productId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	cart, err := h.useCase.RemoveItem(userID, productID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to remove product %d from cart of user %d: %v", productID, userID, err)
		ErrorResponse(c, statusCode, "Failed to remove cart item: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart item removed", cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	if err := h.useCase.ClearCart(userID); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to clear cart of user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to clear cart: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart cleared", nil)
}
