package delivery

import (
	"net/http"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints.
func (h *UserHandler) RegisterPublicRoutes(router gin.IRouter) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterProfileRoutes mounts the endpoints that require a valid token.
func (h *UserHandler) RegisterProfileRoutes(router gin.IRouter) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/addresses", h.ListAddresses)
		profile.POST("/addresses", h.AddAddress)
		profile.PUT("/addresses/:addressId", h.UpdateAddress)
		profile.DELETE("/addresses/:addressId", h.DeleteAddress)
		profile.PUT("/addresses/:addressId/main", h.SetMainAddress)
	}
}

// RegisterAdminRoutes mounts admin account management, guarded by AdminOnly.
func (h *UserHandler) RegisterAdminRoutes(router gin.IRouter) {
	admins := router.Group("/admins")
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.CreateAdmin)
		admins.DELETE("/:id", h.DeleteAdmin)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var requestBody struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for registration: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Register(requestBody.Name, requestBody.Phone, requestBody.Email, requestBody.Password)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Registration failed for phone %s: %v", requestBody.Phone, err)
		ErrorResponse(c, statusCode, "Registration failed: "+err.Error())
		return
	}

	h.log.Infof("User %d registered successfully", result.User.ID)
	SuccessResponse(c, http.StatusCreated, "User registered successfully", result)
}

func (h *UserHandler) Login(c *gin.Context) {
	var requestBody struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Login(requestBody.Phone, requestBody.Password)
	if err != nil {
		h.log.Warnf("Login failed for phone %s: %v", requestBody.Phone, err)
		ErrorResponse(c, http.StatusUnauthorized, "Login failed: "+err.Error())
		return
	}

	h.log.Infof("User %d logged in successfully", result.User.ID)
	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	user, err := h.useCase.GetProfile(userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get profile for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve profile: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Warnf("Failed to bind JSON for profile update (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields provided for update")
		return
	}

	user, err := h.useCase.UpdateProfile(userID, updates)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to update profile for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to update profile: "+err.Error())
		return
	}

	h.log.Infof("Profile updated successfully for user %d", userID)
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) ListAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	user, err := h.useCase.GetProfile(userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to list addresses for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve addresses: "+err.Error())
		return
	}

	if len(user.Addresses) == 0 {
		SuccessResponse(c, http.StatusOK, "No addresses found", []domain.Address{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Addresses retrieved successfully", user.Addresses)
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var address domain.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		h.log.Warnf("Failed to bind JSON for add address (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.AddAddress(userID, &address)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to add address for user %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to add address: "+err.Error())
		return
	}

	h.log.Infof("Address %d added for user %d", created.ID, userID)
	SuccessResponse(c, http.StatusCreated, "Address added successfully", created)
}

func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addressID, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil || addressID <= 0 {
		h.log.Warnf("Invalid address ID parameter: %s", c.Param("addressId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	var address domain.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		h.log.Warnf("Failed to bind JSON for update address %d (user %d): %v", addressID, userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	address.ID = addressID

	updated, err := h.useCase.UpdateAddress(userID, &address)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to update address %d for user %d: %v", addressID, userID, err)
		ErrorResponse(c, statusCode, "Failed to update address: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Address updated successfully", updated)
}

func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addressID, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil || addressID <= 0 {
		h.log.Warnf("Invalid address ID parameter: %s", c.Param("addressId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	if err := h.useCase.DeleteAddress(userID, addressID); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete address %d for user %d: %v", addressID, userID, err)
		ErrorResponse(c, statusCode, "Failed to delete address: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Address deleted successfully", nil)
}

func (h *UserHandler) SetMainAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addressID, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil || addressID <= 0 {
		h.log.Warnf("Invalid address ID parameter: %s", c.Param("addressId"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	if err := h.useCase.SetMainAddress(userID, addressID); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to set main address %d for user %d: %v", addressID, userID, err)
		ErrorResponse(c, statusCode, "Failed to set main address: "+err.Error())
		return
	}

	h.log.Infof("Main address set to %d for user %d", addressID, userID)
	SuccessResponse(c, http.StatusOK, "Main address set successfully", nil)
}

func (h *UserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.useCase.ListAdmins()
	if err != nil {
		h.log.Errorf("Failed to list admins: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve admins")
		return
	}

	if len(admins) == 0 {
		SuccessResponse(c, http.StatusOK, "No admins found", []domain.User{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Admins retrieved successfully", admins)
}

func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var requestBody struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for create admin: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	admin, err := h.useCase.CreateAdmin(requestBody.Name, requestBody.Phone, requestBody.Password)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to create admin %s: %v", requestBody.Phone, err)
		ErrorResponse(c, statusCode, "Failed to create admin: "+err.Error())
		return
	}

	h.log.Infof("Admin %d created successfully", admin.ID)
	SuccessResponse(c, http.StatusCreated, "Admin created successfully", admin)
}

func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid admin ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid admin ID format")
		return
	}

	requestorID, _ := currentUserID(c)
	if requestorID == id {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request: cannot delete your own admin account")
		return
	}

	if err := h.useCase.DeleteAdmin(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete admin %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete admin: "+err.Error())
		return
	}

	h.log.Infof("Admin %d deleted successfully", id)
	SuccessResponse(c, http.StatusOK, "Admin deleted successfully", nil)
}
