package delivery

import (
	"net/http"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CategoryHandler serves both categories and brands since they share the
// catalog use case.
type CategoryHandler struct {
	useCase domain.CatalogUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc domain.CatalogUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/categories", h.ListCategories)
	router.GET("/brands", h.ListBrands)
}

func (h *CategoryHandler) RegisterAdminRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
	brands := router.Group("/brands")
	{
		brands.POST("", h.CreateBrand)
		brands.PUT("/:id", h.UpdateBrand)
		brands.DELETE("/:id", h.DeleteBrand)
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		h.log.Warnf("Failed to bind JSON for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdCategory, err := h.useCase.CreateCategory(&category)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create category '%s': %v", category.Name, err)
		ErrorResponse(c, statusCode, "Failed to create category: "+err.Error())
		return
	}

	h.log.Infof("Category %d created successfully", createdCategory.ID)
	SuccessResponse(c, http.StatusCreated, "Category created successfully", createdCategory)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid category ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		h.log.Warnf("Failed to bind JSON for update category %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	category.ID = id

	updatedCategory, err := h.useCase.UpdateCategory(&category)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update category %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Category updated successfully", updatedCategory)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid category ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	if err := h.useCase.DeleteCategory(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to delete category %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	if len(categories) == 0 {
		SuccessResponse(c, http.StatusOK, "No categories found", []domain.Category{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) CreateBrand(c *gin.Context) {
	var brand domain.Brand
	if err := c.ShouldBindJSON(&brand); err != nil {
		h.log.Warnf("Failed to bind JSON for create brand: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdBrand, err := h.useCase.CreateBrand(&brand)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create brand '%s': %v", brand.Name, err)
		ErrorResponse(c, statusCode, "Failed to create brand: "+err.Error())
		return
	}

	h.log.Infof("Brand %d created successfully", createdBrand.ID)
	SuccessResponse(c, http.StatusCreated, "Brand created successfully", createdBrand)
}

func (h *CategoryHandler) UpdateBrand(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid brand ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid brand ID format")
		return
	}

	var brand domain.Brand
	if err := c.ShouldBindJSON(&brand); err != nil {
		h.log.Warnf("Failed to bind JSON for update brand %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	brand.ID = id

	updatedBrand, err := h.useCase.UpdateBrand(&brand)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update brand %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update brand: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Brand updated successfully", updatedBrand)
}

func (h *CategoryHandler) DeleteBrand(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid brand ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid brand ID format")
		return
	}

	if err := h.useCase.DeleteBrand(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to delete brand %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete brand: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Brand deleted successfully", nil)
}

func (h *CategoryHandler) ListBrands(c *gin.Context) {
	brands, err := h.useCase.ListBrands()
	if err != nil {
		h.log.Errorf("Failed to list brands: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve brands")
		return
	}

	if len(brands) == 0 {
		SuccessResponse(c, http.StatusOK, "No brands found", []domain.Brand{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Brands retrieved successfully", brands)
}
