package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
	"github.com/yourusername/marine-classifieds/utils"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewCategoryHandler(db *gorm.DB, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{db: db, config: cfg}
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

// CreateCategory creates a taxonomy node, optionally under a parent.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := h.db.First(&parent, *req.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	category := models.Category{
		Name:     req.Name,
		Slug:     slug,
		ParentID: req.ParentID,
	}

	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create category (slug may already exist)"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns all categories with their children preloaded.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Preload("Children").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryBySlug returns one category with its children.
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	var category models.Category
	if err := h.db.Preload("Children").Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID *uint   `json:"parent_id"`
	Detach   bool    `json:"detach"`
}

// UpdateCategory renames or re-parents a category. A re-parent that
// would make the category its own ancestor is rejected. Detach moves
// the category back to the top level.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Detach {
		category.ParentID = nil
	} else if req.ParentID != nil {
		if *req.ParentID == category.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own parent"})
			return
		}
		cycle, err := h.wouldCreateCycle(category.ID, *req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
		if cycle {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Re-parenting would create a cycle"})
			return
		}
		category.ParentID = req.ParentID
	}

	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a node. Children are promoted to the top
// level (parent set to NULL), never deleted; listings in the category
// keep existing with no category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Listing{}).Where("category_id = ?", category.ID).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// wouldCreateCycle walks up from newParentID and reports whether
// categoryID is already one of its ancestors.
func (h *CategoryHandler) wouldCreateCycle(categoryID, newParentID uint) (bool, error) {
	currentID := &newParentID
	for currentID != nil {
		if *currentID == categoryID {
			return true, nil
		}
		var parent models.Category
		if err := h.db.Select("id", "parent_id").First(&parent, *currentID).Error; err != nil {
			return false, err
		}
		currentID = parent.ParentID
	}
	return false, nil
}
