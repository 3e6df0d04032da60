package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/utils"
)

// TargetController manages votable content: feed posts and wiki entries.
type TargetController struct {
	db *gorm.DB
}

// NewTargetController creates a new controller instance.
func NewTargetController(db *gorm.DB) *TargetController {
	return &TargetController{db: db}
}

// CreateTarget allows authenticated users to publish a post or wiki entry.
func (t *TargetController) CreateTarget(ctx *gin.Context) {
	var req struct {
		Type       string `json:"type" binding:"required"`
		Title      string `json:"title" binding:"required,min=1"`
		Content    string `json:"content"`
		EntitySlug string `json:"entity_slug"`
		EntityName string `json:"entity_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	if !models.ValidTargetType(req.Type) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid target type")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	target := models.Target{
		Type:       req.Type,
		AuthorID:   userID,
		Title:      title,
		Content:    content,
		EntitySlug: strings.TrimSpace(req.EntitySlug),
		EntityName: strings.TrimSpace(req.EntityName),
	}
	if err := t.db.Create(&target).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create target")
		return
	}

	utils.InvalidateByPrefix("cache:targets:")
	utils.Success(ctx, target)
}

// ListTargets returns targets of a type ordered by score, paginated and cached.
func (t *TargetController) ListTargets(ctx *gin.Context) {
	targetType := ctx.Query("type")
	if targetType != "" && !models.ValidTargetType(targetType) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid target type")
		return
	}

	page, pageSize := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	cacheKey := "cache:targets:" + targetType + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	q := t.db.Model(&models.Target{})
	if targetType != "" {
		q = q.Where("type = ?", targetType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count targets")
		return
	}

	var targets []models.Target
	if err := q.Preload("Author").
		Order("score DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&targets).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list targets")
		return
	}

	payload := gin.H{
		"items": targets,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, payload)
}

// GetTarget returns a single target by id.
func (t *TargetController) GetTarget(ctx *gin.Context) {
	id := ctx.Param("id")
	var target models.Target
	if err := t.db.Preload("Author").First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "target not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load target")
		return
	}
	utils.Success(ctx, target)
}
