package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/utils"
)

// StatsController serves leaderboards and platform stats.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// TopTargets returns the highest-scored targets, optionally filtered by type.
func (s *StatsController) TopTargets(ctx *gin.Context) {
	targetType := ctx.DefaultQuery("type", models.TargetTypePost)
	if !models.ValidTargetType(targetType) {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid target type")
		return
	}
	limit := parseLimit(ctx.DefaultQuery("limit", "10"), 50)

	cacheKey := "cache:stats:top_targets:" + targetType + ":" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var targets []models.Target
	if err := s.db.Where("type = ?", targetType).
		Order("score DESC, id ASC").
		Limit(limit).
		Preload("Author").
		Find(&targets).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load leaderboard")
		return
	}

	payload := gin.H{"type": targetType, "targets": targets}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// TopVoters returns users ranked by accumulated points.
func (s *StatsController) TopVoters(ctx *gin.Context) {
	limit := parseLimit(ctx.DefaultQuery("limit", "10"), 50)

	cacheKey := "cache:stats:top_voters:" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var users []models.User
	if err := s.db.Order("points DESC, id ASC").Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to load leaderboard")
		return
	}

	rows := make([]gin.H, 0, len(users))
	for _, u := range users {
		rows = append(rows, gin.H{
			"id":       u.ID,
			"username": u.Username,
			"level":    u.Level,
			"points":   u.Points,
		})
	}

	payload := gin.H{"voters": rows}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// DailyTraffic returns per-path view counts for a given day.
func (s *StatsController) DailyTraffic(ctx *gin.Context) {
	dateStr := ctx.DefaultQuery("date", time.Now().Format("2006-01-02"))
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid date, expected YYYY-MM-DD")
		return
	}

	var views []models.PageView
	if err := s.db.Where("date = ?", day.Format("2006-01-02")).
		Order("count DESC").
		Limit(100).
		Find(&views).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load traffic")
		return
	}

	var total int64
	for _, v := range views {
		total += v.Count
	}

	utils.Success(ctx, gin.H{
		"date":  dateStr,
		"total": total,
		"paths": views,
	})
}

func parseLimit(s string, maxN int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 10
	}
	if n > maxN {
		return maxN
	}
	return n
}
