package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/utils"
)

// NotificationController lets users read messages written by background flows.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// List returns the user's notifications, newest first.
func (n *NotificationController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	unreadOnly := ctx.DefaultQuery("unread", "false") == "true"

	query := n.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("id DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load notifications")
		return
	}

	var unread int64
	n.db.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&unread)

	utils.Success(ctx, gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkRead flags a single notification as read.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid notification id")
		return
	}

	result := n.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to update notification")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40480, "notification not found")
		return
	}

	utils.Success(ctx, gin.H{"id": id, "read": true})
}

// MarkAllRead flags every unread notification for the user as read.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	result := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to update notifications")
		return
	}

	utils.Success(ctx, gin.H{"updated": result.RowsAffected})
}
