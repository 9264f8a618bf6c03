package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notifyhub/internal/microservices/http-api/dto"
	"notifyhub/internal/microservices/http-api/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	// dispatch endpoints are for marketplace owners / internal callers
	rg.POST("", ownerOnly, h.Send)
	rg.POST("/bulk", ownerOnly, h.SendBulk)
	rg.POST("/from-template", ownerOnly, h.SendFromTemplate)

	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.GET("/:id/logs", ownerOnly, h.DeliveryLogs)
	rg.PUT("/:id/read", h.MarkAsRead)
	rg.PUT("/read-all", h.MarkAllAsRead)
}

func (h *NotificationHandler) Send(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	accepted := h.svc.Send(ctx, service.SendInput{
		UserID:       req.UserID,
		Category:     req.Category,
		Channel:      req.Channel,
		Title:        req.Title,
		Body:         req.Body,
		Payload:      req.Payload,
		Priority:     req.Priority,
		ScheduledFor: req.ScheduledFor,
		RelatedType:  req.RelatedType,
		RelatedID:    req.RelatedID,
	})

	c.JSON(http.StatusOK, dto.SendResponse{Accepted: accepted})
}

func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req dto.BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result := h.svc.SendBulk(ctx, req.UserIDs, service.SendInput{
		Category:     req.Category,
		Channel:      req.Channel,
		Title:        req.Title,
		Body:         req.Body,
		Payload:      req.Payload,
		Priority:     req.Priority,
		ScheduledFor: req.ScheduledFor,
	})

	c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) SendFromTemplate(c *gin.Context) {
	var req dto.TemplateSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	accepted := h.svc.SendFromTemplate(ctx, service.TemplateSendInput{
		UserID:       req.UserID,
		TemplateName: req.TemplateName,
		Channel:      req.Channel,
		Context:      req.Context,
		Payload:      req.Payload,
		Priority:     req.Priority,
		ScheduledFor: req.ScheduledFor,
	})

	c.JSON(http.StatusOK, dto.SendResponse{Accepted: accepted})
}

// List returns the authenticated user's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.ListForUser(ctx, userID.(string), unreadOnly, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{Items: notifications, Total: len(notifications)})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// DeliveryLogs returns the attempt-by-attempt delivery history of a
// notification, for owners chasing down why something never arrived
func (h *NotificationHandler) DeliveryLogs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	logs, err := h.svc.DeliveryLogs(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": logs, "total": len(logs)})
}

// MarkAsRead marks a specific notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.MarkRead(ctx, userID.(string), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found or not readable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllAsRead marks every readable notification of the user as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	count, err := h.svc.MarkAllRead(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "marked_count": count})
}
