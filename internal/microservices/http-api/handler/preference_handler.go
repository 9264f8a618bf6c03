package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notifyhub/internal/microservices/http-api/dto"
	"notifyhub/internal/microservices/http-api/service"
)

type PreferenceHandler struct {
	svc service.PreferenceService
}

func NewPreferenceHandler(svc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	preference, err := h.svc.Get(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preference)
}

// Update applies the supplied fields onto the stored preference; omitted
// fields keep their value so a client can PATCH-style flip single switches.
func (h *PreferenceHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	preference, err := h.svc.Get(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	applyBool := func(target *bool, value *bool) {
		if value != nil {
			*target = *value
		}
	}
	applyBool(&preference.PushEnabled, req.PushEnabled)
	applyBool(&preference.EmailEnabled, req.EmailEnabled)
	applyBool(&preference.SMSEnabled, req.SMSEnabled)
	applyBool(&preference.PushOrders, req.PushOrders)
	applyBool(&preference.PushMessages, req.PushMessages)
	applyBool(&preference.PushMarketing, req.PushMarketing)
	applyBool(&preference.PushSystem, req.PushSystem)
	applyBool(&preference.EmailOrders, req.EmailOrders)
	applyBool(&preference.EmailMessages, req.EmailMessages)
	applyBool(&preference.EmailMarketing, req.EmailMarketing)
	applyBool(&preference.EmailSystem, req.EmailSystem)
	applyBool(&preference.SMSOrders, req.SMSOrders)
	applyBool(&preference.SMSMessages, req.SMSMessages)
	applyBool(&preference.SMSMarketing, req.SMSMarketing)
	applyBool(&preference.SMSSystem, req.SMSSystem)

	if req.QuietHoursStart != nil {
		preference.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		preference.QuietHoursEnd = *req.QuietHoursEnd
	}
	if req.Timezone != nil {
		preference.Timezone = *req.Timezone
	}

	if err := h.svc.Update(ctx, preference); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preference)
}
