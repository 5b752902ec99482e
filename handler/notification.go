package handler

import (
	"net/http"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store  *service.Store
	center *service.NotificationCenter
}

func NewNotificationHandler(store *service.Store, center *service.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{
		store:  store,
		center: center,
	}
}

// List returns the current notification set and unread count
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.center.List(),
		"unread_count":  h.center.UnreadCount(),
	})
}

// Refresh recomputes notifications from the agreement collection and
// returns the fresh set.
func (h *NotificationHandler) Refresh(c *gin.Context) {
	h.center.Refresh(h.store.ListAgreements(service.AgreementFilter{}))
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.center.List(),
		"unread_count":  h.center.UnreadCount(),
	})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.center.MarkAsRead(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": h.center.UnreadCount()})
}

// MarkAllRead marks every notification as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	h.center.MarkAllAsRead()
	c.JSON(http.StatusOK, gin.H{"unread_count": h.center.UnreadCount()})
}

// Remove deletes one notification
func (h *NotificationHandler) Remove(c *gin.Context) {
	if err := h.center.Remove(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": h.center.UnreadCount()})
}

// Clear deletes every notification
func (h *NotificationHandler) Clear(c *gin.Context) {
	h.center.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}
