package handler

import (
	"net/http"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/middleware"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

type UIStateHandler struct {
	uistate *service.UIStateService
}

func NewUIStateHandler(uistate *service.UIStateService) *UIStateHandler {
	return &UIStateHandler{uistate: uistate}
}

type tabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

type modalRequest struct {
	Modal    string `json:"modal" binding:"required"`
	TargetID string `json:"target_id"`
}

// Get returns the session's UI coordination state
func (h *UIStateHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.uistate.Get(middleware.GetUsername(c)))
}

// SetTab switches the active tab
func (h *UIStateHandler) SetTab(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tab is required"})
		return
	}
	c.JSON(http.StatusOK, h.uistate.SetActiveTab(middleware.GetUsername(c), req.Tab))
}

// OpenModal opens a modal, validating the editing target when one is named
func (h *UIStateHandler) OpenModal(c *gin.Context) {
	var req modalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Modal is required"})
		return
	}

	state, err := h.uistate.OpenModal(middleware.GetUsername(c), req.Modal, req.TargetID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// CloseModal dismisses the open modal and discards in-progress edits
func (h *UIStateHandler) CloseModal(c *gin.Context) {
	c.JSON(http.StatusOK, h.uistate.CloseModal(middleware.GetUsername(c)))
}
