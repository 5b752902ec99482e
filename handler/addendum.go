package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

type AddendumHandler struct {
	workflow *service.Workflow
	store    *service.Store
	docs     DocumentStore
}

func NewAddendumHandler(workflow *service.Workflow, store *service.Store, docs DocumentStore) *AddendumHandler {
	return &AddendumHandler{
		workflow: workflow,
		store:    store,
		docs:     docs,
	}
}

type addendumPatchRequest struct {
	Title               *string                      `json:"title"`
	Description         *string                      `json:"description"`
	Reason              *string                      `json:"reason"`
	Impact              *string                      `json:"impact"`
	EffectiveDate       *time.Time                   `json:"effective_date"`
	Branches            *[]model.Branch              `json:"branches"`
	ClauseModifications *[]model.ClauseModification `json:"clause_modifications"`
}

func (r *addendumPatchRequest) toPatch() service.AddendumPatch {
	return service.AddendumPatch{
		Title:               r.Title,
		Description:         r.Description,
		Reason:              r.Reason,
		Impact:              r.Impact,
		EffectiveDate:       r.EffectiveDate,
		Branches:            r.Branches,
		ClauseModifications: r.ClauseModifications,
	}
}

type addendumStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// addendumView decorates an addendum with the computed parent client name.
type addendumView struct {
	model.Addendum
	ParentClientName string `json:"parent_client_name"`
}

func (h *AddendumHandler) view(ad model.Addendum) addendumView {
	name, err := h.store.ParentClientName(ad.ID)
	if err != nil {
		name = ""
	}
	return addendumView{Addendum: ad, ParentClientName: name}
}

// List returns the filtered addendum collection
func (h *AddendumHandler) List(c *gin.Context) {
	addendums := h.store.ListAddendums(service.AddendumFilter{
		ParentAgreementID: c.Query("parent"),
		Status:            c.Query("status"),
	})

	views := make([]addendumView, len(addendums))
	for i, ad := range addendums {
		views[i] = h.view(ad)
	}

	c.JSON(http.StatusOK, gin.H{
		"addendums": views,
		"total":     len(views),
	})
}

// Get returns a single addendum with its computed parent client name
func (h *AddendumHandler) Get(c *gin.Context) {
	addendum, err := h.store.GetAddendum(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(addendum))
}

// Create submits a new addendum request
func (h *AddendumHandler) Create(c *gin.Context) {
	var draft model.Addendum
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	addendum, err := h.workflow.SubmitAddendum(sessionFrom(c), draft)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.view(addendum))
}

// Update applies a partial edit to a pending addendum
func (h *AddendumHandler) Update(c *gin.Context) {
	var req addendumPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	addendum, err := h.workflow.EditAddendum(sessionFrom(c), c.Param("id"), req.toPatch())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(addendum))
}

// SetStatus assigns a review status to the addendum
func (h *AddendumHandler) SetStatus(c *gin.Context) {
	var req addendumStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	addendum, err := h.workflow.SetAddendumStatus(sessionFrom(c), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(addendum))
}

// UploadDocument stores a file for the given slot and records it on the
// addendum.
func (h *AddendumHandler) UploadDocument(c *gin.Context) {
	id := c.Param("id")
	slot := c.Param("slot")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := service.ObjectKey("addendums", id, slot, header.Filename)
	if err := h.docs.Upload(c.Request.Context(), objectKey, file, header.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	addendum, err := h.workflow.AttachAddendumDocument(sessionFrom(c), id, slot, model.UploadStatus{
		Uploaded: true,
		FileKey:  objectKey,
		FileName: header.Filename,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(addendum))
}

// Delete removes an addendum outright, cleaning up its stored documents
func (h *AddendumHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	addendum, err := h.store.GetAddendum(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.workflow.RemoveAddendum(sessionFrom(c), id); err != nil {
		writeServiceError(c, err)
		return
	}

	for slot, status := range addendum.UploadedFiles {
		if !status.Uploaded || status.FileKey == "" {
			continue
		}
		if err := h.docs.Delete(c.Request.Context(), status.FileKey); err != nil {
			slog.Warn("failed to delete document", "addendum_id", id, "slot", slot, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Addendum deleted"})
}
