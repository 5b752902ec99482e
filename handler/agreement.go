package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

// DocumentStore is the object storage surface the handlers need. Satisfied
// by service.DocumentService; faked in tests.
type DocumentStore interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type AgreementHandler struct {
	workflow *service.Workflow
	store    *service.Store
	docs     DocumentStore
}

func NewAgreementHandler(workflow *service.Workflow, store *service.Store, docs DocumentStore) *AgreementHandler {
	return &AgreementHandler{
		workflow: workflow,
		store:    store,
		docs:     docs,
	}
}

type agreementPatchRequest struct {
	Client           *string         `json:"client"`
	Department       *string         `json:"department"`
	AgreementType    *string         `json:"agreement_type"`
	EntityType       *string         `json:"entity_type"`
	GroupCompanies   *[]string       `json:"group_companies"`
	StartDate        *time.Time      `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	OpenEnded        *bool           `json:"open_ended"`
	TotalValue       *float64        `json:"total_value"`
	Currency         *string         `json:"currency"`
	Branches         *[]model.Branch `json:"branches"`
	ImportantClauses *[]model.Clause `json:"important_clauses"`
	Contact          *model.Contact  `json:"contact"`
}

func (r *agreementPatchRequest) toPatch() service.AgreementPatch {
	return service.AgreementPatch{
		Client:           r.Client,
		Department:       r.Department,
		AgreementType:    r.AgreementType,
		EntityType:       r.EntityType,
		GroupCompanies:   r.GroupCompanies,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		OpenEnded:        r.OpenEnded,
		TotalValue:       r.TotalValue,
		Currency:         r.Currency,
		Branches:         r.Branches,
		ImportantClauses: r.ImportantClauses,
		Contact:          r.Contact,
	}
}

type advanceRequest struct {
	FinalFileKey  string `json:"final_file_key"`
	FinalFileName string `json:"final_file_name"`
}

type priorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// List returns the filtered agreement collection
func (h *AgreementHandler) List(c *gin.Context) {
	agreements := h.store.ListAgreements(service.AgreementFilter{
		Status:     c.Query("status"),
		Client:     c.Query("client"),
		Department: c.Query("department"),
	})

	c.JSON(http.StatusOK, gin.H{
		"agreements": agreements,
		"total":      len(agreements),
	})
}

// Get returns a single agreement
func (h *AgreementHandler) Get(c *gin.Context) {
	agreement, err := h.store.GetAgreement(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// Create submits a new agreement draft
func (h *AgreementHandler) Create(c *gin.Context) {
	var draft model.Agreement
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	agreement, err := h.workflow.SubmitAgreement(sessionFrom(c), draft)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agreement)
}

// Update applies a partial edit to an agreement
func (h *AgreementHandler) Update(c *gin.Context) {
	var req agreementPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	agreement, err := h.workflow.EditAgreement(sessionFrom(c), c.Param("id"), req.toPatch())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// Advance moves the agreement one step along the execution pipeline. The
// final step accepts an optional signed document reference in the body.
func (h *AgreementHandler) Advance(c *gin.Context) {
	var req advanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	var finalDoc *model.UploadStatus
	if req.FinalFileKey != "" {
		finalDoc = &model.UploadStatus{
			Uploaded: true,
			FileKey:  req.FinalFileKey,
			FileName: req.FinalFileName,
		}
	}

	agreement, err := h.workflow.AdvanceAgreementStatus(sessionFrom(c), c.Param("id"), finalDoc)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// Reject resets the agreement to the start of the pipeline
func (h *AgreementHandler) Reject(c *gin.Context) {
	agreement, err := h.workflow.RejectAgreement(sessionFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// SetPriority sets the agreement priority
func (h *AgreementHandler) SetPriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Priority is required"})
		return
	}

	agreement, err := h.workflow.SetAgreementPriority(sessionFrom(c), c.Param("id"), req.Priority)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// UploadDocument stores a document for the given slot and records it on the
// agreement.
func (h *AgreementHandler) UploadDocument(c *gin.Context) {
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

	objectKey := service.ObjectKey("agreements", id, slot, header.Filename)
	if err := h.docs.Upload(c.Request.Context(), objectKey, file, header.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	agreement, err := h.workflow.AttachAgreementDocument(sessionFrom(c), id, slot, model.UploadStatus{
		Uploaded: true,
		FileKey:  objectKey,
		FileName: header.Filename,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// DocumentURL returns a presigned download URL for an uploaded slot
func (h *AgreementHandler) DocumentURL(c *gin.Context) {
	agreement, err := h.store.GetAgreement(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	slot := c.Param("slot")
	status, ok := agreement.Uploads[slot]
	if !ok || !status.Uploaded {
		c.JSON(http.StatusNotFound, gin.H{"error": "No document uploaded for slot " + slot})
		return
	}

	url, err := h.docs.PresignedURL(c.Request.Context(), status.FileKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "file_name": status.FileName})
}

// Delete removes an agreement outright, cleaning up its stored documents
func (h *AgreementHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	agreement, err := h.store.GetAgreement(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.workflow.RemoveAgreement(sessionFrom(c), id); err != nil {
		writeServiceError(c, err)
		return
	}

	for slot, status := range agreement.Uploads {
		if !status.Uploaded || status.FileKey == "" {
			continue
		}
		if err := h.docs.Delete(c.Request.Context(), status.FileKey); err != nil {
			slog.Warn("failed to delete document", "agreement_id", id, "slot", slot, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agreement deleted"})
}
