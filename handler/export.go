package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	export *service.ExportService
}

func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Download streams the filtered collections as an XLSX workbook.
func (h *ExportHandler) Download(c *gin.Context) {
	workbook, err := h.export.BuildWorkbook(
		service.AgreementFilter{
			Status:     c.Query("status"),
			Client:     c.Query("client"),
			Department: c.Query("department"),
		},
		service.AddendumFilter{
			ParentAgreementID: c.Query("parent"),
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export: " + err.Error()})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("agreements-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		// Headers are gone already; log-and-abort is all that is left.
		slog.Warn("failed to stream export workbook", "error", err)
		c.Abort()
	}
}
