package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func TestExportHandlerDownload(t *testing.T) {
	store := service.NewStore()
	workflow := service.NewWorkflow(store)
	agh := NewAgreementHandler(workflow, store, newFakeDocs())
	createTestAgreement(t, agh)

	h := NewExportHandler(service.NewExportService(store))

	router := gin.New()
	router.GET("/export/agreements.xlsx", asChecker(h.Download))

	req := httptest.NewRequest("GET", "/export/agreements.xlsx", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Expected spreadsheet content type, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "agreements-") {
		t.Errorf("Expected attachment filename, got %s", cd)
	}

	// The body is a readable workbook with the agreement in it.
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Agreements")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected header plus 1 agreement row, got %d rows", len(rows))
	}
}

func TestExportHandlerDownloadFiltered(t *testing.T) {
	store := service.NewStore()
	workflow := service.NewWorkflow(store)
	agh := NewAgreementHandler(workflow, store, newFakeDocs())
	createTestAgreement(t, agh)

	h := NewExportHandler(service.NewExportService(store))

	router := gin.New()
	router.GET("/export/agreements.xlsx", asChecker(h.Download))

	req := httptest.NewRequest("GET", "/export/agreements.xlsx?department=Legal", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows("Agreements")
	if len(rows) != 1 {
		t.Errorf("Expected header row only for Legal filter, got %d rows", len(rows))
	}
}
