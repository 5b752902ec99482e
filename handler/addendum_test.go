package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

func setupAddendumHandlers() (*AddendumHandler, *AgreementHandler, *service.Store) {
	store := service.NewStore()
	workflow := service.NewWorkflow(store)
	docs := newFakeDocs()
	return NewAddendumHandler(workflow, store, docs),
		NewAgreementHandler(workflow, store, docs),
		store
}

func addendumDraftBody(parentID string) map[string]any {
	return map[string]any{
		"title":               "Rate revision",
		"description":         "Revise billing rates for FY27",
		"reason":              "Annual escalation clause",
		"parent_agreement_id": parentID,
	}
}

func createTestAddendum(t *testing.T, h *AddendumHandler, parentID string) string {
	t.Helper()

	router := gin.New()
	router.POST("/addendums", asChecker(h.Create))

	payload, _ := json.Marshal(addendumDraftBody(parentID))
	req := httptest.NewRequest("POST", "/addendums", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.Addendum
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return created.ID
}

func TestAddendumHandlerCreate(t *testing.T) {
	ah, agh, _ := setupAddendumHandlers()
	parentID := createTestAgreement(t, agh)

	router := gin.New()
	router.POST("/addendums", asChecker(ah.Create))

	payload, _ := json.Marshal(addendumDraftBody(parentID))
	req := httptest.NewRequest("POST", "/addendums", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != model.AddendumPendingReview {
		t.Errorf("Expected Pending Review, got %v", response["status"])
	}
	if response["parent_client_name"] != "Acme Industries" {
		t.Errorf("Expected computed parent client name, got %v", response["parent_client_name"])
	}
	if response["version"] != "1.0" {
		t.Errorf("Expected version 1.0, got %v", response["version"])
	}
}

func TestAddendumHandlerCreateWithoutParent(t *testing.T) {
	ah, _, store := setupAddendumHandlers()

	tests := []struct {
		name     string
		parentID string
	}{
		{"missing parent", ""},
		{"unknown parent", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/addendums", asChecker(ah.Create))

			payload, _ := json.Marshal(addendumDraftBody(tt.parentID))
			req := httptest.NewRequest("POST", "/addendums", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}

	if store.AddendumCount() != 0 {
		t.Errorf("Expected no addendums stored, got %d", store.AddendumCount())
	}
}

func TestAddendumHandlerListByParent(t *testing.T) {
	ah, agh, _ := setupAddendumHandlers()
	parentA := createTestAgreement(t, agh)
	parentB := createTestAgreement(t, agh)
	createTestAddendum(t, ah, parentA)
	createTestAddendum(t, ah, parentA)
	createTestAddendum(t, ah, parentB)

	router := gin.New()
	router.GET("/addendums", asChecker(ah.List))

	req := httptest.NewRequest("GET", "/addendums?parent="+parentA, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Total int `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Total != 2 {
		t.Errorf("Expected 2 addendums for parent, got %d", response.Total)
	}
}

func TestAddendumHandlerGetNotFound(t *testing.T) {
	ah, _, _ := setupAddendumHandlers()

	router := gin.New()
	router.GET("/addendums/:id", asChecker(ah.Get))

	req := httptest.NewRequest("GET", "/addendums/non-existent", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestAddendumHandlerUpdate(t *testing.T) {
	ah, agh, _ := setupAddendumHandlers()
	parentID := createTestAgreement(t, agh)
	id := createTestAddendum(t, ah, parentID)

	router := gin.New()
	router.PATCH("/addendums/:id", asChecker(ah.Update))

	payload, _ := json.Marshal(map[string]any{"title": "Revised title"})
	req := httptest.NewRequest("PATCH", "/addendums/"+id, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated model.Addendum
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Title != "Revised title" {
		t.Errorf("Expected revised title, got %s", updated.Title)
	}
	if updated.Version != "1.1" {
		t.Errorf("Expected version 1.1 after edit, got %s", updated.Version)
	}
}

func TestAddendumHandlerSetStatus(t *testing.T) {
	ah, agh, store := setupAddendumHandlers()
	parentID := createTestAgreement(t, agh)
	id := createTestAddendum(t, ah, parentID)

	tests := []struct {
		name           string
		wrap           func(gin.HandlerFunc) gin.HandlerFunc
		status         string
		expectedStatus int
	}{
		{"checker denied", asChecker, model.AddendumApproved, http.StatusForbidden},
		{"approver approves", asApprover, model.AddendumApproved, http.StatusOK},
		{"back to under review", asApprover, model.AddendumUnderReview, http.StatusOK},
		{"unknown status", asApprover, "Escalated", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.PUT("/addendums/:id/status", tt.wrap(ah.SetStatus))

			payload, _ := json.Marshal(map[string]string{"status": tt.status})
			req := httptest.NewRequest("PUT", "/addendums/"+id+"/status", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	// Status changes never ripple into the parent agreement.
	parent, err := store.GetAgreement(parentID)
	if err != nil {
		t.Fatalf("GetAgreement failed: %v", err)
	}
	if parent.Status != model.StatusExecutionPending {
		t.Errorf("Expected parent untouched, got %s", parent.Status)
	}
}

func TestAddendumHandlerUploadDocument(t *testing.T) {
	ah, agh, _ := setupAddendumHandlers()
	parentID := createTestAgreement(t, agh)
	id := createTestAddendum(t, ah, parentID)

	router := gin.New()
	router.POST("/addendums/:id/documents/:slot", asChecker(ah.UploadDocument))

	body, contentType := multipartFile(t, "file", "support.pdf", "pdf-bytes")
	req := httptest.NewRequest("POST", "/addendums/"+id+"/documents/supporting", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var addendum model.Addendum
	json.Unmarshal(w.Body.Bytes(), &addendum)
	if !addendum.UploadedFiles["supporting"].Uploaded {
		t.Error("Expected supporting slot recorded on the addendum")
	}
}

func TestAddendumHandlerDelete(t *testing.T) {
	ah, agh, store := setupAddendumHandlers()
	parentID := createTestAgreement(t, agh)
	id := createTestAddendum(t, ah, parentID)

	router := gin.New()
	router.DELETE("/addendums/:id", asApprover(ah.Delete))

	req := httptest.NewRequest("DELETE", "/addendums/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for approver, got %d", w.Code)
	}

	router = gin.New()
	router.DELETE("/addendums/:id", asChecker(ah.Delete))

	req = httptest.NewRequest("DELETE", "/addendums/"+id, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for checker, got %d", w.Code)
	}

	if store.AddendumCount() != 0 {
		t.Errorf("Expected empty addendum collection, got %d", store.AddendumCount())
	}
}
