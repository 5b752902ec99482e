package service

import (
	"testing"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
)

func TestBuildWorkbookSheets(t *testing.T) {
	store := NewStore()
	export := NewExportService(store)

	f, err := export.BuildWorkbook(AgreementFilter{}, AddendumFilter{})
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Agreements" || sheets[1] != "Addendums" {
		t.Errorf("Expected sheets [Agreements Addendums], got %v", sheets)
	}

	header, err := f.GetRows("Agreements")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(header) != 1 {
		t.Fatalf("Expected header row only, got %d rows", len(header))
	}
	if header[0][0] != "ID" || header[0][1] != "Client" {
		t.Errorf("Unexpected header row: %v", header[0])
	}
}

func TestBuildWorkbookAgreementRows(t *testing.T) {
	store := NewStore()
	export := NewExportService(store)

	a := testAgreement()
	end := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	a.EndDate = &end
	a.SubmittedBy = "priya"
	a.Uploads[model.DocWO] = model.UploadStatus{Uploaded: true, FileKey: "k"}
	created, _ := store.CreateAgreement(a)

	f, err := export.BuildWorkbook(AgreementFilter{}, AddendumFilter{})
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Agreements")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 data row, got %d rows", len(rows))
	}

	row := rows[1]
	if row[0] != created.ID {
		t.Errorf("Expected id %s, got %s", created.ID, row[0])
	}
	if row[1] != "Acme Industries" {
		t.Errorf("Expected client Acme Industries, got %s", row[1])
	}
	if row[5] != model.StatusExecutionPending {
		t.Errorf("Expected status column %s, got %s", model.StatusExecutionPending, row[5])
	}
	if row[8] != "2027-06-30" {
		t.Errorf("Expected end date 2027-06-30, got %s", row[8])
	}
	if row[12] != "LOI, WO" {
		t.Errorf("Expected document checklist %q, got %q", "LOI, WO", row[12])
	}
}

func TestBuildWorkbookAddendumRows(t *testing.T) {
	store := NewStore()
	export := NewExportService(store)
	parent, _ := store.CreateAgreement(testAgreement())
	ad, _ := store.CreateAddendum(model.Addendum{
		Title:             "Rate revision",
		Description:       "D",
		Reason:            "R",
		ParentAgreementID: parent.ID,
		ClauseModifications: []model.ClauseModification{
			{Clause: "Payment Terms", Action: model.ClauseModified},
		},
	}, "priya")

	f, err := export.BuildWorkbook(AgreementFilter{}, AddendumFilter{})
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Addendums")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 data row, got %d rows", len(rows))
	}

	row := rows[1]
	if row[0] != ad.ID {
		t.Errorf("Expected id %s, got %s", ad.ID, row[0])
	}
	if row[3] != "Acme Industries" {
		t.Errorf("Expected parent client Acme Industries, got %s", row[3])
	}
	if row[4] != model.AddendumPendingReview {
		t.Errorf("Expected status %s, got %s", model.AddendumPendingReview, row[4])
	}
	if row[6] != "1" {
		t.Errorf("Expected 1 clause change, got %s", row[6])
	}
	if row[9] != "1.0" {
		t.Errorf("Expected version 1.0, got %s", row[9])
	}
}

func TestBuildWorkbookAppliesFilters(t *testing.T) {
	store := NewStore()
	export := NewExportService(store)

	hr := testAgreement()
	hr.Department = "HR"
	store.CreateAgreement(hr)

	legal := testAgreement()
	legal.Department = "Legal"
	store.CreateAgreement(legal)

	f, err := export.BuildWorkbook(AgreementFilter{Department: "Legal"}, AddendumFilter{})
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows("Agreements")
	if len(rows) != 2 {
		t.Errorf("Expected header plus the Legal agreement, got %d rows", len(rows))
	}
}
