package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/xuri/excelize/v2"
)

// ExportService builds spreadsheet snapshots of the current collections for
// download. It only ever reads; filtering happens before the data gets here.
type ExportService struct {
	store *Store
}

// NewExportService creates an export service over the given store.
func NewExportService(store *Store) *ExportService {
	return &ExportService{store: store}
}

var agreementHeader = []string{
	"ID", "Client", "Department", "Type", "Entity", "Status", "Priority",
	"Start Date", "End Date", "Total Value", "Currency", "Branches",
	"Documents", "Submitted By", "Submitted Date",
}

var addendumHeader = []string{
	"ID", "Title", "Parent Agreement", "Parent Client", "Status",
	"Effective Date", "Clause Changes", "Submitted By", "Submitted Date", "Version",
}

// BuildWorkbook renders the filtered agreements and addendums into a two
// sheet XLSX workbook.
func (e *ExportService) BuildWorkbook(af AgreementFilter, df AddendumFilter) (*excelize.File, error) {
	f := excelize.NewFile()

	const agreementSheet = "Agreements"
	const addendumSheet = "Addendums"

	f.SetSheetName("Sheet1", agreementSheet)
	if _, err := f.NewSheet(addendumSheet); err != nil {
		return nil, fmt.Errorf("failed to create addendum sheet: %w", err)
	}

	if err := writeRow(f, agreementSheet, 1, toCells(agreementHeader)); err != nil {
		return nil, err
	}
	for i, a := range e.store.ListAgreements(af) {
		row := []any{
			a.ID, a.Client, a.Department, a.AgreementType, a.EntityType,
			a.Status, a.Priority,
			formatDate(&a.StartDate), formatDate(a.EndDate),
			a.TotalValue, a.Currency,
			len(a.Branches),
			documentChecklist(a.Uploads),
			a.SubmittedBy, formatDate(&a.SubmittedDate),
		}
		if err := writeRow(f, agreementSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, addendumSheet, 1, toCells(addendumHeader)); err != nil {
		return nil, err
	}
	for i, ad := range e.store.ListAddendums(df) {
		parentClient, err := e.store.ParentClientName(ad.ID)
		if err != nil {
			parentClient = ""
		}
		row := []any{
			ad.ID, ad.Title, ad.ParentAgreementID, parentClient, ad.Status,
			formatDate(ad.EffectiveDate),
			len(ad.ClauseModifications),
			ad.SubmittedBy, formatDate(&ad.SubmittedDate), ad.Version,
		}
		if err := writeRow(f, addendumSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(header []string) []any {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// documentChecklist summarizes uploaded slots, e.g. "LOI, WO".
func documentChecklist(uploads map[string]model.UploadStatus) string {
	var have []string
	for _, slot := range append(append([]string{}, model.EscalationDocs...), model.DocAgreement) {
		if s, ok := uploads[slot]; ok && s.Uploaded {
			have = append(have, slot)
		}
	}
	return strings.Join(have, ", ")
}
