package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/google/uuid"
)

// Store is the in-memory home of agreements and addendums. It is constructed
// once at startup and injected into the services that consume it; all data is
// lost on restart.
type Store struct {
	mu         sync.RWMutex
	agreements map[string]*model.Agreement
	addendums  map[string]*model.Addendum
	now        func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		agreements: make(map[string]*model.Agreement),
		addendums:  make(map[string]*model.Addendum),
		now:        time.Now,
	}
}

// AgreementFilter narrows ListAgreements. Zero values match everything.
type AgreementFilter struct {
	Status     string
	Client     string // case-insensitive substring
	Department string
}

// AddendumFilter narrows ListAddendums. Zero values match everything.
type AddendumFilter struct {
	ParentAgreementID string
	Status            string
}

// StatusUpdate selectively updates agreement status fields. Only non-nil
// fields are applied; LastModified is always refreshed.
type StatusUpdate struct {
	Status         *string
	Priority       *string
	ApprovedDate   *time.Time
	FinalAgreement *string
}

// AgreementPatch is a partial agreement update. Nil fields are left untouched.
type AgreementPatch struct {
	Client           *string
	Department       *string
	AgreementType    *string
	EntityType       *string
	GroupCompanies   *[]string
	StartDate        *time.Time
	EndDate          *time.Time
	OpenEnded        *bool
	TotalValue       *float64
	Currency         *string
	Branches         *[]model.Branch
	ImportantClauses *[]model.Clause
	Contact          *model.Contact
}

// AddendumPatch is a partial addendum update. Nil fields are left untouched.
type AddendumPatch struct {
	Title               *string
	Description         *string
	Reason              *string
	Impact              *string
	EffectiveDate       *time.Time
	Branches            *[]model.Branch
	ClauseModifications *[]model.ClauseModification
}

// CreateAgreement stores a new agreement, assigning an id when the draft has
// none. Two agreements may never share an id.
func (s *Store) CreateAgreement(a model.Agreement) (model.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if _, exists := s.agreements[a.ID]; exists {
		return model.Agreement{}, validationError("agreement id %s already exists", a.ID)
	}

	now := s.now()
	if a.Status == "" {
		a.Status = model.StatusExecutionPending
	}
	if a.Priority == "" {
		a.Priority = model.PriorityMedium
	}
	if a.Uploads == nil {
		a.Uploads = make(map[string]model.UploadStatus)
	}
	if a.SubmittedDate.IsZero() {
		a.SubmittedDate = now
	}
	a.LastModified = now
	a.Version = 1

	stored := a
	s.agreements[a.ID] = &stored
	return cloneAgreement(&stored), nil
}

// GetAgreement returns a copy of the agreement, or a not found error.
func (s *Store) GetAgreement(id string) (model.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.agreements[id]
	if !ok {
		return model.Agreement{}, notFoundError("agreement", id)
	}
	return cloneAgreement(a), nil
}

// ListAgreements returns a filtered snapshot sorted by submission date,
// newest first.
func (s *Store) ListAgreements(f AgreementFilter) []model.Agreement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Agreement
	for _, a := range s.agreements {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Department != "" && a.Department != f.Department {
			continue
		}
		if f.Client != "" && !strings.Contains(strings.ToLower(a.Client), strings.ToLower(f.Client)) {
			continue
		}
		result = append(result, cloneAgreement(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedDate.After(result[j].SubmittedDate)
	})
	return result
}

// UpdateAgreement merges the patch into the agreement. Unknown ids return an
// explicit not found error rather than silently doing nothing.
func (s *Store) UpdateAgreement(id string, patch AgreementPatch) (model.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agreements[id]
	if !ok {
		return model.Agreement{}, notFoundError("agreement", id)
	}

	if patch.Client != nil {
		a.Client = *patch.Client
	}
	if patch.Department != nil {
		a.Department = *patch.Department
	}
	if patch.AgreementType != nil {
		a.AgreementType = *patch.AgreementType
	}
	if patch.EntityType != nil {
		a.EntityType = *patch.EntityType
	}
	if patch.GroupCompanies != nil {
		a.GroupCompanies = *patch.GroupCompanies
	}
	if patch.StartDate != nil {
		a.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		a.EndDate = patch.EndDate
	}
	if patch.OpenEnded != nil {
		a.OpenEnded = *patch.OpenEnded
		if a.OpenEnded {
			a.EndDate = nil
		}
	}
	if patch.TotalValue != nil {
		a.TotalValue = *patch.TotalValue
	}
	if patch.Currency != nil {
		a.Currency = *patch.Currency
	}
	if patch.Branches != nil {
		a.Branches = *patch.Branches
	}
	if patch.ImportantClauses != nil {
		a.ImportantClauses = *patch.ImportantClauses
	}
	if patch.Contact != nil {
		a.Contact = *patch.Contact
	}

	a.LastModified = s.now()
	a.Version++
	return cloneAgreement(a), nil
}

// UpdateAgreementStatus applies only the provided status fields.
func (s *Store) UpdateAgreementStatus(id string, upd StatusUpdate) (model.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agreements[id]
	if !ok {
		return model.Agreement{}, notFoundError("agreement", id)
	}

	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.Priority != nil {
		a.Priority = *upd.Priority
	}
	if upd.ApprovedDate != nil {
		if upd.ApprovedDate.IsZero() {
			a.ApprovedDate = nil
		} else {
			approved := *upd.ApprovedDate
			a.ApprovedDate = &approved
		}
	}
	if upd.FinalAgreement != nil {
		a.FinalAgreement = *upd.FinalAgreement
		if *upd.FinalAgreement == "" {
			delete(a.Uploads, model.DocAgreement)
		}
	}

	a.LastModified = s.now()
	return cloneAgreement(a), nil
}

// SetAgreementUpload records a document slot on the agreement.
func (s *Store) SetAgreementUpload(id, slot string, status model.UploadStatus) (model.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agreements[id]
	if !ok {
		return model.Agreement{}, notFoundError("agreement", id)
	}
	if a.Uploads == nil {
		a.Uploads = make(map[string]model.UploadStatus)
	}
	a.Uploads[slot] = status
	a.LastModified = s.now()
	return cloneAgreement(a), nil
}

// RemoveAgreement hard-deletes the agreement. Addendums referencing it are
// left in place and become orphaned; there is no cascade.
func (s *Store) RemoveAgreement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agreements[id]; !ok {
		return notFoundError("agreement", id)
	}
	delete(s.agreements, id)
	return nil
}

// CreateAddendum stores a new addendum. The parent agreement reference is
// mandatory and must resolve to an existing agreement.
func (s *Store) CreateAddendum(ad model.Addendum, actor string) (model.Addendum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ad.ParentAgreementID == "" {
		return model.Addendum{}, fieldValidationError([]string{"parent_agreement_id"}, "missing parent agreement")
	}
	if _, ok := s.agreements[ad.ParentAgreementID]; !ok {
		return model.Addendum{}, fieldValidationError([]string{"parent_agreement_id"},
			"parent agreement %s does not exist", ad.ParentAgreementID)
	}

	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}
	if _, exists := s.addendums[ad.ID]; exists {
		return model.Addendum{}, validationError("addendum id %s already exists", ad.ID)
	}

	now := s.now()
	if ad.Status == "" {
		ad.Status = model.AddendumPendingReview
	}
	if ad.UploadedFiles == nil {
		ad.UploadedFiles = make(map[string]model.UploadStatus)
	}
	ad.SubmittedDate = now
	ad.SubmittedBy = actor
	ad.LastModified = now
	ad.Version = "1.0"
	ad.VersionHistory = []model.VersionEntry{{
		Version:     ad.Version,
		Timestamp:   now,
		Type:        model.VersionInitial,
		Description: "Addendum created",
		Actor:       actor,
	}}

	stored := ad
	s.addendums[ad.ID] = &stored
	return cloneAddendum(&stored), nil
}

// GetAddendum returns a copy of the addendum, or a not found error.
func (s *Store) GetAddendum(id string) (model.Addendum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.addendums[id]
	if !ok {
		return model.Addendum{}, notFoundError("addendum", id)
	}
	return cloneAddendum(ad), nil
}

// ListAddendums returns a filtered snapshot sorted by submission date,
// newest first.
func (s *Store) ListAddendums(f AddendumFilter) []model.Addendum {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Addendum
	for _, ad := range s.addendums {
		if f.ParentAgreementID != "" && ad.ParentAgreementID != f.ParentAgreementID {
			continue
		}
		if f.Status != "" && ad.Status != f.Status {
			continue
		}
		result = append(result, cloneAddendum(ad))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedDate.After(result[j].SubmittedDate)
	})
	return result
}

// UpdateAddendum merges the patch and appends an update entry to the version
// history recording which fields changed.
func (s *Store) UpdateAddendum(id string, patch AddendumPatch, actor string) (model.Addendum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.addendums[id]
	if !ok {
		return model.Addendum{}, notFoundError("addendum", id)
	}

	var changed []string
	if patch.Title != nil {
		ad.Title = *patch.Title
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		ad.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Reason != nil {
		ad.Reason = *patch.Reason
		changed = append(changed, "reason")
	}
	if patch.Impact != nil {
		ad.Impact = *patch.Impact
		changed = append(changed, "impact")
	}
	if patch.EffectiveDate != nil {
		eff := *patch.EffectiveDate
		ad.EffectiveDate = &eff
		changed = append(changed, "effective_date")
	}
	if patch.Branches != nil {
		ad.Branches = *patch.Branches
		changed = append(changed, "branches")
	}
	if patch.ClauseModifications != nil {
		ad.ClauseModifications = *patch.ClauseModifications
		changed = append(changed, "clause_modifications")
	}

	now := s.now()
	ad.LastModified = now
	ad.Version = bumpVersion(ad.Version)
	ad.VersionHistory = append(ad.VersionHistory, model.VersionEntry{
		Version:       ad.Version,
		Timestamp:     now,
		Type:          model.VersionUpdate,
		Description:   fmt.Sprintf("Updated %d field(s)", len(changed)),
		Actor:         actor,
		ChangedFields: changed,
	})
	return cloneAddendum(ad), nil
}

// SetAddendumStatus updates the status and appends a status_change entry.
func (s *Store) SetAddendumStatus(id, status, actor string) (model.Addendum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.addendums[id]
	if !ok {
		return model.Addendum{}, notFoundError("addendum", id)
	}

	previous := ad.Status
	now := s.now()
	ad.Status = status
	ad.LastModified = now
	ad.Version = bumpVersion(ad.Version)
	ad.VersionHistory = append(ad.VersionHistory, model.VersionEntry{
		Version:       ad.Version,
		Timestamp:     now,
		Type:          model.VersionStatusChange,
		Description:   fmt.Sprintf("Status changed from %s to %s", previous, status),
		Actor:         actor,
		ChangedFields: []string{"status"},
	})
	return cloneAddendum(ad), nil
}

// SetAddendumUpload records a document slot on the addendum.
func (s *Store) SetAddendumUpload(id, slot string, status model.UploadStatus) (model.Addendum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.addendums[id]
	if !ok {
		return model.Addendum{}, notFoundError("addendum", id)
	}
	if ad.UploadedFiles == nil {
		ad.UploadedFiles = make(map[string]model.UploadStatus)
	}
	ad.UploadedFiles[slot] = status
	ad.LastModified = s.now()
	return cloneAddendum(ad), nil
}

// RemoveAddendum hard-deletes the addendum.
func (s *Store) RemoveAddendum(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.addendums[id]; !ok {
		return notFoundError("addendum", id)
	}
	delete(s.addendums, id)
	return nil
}

// ParentClientName resolves the display name of an addendum's parent at read
// time instead of caching a copy on the addendum, so a renamed client never
// goes stale. Orphaned addendums fall back to a label built from the id.
func (s *Store) ParentClientName(addendumID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.addendums[addendumID]
	if !ok {
		return "", notFoundError("addendum", addendumID)
	}
	if parent, ok := s.agreements[ad.ParentAgreementID]; ok && parent.Client != "" {
		return parent.Client, nil
	}
	return fmt.Sprintf("Agreement %s", ad.ParentAgreementID), nil
}

// AgreementCount returns the number of stored agreements.
func (s *Store) AgreementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agreements)
}

// AddendumCount returns the number of stored addendums.
func (s *Store) AddendumCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.addendums)
}

// bumpVersion increments the minor part of a "major.minor" version tag.
func bumpVersion(v string) string {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return "1.1"
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "1.1"
	}
	return fmt.Sprintf("%s.%d", parts[0], minor+1)
}

func cloneAgreement(a *model.Agreement) model.Agreement {
	c := *a
	if a.EndDate != nil {
		end := *a.EndDate
		c.EndDate = &end
	}
	if a.ApprovedDate != nil {
		approved := *a.ApprovedDate
		c.ApprovedDate = &approved
	}
	c.GroupCompanies = append([]string(nil), a.GroupCompanies...)
	c.Branches = append([]model.Branch(nil), a.Branches...)
	c.ImportantClauses = append([]model.Clause(nil), a.ImportantClauses...)
	c.Uploads = make(map[string]model.UploadStatus, len(a.Uploads))
	for k, v := range a.Uploads {
		c.Uploads[k] = v
	}
	return c
}

func cloneAddendum(ad *model.Addendum) model.Addendum {
	c := *ad
	if ad.EffectiveDate != nil {
		eff := *ad.EffectiveDate
		c.EffectiveDate = &eff
	}
	c.Branches = append([]model.Branch(nil), ad.Branches...)
	c.ClauseModifications = append([]model.ClauseModification(nil), ad.ClauseModifications...)
	c.VersionHistory = append([]model.VersionEntry(nil), ad.VersionHistory...)
	c.UploadedFiles = make(map[string]model.UploadStatus, len(ad.UploadedFiles))
	for k, v := range ad.UploadedFiles {
		c.UploadedFiles[k] = v
	}
	return c
}
