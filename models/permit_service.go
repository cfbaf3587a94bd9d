// models/permit_service.go
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPermitNotFound is returned for unknown permit ids. Every other
// store error (connectivity, constraints) propagates unmodified.
var ErrPermitNotFound = errors.New("permit not found")

// PermitRepository is the persistence contract the handlers consume.
// Implemented by PermitService against Postgres and by a fake in tests.
type PermitRepository interface {
	CreatePermit(p *WorkPermit) error
	GetPermit(id uuid.UUID) (*WorkPermit, error)
	ListPermits() ([]WorkPermit, error)
	UpdatePermit(id uuid.UUID, updated *WorkPermit) (*WorkPermit, error)
	DecidePermit(id uuid.UUID, d Decision) (*WorkPermit, error)
	CreateFile(f *PermitFile) error
	ListFiles(permitID uuid.UUID) ([]PermitFile, error)
}

// PermitService is the GORM-backed PermitRepository.
type PermitService struct {
	db *gorm.DB
}

var _ PermitRepository = (*PermitService)(nil)

func NewPermitService(db *gorm.DB) *PermitService {
	return &PermitService{db: db}
}

// CreatePermit persists a new application. The initial status is forced
// to pending and the approval metadata cleared no matter what the
// caller sent; a submission can never arrive pre-approved.
func (s *PermitService) CreatePermit(p *WorkPermit) error {
	p.ApprovalStatus = StatusPending
	p.ApprovalDate = nil
	p.ApproverSignature = nil
	p.ApprovalIncompleteReason = nil
	if time.Time(p.ApplicationDate).IsZero() {
		p.ApplicationDate = JSONTime(time.Now())
	}
	return s.db.Create(p).Error
}

func (s *PermitService) GetPermit(id uuid.UUID) (*WorkPermit, error) {
	var p WorkPermit
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPermitNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// ListPermits returns all permits newest first. The ordering is a
// contract; every listing screen relies on it.
func (s *PermitService) ListPermits() ([]WorkPermit, error) {
	var permits []WorkPermit
	if err := s.db.Order("created_at DESC").Find(&permits).Error; err != nil {
		return nil, err
	}
	return permits, nil
}

// UpdatePermit replaces the editable fields of a pending permit. The
// approval columns and identity are not reachable through this path.
func (s *PermitService) UpdatePermit(id uuid.UUID, updated *WorkPermit) (*WorkPermit, error) {
	p, err := s.GetPermit(id)
	if err != nil {
		return nil, err
	}
	if p.ApprovalStatus != StatusPending {
		return nil, fmt.Errorf("%w: current status %q", ErrInvalidTransition, p.ApprovalStatus)
	}

	p.WorkType = updated.WorkType
	p.StartDate = updated.StartDate
	p.StartTime = updated.StartTime
	p.ApplicantName = updated.ApplicantName
	p.PhoneNumber = updated.PhoneNumber
	p.ContractorCompany = updated.ContractorCompany
	p.SupervisorName = updated.SupervisorName
	p.ProjectManager = updated.ProjectManager
	p.WorkLocation = updated.WorkLocation
	p.WorkerCount = updated.WorkerCount
	p.WorkerNames = updated.WorkerNames
	p.ToolsEquipment = updated.ToolsEquipment
	p.Latitude = updated.Latitude
	p.Longitude = updated.Longitude
	p.WorkDetails = updated.WorkDetails
	p.SpecialWorkType = updated.SpecialWorkType
	p.RelatedDocuments = updated.RelatedDocuments
	p.SafetyCompliance = updated.SafetyCompliance
	p.PPERequirements = updated.PPERequirements
	p.FireExtinguisherTypes = updated.FireExtinguisherTypes
	p.AtmosphereMonitoring = updated.AtmosphereMonitoring
	p.FireExtinguisherNeeded = updated.FireExtinguisherNeeded
	p.FireExtinguisherReason = updated.FireExtinguisherReason
	p.FireExtinguisherCount = updated.FireExtinguisherCount
	p.ApplicationStatement = updated.ApplicationStatement
	p.ApplicantSignature = updated.ApplicantSignature

	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// DecidePermit runs the approval state machine against the stored
// record and persists the outcome. Guard errors surface before any
// write.
//
// Concurrent decisions on the same permit are last-write-wins: the
// status check runs on the row as read, so two reviewers racing
// through the read/write gap can overwrite each other's signature.
// The store has no version column to detect this.
func (s *PermitService) DecidePermit(id uuid.UUID, d Decision) (*WorkPermit, error) {
	p, err := s.GetPermit(id)
	if err != nil {
		return nil, err
	}
	if err := ApplyDecision(p, d, time.Now()); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"approval_status":            p.ApprovalStatus,
		"approval_date":              p.ApprovalDate,
		"approver_signature":         p.ApproverSignature,
		"approval_incomplete_reason": p.ApprovalIncompleteReason,
	}
	if err := s.db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PermitService) CreateFile(f *PermitFile) error {
	return s.db.Create(f).Error
}

// ListFiles returns the attachments of a permit. Iteration order is
// stable (insertion order) but otherwise unspecified.
func (s *PermitService) ListFiles(permitID uuid.UUID) ([]PermitFile, error) {
	var files []PermitFile
	if err := s.db.Where("permit_id = ?", permitID).Order("created_at").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
