// models/permit.go
package models

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApprovalStatus is the lifecycle state of a work permit.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// IsTerminal reports whether the permit can no longer be decided.
// Approved and rejected are both dead ends; a rejected permit is
// resubmitted as a new record, never mutated back to pending.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the three known statuses.
func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s.IsTerminal()
}

// WorkPermit is one work-authorization application.
type WorkPermit struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PermitNumber string    `gorm:"column:permit_number;size:30;uniqueIndex" json:"permit_number"`

	WorkType      string `gorm:"column:work_type;size:200" json:"work_type"`
	StartDate     string `gorm:"column:start_date;size:10" json:"start_date"` // YYYY-MM-DD
	StartTime     string `gorm:"column:start_time;size:5" json:"start_time"`  // HH:MM
	ApplicantName string `gorm:"column:applicant_name;size:100" json:"applicant_name"`
	PhoneNumber   string `gorm:"column:phone_number;size:15" json:"phone_number"`

	ContractorCompany string `gorm:"column:contractor_company;size:200" json:"contractor_company"`
	SupervisorName    string `gorm:"column:supervisor_name;size:100" json:"supervisor_name"`
	ProjectManager    string `gorm:"column:project_manager;size:100" json:"project_manager"`
	WorkLocation      string `gorm:"column:work_location;type:text" json:"work_location"`
	WorkerCount       int    `gorm:"column:worker_count;default:1" json:"worker_count"`
	WorkerNames       string `gorm:"column:worker_names;type:text" json:"worker_names"`
	ToolsEquipment    string `gorm:"column:tools_equipment;type:text" json:"tools_equipment"`

	// Optional GPS fix of the work spot, checked against the plant
	// boundary geofence on review. Not part of the paper form.
	Latitude  *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	// Checklist sections, stored serialized. Decode via the checklist
	// codec only; validation never reads these columns directly.
	WorkDetails           datatypes.JSON `gorm:"column:work_details;type:jsonb" json:"work_details"`
	SpecialWorkType       datatypes.JSON `gorm:"column:special_work_type;type:jsonb" json:"special_work_type"`
	RelatedDocuments      datatypes.JSON `gorm:"column:related_documents;type:jsonb" json:"related_documents"`
	SafetyCompliance      datatypes.JSON `gorm:"column:safety_compliance;type:jsonb" json:"safety_compliance"`
	PPERequirements       datatypes.JSON `gorm:"column:ppe_requirements;type:jsonb" json:"ppe_requirements"`
	FireExtinguisherTypes datatypes.JSON `gorm:"column:fire_extinguisher_types;type:jsonb" json:"fire_extinguisher_types"`
	AtmosphereMonitoring  datatypes.JSON `gorm:"column:atmosphere_monitoring;type:jsonb" json:"atmosphere_monitoring"`

	FireExtinguisherNeeded bool   `gorm:"column:fire_extinguisher_needed;default:false" json:"fire_extinguisher_needed"`
	FireExtinguisherReason string `gorm:"column:fire_extinguisher_reason;type:text" json:"fire_extinguisher_reason"`
	FireExtinguisherCount  int    `gorm:"column:fire_extinguisher_count;default:0" json:"fire_extinguisher_count"`

	ApplicationStatement string   `gorm:"column:application_statement;type:text" json:"application_statement"`
	ApplicantSignature   string   `gorm:"column:applicant_signature;size:100" json:"applicant_signature"`
	ApplicationDate      JSONTime `gorm:"column:application_date" json:"application_date"`

	ApprovalStatus           ApprovalStatus `gorm:"column:approval_status;size:20;default:'pending';index" json:"approval_status"`
	ApprovalDate             *time.Time     `gorm:"column:approval_date" json:"approval_date"`
	ApproverSignature        *string        `gorm:"column:approver_signature;size:100" json:"approver_signature"`
	ApprovalIncompleteReason *string        `gorm:"column:approval_incomplete_reason;type:text" json:"approval_incomplete_reason"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Files []PermitFile `gorm:"foreignKey:PermitID" json:"files,omitempty"`
}

func (WorkPermit) TableName() string {
	return "work_permits"
}

func (p *WorkPermit) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PermitNumber == "" {
		p.PermitNumber = NewPermitNumber(time.Now())
	}
	return
}

// NewPermitNumber builds a human-readable permit number like
// WP-20250901-4821. Uniqueness is backed by the column index; the
// random suffix only keeps same-day numbers apart.
func NewPermitNumber(t time.Time) string {
	return fmt.Sprintf("WP-%s-%04d", t.Format("20060102"), rand.Intn(10000))
}

// Sections decodes all seven checklist columns at once.
func (p *WorkPermit) Sections() Checklist {
	return Checklist{
		WorkDetails:           DecodeWorkDetails(p.WorkDetails),
		SpecialWorkType:       DecodeSpecialWorkType(p.SpecialWorkType),
		RelatedDocuments:      DecodeRelatedDocuments(p.RelatedDocuments),
		SafetyCompliance:      DecodeSafetyCompliance(p.SafetyCompliance),
		PPERequirements:       DecodePPERequirements(p.PPERequirements),
		FireExtinguisherTypes: DecodeFireExtinguisherTypes(p.FireExtinguisherTypes),
		AtmosphereMonitoring:  DecodeAtmosphereMonitoring(p.AtmosphereMonitoring),
	}
}

// PermitFile is one uploaded attachment (training certificate, JSA
// sheet, ...). Rows are append-only; there is no delete path.
type PermitFile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PermitID uuid.UUID `gorm:"type:uuid;not null;index" json:"permit_id"`
	FileName string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FileURL  string    `gorm:"column:file_url;type:text;not null" json:"file_url"`
	FileType string    `gorm:"column:file_type;size:100" json:"file_type"`
	FileSize int64     `gorm:"column:file_size" json:"file_size"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Permit *WorkPermit `gorm:"foreignKey:PermitID" json:"-"`
}

func (PermitFile) TableName() string {
	return "permit_files"
}

func (f *PermitFile) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
