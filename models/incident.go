package models

import "time"

// Incident type constants
const (
	IncidentTypeComplaint      = "Complaint"
	IncidentTypeBlotter        = "Blotter"
	IncidentTypeCase           = "Case"
	IncidentTypeIncidentReport = "IncidentReport"
)

// Incident status constants (workflow states)
const (
	IncidentStatusOpen               = "Open"
	IncidentStatusUnderInvestigation = "Under Investigation"
	IncidentStatusResolved           = "Resolved"
	IncidentStatusClosed             = "Closed"
)

// Incident is a blotter or complaint entry.
// Complainant and respondent are optional references to residents; the
// database takes no action on resident delete, so they are nulled manually.
type Incident struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_incident_type_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	IncidentType   string `gorm:"size:30;not null;index:idx_incident_type_created" json:"incident_type"`
	IncidentNumber string `gorm:"size:20;uniqueIndex:idx_incident_number,where:incident_number <> ''" json:"incident_number"`

	Title        string    `gorm:"not null" json:"title"`
	Narrative    string    `gorm:"type:text" json:"narrative,omitempty"`
	Location     string    `json:"location,omitempty"`
	IncidentDate time.Time `gorm:"not null" json:"incident_date"`
	ReportedAt   time.Time `gorm:"not null;index" json:"reported_at"`

	ComplainantID *uint     `gorm:"index" json:"complainant_id,omitempty"`
	Complainant   *Resident `gorm:"foreignKey:ComplainantID;constraint:OnDelete:NO ACTION" json:"complainant,omitempty"`
	RespondentID  *uint     `gorm:"index" json:"respondent_id,omitempty"`
	Respondent    *Resident `gorm:"foreignKey:RespondentID;constraint:OnDelete:NO ACTION" json:"respondent,omitempty"`

	// Free-text parties for people who are not registered residents
	ComplainantName string `json:"complainant_name,omitempty"`
	RespondentName  string `json:"respondent_name,omitempty"`

	// Status and lifecycle
	Status     string     `gorm:"size:30;not null;default:Open;index" json:"status"`
	Resolution string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	HandledBy  string     `json:"handled_by,omitempty"`
}

// TableName specifies the table name for Incident model
func (Incident) TableName() string {
	return "incidents"
}

// IsOpen checks if the incident still needs attention
func (i *Incident) IsOpen() bool {
	return i.Status == IncidentStatusOpen || i.Status == IncidentStatusUnderInvestigation
}

// IsValidIncidentType checks if the incident type is valid
func IsValidIncidentType(incidentType string) bool {
	switch incidentType {
	case IncidentTypeComplaint, IncidentTypeBlotter, IncidentTypeCase, IncidentTypeIncidentReport:
		return true
	}
	return false
}

// IsValidIncidentStatus checks if the status is valid
func IsValidIncidentStatus(status string) bool {
	switch status {
	case IncidentStatusOpen, IncidentStatusUnderInvestigation, IncidentStatusResolved, IncidentStatusClosed:
		return true
	}
	return false
}

var incidentTransitions = map[string][]string{
	IncidentStatusOpen:               {IncidentStatusUnderInvestigation, IncidentStatusResolved, IncidentStatusClosed},
	IncidentStatusUnderInvestigation: {IncidentStatusResolved, IncidentStatusClosed},
	IncidentStatusResolved:           {IncidentStatusClosed, IncidentStatusUnderInvestigation},
}

// CanTransitionIncident checks if an incident may move from one status to another
func CanTransitionIncident(from, to string) bool {
	for _, s := range incidentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
