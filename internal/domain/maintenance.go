package domain

import "github.com/shopspring/decimal"

type IssueCategory string

const (
	IssueCategoryRoutine    IssueCategory = "ROUTINE"
	IssueCategoryRepair     IssueCategory = "REPAIR"
	IssueCategoryDamage     IssueCategory = "DAMAGE"
	IssueCategoryCleaning   IssueCategory = "CLEANING"
	IssueCategoryInspection IssueCategory = "INSPECTION"
)

type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "OPEN"
	IssueStatusResolved IssueStatus = "RESOLVED"
)

// Severity runs 1 (cosmetic) to 5 (vehicle unusable).
const (
	SeverityMin = 1
	SeverityMax = 5
)

type MaintenanceIssue struct {
	ID          string          `json:"id"`
	VehicleID   int64           `json:"vehicle_id"`
	Category    IssueCategory   `json:"category"`
	Description string          `json:"description"`
	Severity    int             `json:"severity"`
	Reporter    string          `json:"reporter"`
	Status      IssueStatus     `json:"status"`
	Cost        decimal.Decimal `json:"cost"`
	ResolvedBy  string          `json:"resolved_by,omitempty"`
	ReportedOn  string          `json:"reported_on"`
	ResolvedOn  string          `json:"resolved_on,omitempty"`
}

func (i *MaintenanceIssue) Open() bool {
	return i.Status == IssueStatusOpen
}
