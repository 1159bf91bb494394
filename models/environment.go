package models

import (
	"time"
)

// EnvironmentType is the closed set of tenant environment kinds
type EnvironmentType string

const (
	EnvironmentProduction EnvironmentType = "Production"
	EnvironmentSandbox    EnvironmentType = "Sandbox"
	EnvironmentTrial      EnvironmentType = "Trial"
	EnvironmentDefault    EnvironmentType = "Default"
	EnvironmentPoC        EnvironmentType = "PoC"
	EnvironmentDeveloper  EnvironmentType = "Developer"
)

// EnvironmentTypes lists the valid types in display rank order
var EnvironmentTypes = []EnvironmentType{
	EnvironmentProduction,
	EnvironmentDefault,
	EnvironmentSandbox,
	EnvironmentTrial,
	EnvironmentPoC,
	EnvironmentDeveloper,
}

// Valid reports whether t is one of the known environment types
func (t EnvironmentType) Valid() bool {
	for _, known := range EnvironmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Environment represents a tenant environment that compliance items can be scoped to
type Environment struct {
	ID          string          `json:"id" gorm:"primaryKey;type:text"` // Platform environment ID
	Name        string          `json:"name" gorm:"not null"`
	DisplayName string          `json:"display_name"`
	Type        EnvironmentType `json:"type" gorm:"type:text;default:Sandbox;check:type IN ('Production','Sandbox','Trial','Default','PoC','Developer')"`
	Region      string          `json:"region"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Items     []ComplianceItem `json:"-" gorm:"foreignKey:EnvironmentID;constraint:OnDelete:RESTRICT"`
	AuditLogs []AuditLog       `json:"-" gorm:"foreignKey:EnvironmentID;constraint:OnDelete:SET NULL"`
}

// TableName sets the table name for Environment model
func (Environment) TableName() string {
	return "environments"
}
