package models

// All returns every persisted model in table creation order. Parents come
// first so foreign keys always reference an existing table.
func All() []interface{} {
	return []interface{}{
		&Environment{},
		&ComplianceCategory{},
		&ComplianceItem{},
		&CLICommand{},
		&AuditLog{},
		&DashboardMetric{},
		&UserSession{},
	}
}
