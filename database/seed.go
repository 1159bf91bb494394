package database

import (
	"fmt"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
)

const docsBase = "https://learn.microsoft.com/en-us/power-platform"

var defaultCategories = []models.ComplianceCategory{
	{Name: "Data Protection & Privacy", Description: "Ensure data protection and privacy compliance across your Power Platform environment", Icon: "🔒", OrderIndex: 1},
	{Name: "Identity & Access Management", Description: "Manage user access, authentication, and authorization properly", Icon: "👤", OrderIndex: 2},
	{Name: "Compliance & Governance", Description: "Maintain regulatory compliance and governance standards", Icon: "📋", OrderIndex: 3},
	{Name: "Monitoring & Observability", Description: "Monitor tenant health and maintain visibility into platform usage", Icon: "📊", OrderIndex: 4},
	{Name: "Environment Management", Description: "Properly manage environments and their lifecycle", Icon: "🌍", OrderIndex: 5},
}

var defaultEnvironments = []models.Environment{
	{ID: "default-00000000-0000-0000-0000-000000000001", Name: "Default Environment", DisplayName: "Default Environment (Sample)", Type: models.EnvironmentDefault, Region: "United States", CreatedBy: "System"},
	{ID: "prod-00000000-0000-0000-0000-000000000002", Name: "Production", DisplayName: "Production Environment", Type: models.EnvironmentProduction, Region: "United States", CreatedBy: "Admin"},
	{ID: "dev-00000000-0000-0000-0000-000000000003", Name: "Development", DisplayName: "Development Environment", Type: models.EnvironmentSandbox, Region: "United States", CreatedBy: "Admin"},
	{ID: "test-00000000-0000-0000-0000-000000000004", Name: "Testing", DisplayName: "Testing Environment", Type: models.EnvironmentSandbox, Region: "United States", CreatedBy: "Admin"},
}

type seedItem struct {
	category string
	item     models.ComplianceItem
}

var defaultItems = []seedItem{
	{"Data Protection & Privacy", models.ComplianceItem{
		Title:             "Create and Review DLP Policies",
		Description:       "Create DLP policies to control data flow between connectors and environments. Regularly review and update DLP policies to align with security requirements.",
		Importance:        models.ImportanceCritical,
		DocumentationLink: docsBase + "/admin/wp-data-loss-prevention",
		CLICommands:       []string{"pac admin list", "pac connector list"},
		OrderIndex:        1,
	}},
	{"Data Protection & Privacy", models.ComplianceItem{
		Title:             "Configure Customer-Managed Keys",
		Description:       "Consider using customer-managed keys for additional control over encryption.",
		Importance:        models.ImportanceHigh,
		DocumentationLink: docsBase + "/admin/customer-managed-key",
		CLICommands:       []string{"pac environment list"},
		OrderIndex:        2,
	}},
	{"Data Protection & Privacy", models.ComplianceItem{
		Title:             "Implement Privacy by Design",
		Description:       "Incorporate privacy considerations into the design and development of applications. Ensure privacy is a fundamental aspect of your development process.",
		Importance:        models.ImportanceHigh,
		DocumentationLink: docsBase + "/admin/privacy-dsr-guide",
		CLICommands:       []string{},
		OrderIndex:        3,
	}},
	{"Identity & Access Management", models.ComplianceItem{
		Title:             "Review Identity Management Strategy",
		Description:       "Create an identity management strategy that covers user access, service accounts, application users, federation requirements for single sign-on, and conditional access policies.",
		Importance:        models.ImportanceCritical,
		DocumentationLink: docsBase + "/admin/create-users-assign-online-security-roles",
		CLICommands:       []string{"pac org list", "pac user list"},
		OrderIndex:        1,
	}},
	{"Identity & Access Management", models.ComplianceItem{
		Title:             "Configure Administrative Access Policies",
		Description:       "Create administrative access policies for different admin roles on the platform, such as service admin and Microsoft 365 admin.",
		Importance:        models.ImportanceCritical,
		DocumentationLink: docsBase + "/admin/use-service-admin-role-manage-tenant",
		CLICommands:       []string{"pac admin list", "pac user list --environment-id {environment-id}"},
		OrderIndex:        2,
	}},
	{"Compliance & Governance", models.ComplianceItem{
		Title:             "Identify Regulatory Standards",
		Description:       "Determine which regulatory standards apply to your organization (for example, GDPR, HIPAA, CCPA, PCI Data Security Standard). Understand the specific requirements and obligations of each regulation.",
		Importance:        models.ImportanceCritical,
		DocumentationLink: docsBase + "/admin/governance-considerations",
		CLICommands:       []string{},
		OrderIndex:        1,
	}},
	{"Compliance & Governance", models.ComplianceItem{
		Title:             "Enable Activity Monitoring",
		Description:       "Use the Power Platform admin center and Microsoft Sentinel to track user activities. Conduct regular audits to detect anomalies and ensure compliance with regulatory standards.",
		Importance:        models.ImportanceHigh,
		DocumentationLink: docsBase + "/admin/logging-powerapps",
		CLICommands:       []string{"pac activity list", "pac admin list"},
		OrderIndex:        2,
	}},
	{"Monitoring & Observability", models.ComplianceItem{
		Title:             "Monitor Tenant Analytics",
		Description:       "Use tenant-level analytics to understand platform usage and identify trends.",
		Importance:        models.ImportanceMedium,
		DocumentationLink: docsBase + "/admin/tenant-level-analytics",
		CLICommands:       []string{"pac admin list", "pac analytics list"},
		OrderIndex:        1,
	}},
	{"Monitoring & Observability", models.ComplianceItem{
		Title:             "Review Security Score",
		Description:       "Regularly assess and monitor your security score and understand how to improve your security policies.",
		Importance:        models.ImportanceHigh,
		DocumentationLink: docsBase + "/admin/security/security-overview",
		CLICommands:       []string{"pac admin list", "pac security list"},
		OrderIndex:        2,
	}},
	{"Environment Management", models.ComplianceItem{
		Title:             "Review Environment Strategy",
		Description:       "Develop and maintain a proper environment strategy for development, testing, and production workloads.",
		Importance:        models.ImportanceHigh,
		DocumentationLink: docsBase + "/admin/environments-overview",
		CLICommands:       []string{"pac environment list", "pac environment show --environment-id {environment-id}"},
		OrderIndex:        1,
	}},
	{"Environment Management", models.ComplianceItem{
		Title:             "Monitor Environment Health",
		Description:       "Regularly monitor environment health and performance metrics.",
		Importance:        models.ImportanceMedium,
		DocumentationLink: docsBase + "/admin/monitoring/monitoring-overview",
		CLICommands:       []string{"pac environment list", "pac solution list --environment-id {environment-id}"},
		OrderIndex:        2,
	}},
}

const cliDocsBase = docsBase + "/developer/cli/reference"

var defaultCommands = []models.CLICommand{
	{
		Name:        "List Environments",
		Category:    "Environment Management",
		Description: "Lists all environments in your tenant",
		Command:     "pac environment list",
		Parameters: models.CommandParameters{Optional: []models.CommandParameter{
			{Name: "--environment-id", Description: "Filter by specific environment ID"},
			{Name: "--output", Description: "Output format (json, table)"},
		}},
		ExampleUsage:      "pac environment list --output json",
		DocumentationLink: cliDocsBase + "/environment",
		Tags:              []string{"environment", "list", "tenant"},
	},
	{
		Name:        "List Connectors",
		Category:    "Data Protection",
		Description: "Lists all available connectors in your tenant",
		Command:     "pac connector list",
		Parameters: models.CommandParameters{Optional: []models.CommandParameter{
			{Name: "--environment-id", Description: "Specific environment to query"},
			{Name: "--filter", Description: "Filter connectors by name or category"},
		}},
		ExampleUsage:      "pac connector list --environment-id 12345678-1234-1234-1234-123456789012",
		DocumentationLink: cliDocsBase + "/connector",
		Tags:              []string{"connector", "dlp", "security"},
	},
	{
		Name:        "Show Environment Details",
		Category:    "Environment Management",
		Description: "Shows detailed information about a specific environment",
		Command:     "pac environment show",
		Parameters: models.CommandParameters{Required: []models.CommandParameter{
			{Name: "--environment-id", Description: "The ID of the environment to show"},
		}},
		ExampleUsage:      "pac environment show --environment-id 12345678-1234-1234-1234-123456789012",
		DocumentationLink: cliDocsBase + "/environment",
		Tags:              []string{"environment", "details", "info"},
	},
	{
		Name:        "List Solutions",
		Category:    "Solution Management",
		Description: "Lists solutions in an environment",
		Command:     "pac solution list",
		Parameters: models.CommandParameters{Required: []models.CommandParameter{
			{Name: "--environment-id", Description: "Environment ID to query solutions from"},
		}},
		ExampleUsage:      "pac solution list --environment-id 12345678-1234-1234-1234-123456789012",
		DocumentationLink: cliDocsBase + "/solution",
		Tags:              []string{"solution", "environment", "management"},
	},
	{
		Name:        "List Users",
		Category:    "Identity Management",
		Description: "Lists users in an environment with their security roles",
		Command:     "pac user list",
		Parameters: models.CommandParameters{Required: []models.CommandParameter{
			{Name: "--environment-id", Description: "Environment ID to query users from"},
		}},
		ExampleUsage:      "pac user list --environment-id 12345678-1234-1234-1234-123456789012",
		DocumentationLink: cliDocsBase + "/user",
		Tags:              []string{"user", "security", "roles"},
	},
}

// Seed inserts the baseline categories, environments, checklist items and CLI
// reference commands. Every row is matched on its natural key first, so
// seeding a populated database changes nothing.
func Seed(tx *gorm.DB) error {
	categoryIDs := make(map[string]uint, len(defaultCategories))
	for _, c := range defaultCategories {
		category := c
		if err := tx.Where(models.ComplianceCategory{Name: category.Name}).
			Attrs(category).
			FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[category.Name] = category.ID
	}

	for _, e := range defaultEnvironments {
		env := e
		if err := tx.Where(models.Environment{ID: env.ID}).
			Attrs(env).
			FirstOrCreate(&env).Error; err != nil {
			return fmt.Errorf("failed to seed environment %q: %w", e.ID, err)
		}
	}

	for _, s := range defaultItems {
		categoryID, ok := categoryIDs[s.category]
		if !ok {
			continue
		}
		item := s.item
		item.CategoryID = categoryID
		if err := tx.Where("category_id = ? AND title = ?", categoryID, item.Title).
			Attrs(item).
			FirstOrCreate(&item).Error; err != nil {
			return fmt.Errorf("failed to seed item %q: %w", s.item.Title, err)
		}
	}

	for _, c := range defaultCommands {
		cmd := c
		if err := tx.Where("name = ? AND command = ?", cmd.Name, cmd.Command).
			Attrs(cmd).
			FirstOrCreate(&cmd).Error; err != nil {
			return fmt.Errorf("failed to seed command %q: %w", c.Name, err)
		}
	}

	return nil
}
