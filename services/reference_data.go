package services

import "github.com/admin-concierge/dto"

func quickReference() dto.QuickReference {
	var ref dto.QuickReference

	ref.Installation.Title = "Installing Power Platform CLI"
	ref.Installation.Methods = []dto.InstallMethod{
		{
			Name:        "Windows (MSI Installer)",
			Command:     "Download from https://aka.ms/PowerPlatformCLI",
			Description: "Recommended for Windows users",
		},
		{
			Name:        "NPM",
			Command:     "npm install -g @microsoft/powerplatform-cli",
			Description: "Cross-platform installation via Node.js",
		},
		{
			Name:        "Visual Studio Code Extension",
			Command:     "Install 'Power Platform Tools' extension",
			Description: "Integrated CLI experience in VS Code",
		},
	}

	ref.Authentication.Title = "Authentication Commands"
	ref.Authentication.Commands = []dto.ReferenceCommand{
		{
			Command:     "pac auth create",
			Description: "Authenticate to your Power Platform environment",
			Example:     "pac auth create --name MyTenant --url https://yourtenant.crm.dynamics.com",
		},
		{
			Command:     "pac auth list",
			Description: "List all authenticated profiles",
			Example:     "pac auth list",
		},
		{
			Command:     "pac auth select",
			Description: "Select an authentication profile",
			Example:     "pac auth select --name MyTenant",
		},
	}

	ref.CommonWorkflows.Title = "Common Administrative Workflows"
	ref.CommonWorkflows.Workflows = []dto.Workflow{
		{
			Name:        "Environment Audit",
			Description: "Complete audit of an environment",
			Steps: []string{
				"pac environment list",
				"pac environment show --environment-id {env-id}",
				"pac user list --environment-id {env-id}",
				"pac solution list --environment-id {env-id}",
				"pac connector list --environment-id {env-id}",
			},
		},
		{
			Name:        "Security Review",
			Description: "Review security settings and policies",
			Steps: []string{
				"pac admin list",
				"pac user list --environment-id {env-id}",
				"pac security list",
			},
		},
		{
			Name:        "Compliance Check",
			Description: "Basic compliance verification",
			Steps: []string{
				"pac environment list",
				"pac connector list",
				"pac analytics list",
			},
		},
	}

	ref.Troubleshooting.Title = "Troubleshooting"
	ref.Troubleshooting.Tips = []dto.TroubleshootingTip{
		{Issue: "Authentication Failed", Solution: "Run 'pac auth clear' and re-authenticate with 'pac auth create'"},
		{Issue: "Permission Denied", Solution: "Ensure you have the required admin roles in your tenant"},
		{Issue: "Environment Not Found", Solution: "Verify environment ID with 'pac environment list'"},
		{Issue: "Command Not Recognized", Solution: "Update CLI with 'npm update -g @microsoft/powerplatform-cli'"},
	}

	return ref
}

func bestPractices() dto.BestPractices {
	return dto.BestPractices{
		Security: []string{
			"Always use service principal authentication for automated scripts",
			"Regularly rotate authentication credentials",
			"Use least-privilege access for CLI operations",
			"Never store credentials in scripts or version control",
			"Use Azure Key Vault for storing sensitive information",
		},
		Automation: []string{
			"Use JSON output format for scripting: --output json",
			"Implement proper error handling in scripts",
			"Use environment variables for configuration",
			"Log all CLI operations for audit trails",
			"Test scripts in development environments first",
		},
		Monitoring: []string{
			"Schedule regular environment audits",
			"Monitor DLP policy compliance",
			"Track solution deployment activities",
			"Review user access patterns",
			"Generate compliance reports regularly",
		},
		Governance: []string{
			"Document all CLI procedures",
			"Maintain consistent naming conventions",
			"Use version control for scripts",
			"Implement approval processes for production changes",
			"Regular training for administrative staff",
		},
	}
}
