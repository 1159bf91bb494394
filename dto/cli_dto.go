package dto

// CommandCategory summarizes the commands in one CLI category
type CommandCategory struct {
	Category       string `json:"category"`
	CommandCount   int    `json:"command_count"`
	SampleCommands string `json:"sample_commands"`
}

type InstallMethod struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
}

type ReferenceCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

type Workflow struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

type TroubleshootingTip struct {
	Issue    string `json:"issue"`
	Solution string `json:"solution"`
}

// QuickReference is the static CLI cheat sheet
type QuickReference struct {
	Installation struct {
		Title   string          `json:"title"`
		Methods []InstallMethod `json:"methods"`
	} `json:"installation"`
	Authentication struct {
		Title    string             `json:"title"`
		Commands []ReferenceCommand `json:"commands"`
	} `json:"authentication"`
	CommonWorkflows struct {
		Title     string     `json:"title"`
		Workflows []Workflow `json:"workflows"`
	} `json:"commonWorkflows"`
	Troubleshooting struct {
		Title string               `json:"title"`
		Tips  []TroubleshootingTip `json:"tips"`
	} `json:"troubleshooting"`
}

// BestPractices is the static CLI guidance list
type BestPractices struct {
	Security   []string `json:"security"`
	Automation []string `json:"automation"`
	Monitoring []string `json:"monitoring"`
	Governance []string `json:"governance"`
}
