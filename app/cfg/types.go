package cfg

type Cfg struct {
	// Notion configuration
	NotionToken      string
	NotionDatabaseID string
	NotionAPIURL     string
	NotionVersion    string

	// Sync configuration
	DeployHookURL  string
	DeployPassword string
	SnapshotPath   string
	HistoryDB      string
	SiteConfig     string

	// Server configuration
	Port         string
	SyncInterval int
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// Selected command and its arguments
	Command string
	PageID  string
}
