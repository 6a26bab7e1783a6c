package store

import "path/filepath"

// Layout is the resolved set of on-disk paths for one project's state
// directory (spec.md §6). A Layout is always rooted at a ".cleo" directory
// on disk; the global mirror at $HOME/.cleo uses the same shape.
type Layout struct {
	Root string // absolute path to the ".cleo" directory

	TasksPath      string
	ArchivePath    string
	SessionsPath   string
	AuditLogPath   string
	ConfigPath     string
	ManifestLogPath string

	MetricsDir     string
	TokenUsagePath string
	SessionsMetricsPath string
	GlobalMetricsPath string
	CompliancePath string
	ViolationsPath string
	ABTestsPath    string
	OTelDir        string

	BackupsDir           string
	OperationalBackupDir string
	SafetyBackupDir      string
	SnapshotBackupDir    string
	MigrationBackupDir   string
}

// NewLayout resolves every path in the ".cleo" directory layout of
// spec.md §6 relative to root.
func NewLayout(root string) Layout {
	metrics := filepath.Join(root, "metrics")
	backups := filepath.Join(root, "backups")
	return Layout{
		Root: root,

		TasksPath:       filepath.Join(root, "todo.json"),
		ArchivePath:     filepath.Join(root, "todo-archive.json"),
		SessionsPath:    filepath.Join(root, "sessions.json"),
		AuditLogPath:    filepath.Join(root, "todo-log.jsonl"),
		ConfigPath:      filepath.Join(root, "config.json"),
		ManifestLogPath: filepath.Join(root, "manifest.jsonl"),

		MetricsDir:          metrics,
		TokenUsagePath:      filepath.Join(metrics, "TOKEN_USAGE.jsonl"),
		SessionsMetricsPath: filepath.Join(metrics, "SESSIONS.jsonl"),
		GlobalMetricsPath:   filepath.Join(metrics, "GLOBAL.jsonl"),
		CompliancePath:      filepath.Join(metrics, "COMPLIANCE.jsonl"),
		ViolationsPath:      filepath.Join(metrics, "VIOLATIONS.jsonl"),
		ABTestsPath:         filepath.Join(metrics, "ab-tests", "AB_TESTS.jsonl"),
		OTelDir:             filepath.Join(metrics, "otel"),

		BackupsDir:           backups,
		OperationalBackupDir: filepath.Join(backups, "operational"),
		SafetyBackupDir:      filepath.Join(backups, "safety"),
		SnapshotBackupDir:    filepath.Join(backups, "snapshot"),
		MigrationBackupDir:   filepath.Join(backups, "migration"),
	}
}
