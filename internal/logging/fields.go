package logging

// Field names for structured logging.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldFiles      = "files"
	FieldReport     = "report"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldCommand    = "command"

	// Engine.
	FieldCode     = "code"
	FieldGroup    = "group"
	FieldStrategy = "strategy"
	FieldFix      = "fix"
	FieldStart    = "start"
	FieldEdits    = "edits"
	FieldCommands = "commands"

	// Runner.
	FieldDryRun       = "dry_run"
	FieldBackup       = "backup"
	FieldJobs         = "jobs"
	FieldDiagnostics  = "diagnostics"
	FieldFilesChanged = "files_changed"
	FieldSkipped      = "skipped"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
