package logging

// Field names for structured log entries.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Conversion.
	FieldPhase       = "phase"
	FieldDuration    = "duration"
	FieldBytes       = "bytes"
	FieldLines       = "lines"
	FieldNodes       = "nodes"
	FieldDefinitions = "definitions"
	FieldDiagnostics = "diagnostics"

	// Batch runs.
	FieldJobs             = "jobs"
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesConverted   = "files_converted"
	FieldFilesFailed      = "files_failed"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
