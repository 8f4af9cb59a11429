package constants

import "time"

// AppTag is the bracketed tag at the start of every rendered dump line.
const AppTag = "VEIL"

// DumpLoggerName is the logger name rendered into each dump line.
const DumpLoggerName = "user_data"

// EnvPrefix is the prefix for environment variable overrides (VEIL_*).
const EnvPrefix = "VEIL"

// DefaultQueryTimeout bounds a single dump query.
const DefaultQueryTimeout = 30 * time.Second

const (
	// DirPermissions is the mode for directories created at startup.
	DirPermissions = 0755
	// FilePermissions is the mode for dump files.
	FilePermissions = 0644
)
