package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	RefDataError    = 4
	AuditError      = 5
)
