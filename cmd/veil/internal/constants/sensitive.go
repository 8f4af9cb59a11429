package constants

// PIIFields are the default field names whose values are redacted in dump
// output. Additional fields can be added via logging.additional_sensitive_fields.
// Used in: logging/logger.go and cmd/veil/main.go
var PIIFields = []string{
	"name",
	"email",
	"phone",
	"ssn",
	"password",
}

// RedactionToken is the string used to replace sensitive values in dump lines.
const RedactionToken = "***"

// FieldSeparator delimits consecutive key=value pairs in a dump line.
const FieldSeparator = ';'
