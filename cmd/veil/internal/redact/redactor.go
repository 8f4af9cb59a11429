// Package redact masks sensitive field values in key=value dump lines.
//
// Matching is anchored to separator-delimited segments rather than done with
// a regular expression: a pair is rewritten only when the field name matches
// exactly, so asking for "ssn" never touches "ssnid" and "name" never matches
// inside "username". A trailing pair with no terminating separator is left
// untouched.
package redact

import "strings"

// Redact replaces the value of every field=value pair whose field name is in
// fields with token, preserving field names, separators and everything
// outside matched pairs. Unknown fields are skipped silently; an empty field
// list returns message unchanged.
func Redact(fields []string, token, message string, separator byte) string {
	if len(fields) == 0 || message == "" {
		return message
	}

	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f != "" {
			names[f] = struct{}{}
		}
	}

	var b strings.Builder
	b.Grow(len(message))

	for start := 0; start < len(message); {
		end := strings.IndexByte(message[start:], separator)
		if end < 0 {
			// Unterminated trailing segment: emitted verbatim, never redacted.
			b.WriteString(message[start:])
			break
		}
		end += start

		segment := message[start:end]
		if key, prefixLen := fieldName(segment); key != "" {
			if _, ok := names[key]; ok {
				b.WriteString(segment[:prefixLen+len(key)+1])
				b.WriteString(token)
			} else {
				b.WriteString(segment)
			}
		} else {
			b.WriteString(segment)
		}
		b.WriteByte(separator)
		start = end + 1
	}

	return b.String()
}

// fieldName extracts the field name of the key=value pair in segment, along
// with the length of any leading text before it. The name is the run of
// characters between the last whitespace (or segment start) and the first
// '='. Returns "" when the segment carries no pair.
func fieldName(segment string) (name string, prefixLen int) {
	eq := strings.IndexByte(segment, '=')
	if eq <= 0 {
		return "", 0
	}

	name = segment[:eq]
	if i := strings.LastIndexAny(name, " \t"); i >= 0 {
		prefixLen = i + 1
		name = name[prefixLen:]
	}
	if name == "" {
		return "", 0
	}
	return name, prefixLen
}

// Redactor applies a fixed field set, token and separator to any number of
// messages. Safe for concurrent use; configuration is immutable after New.
type Redactor struct {
	fields    []string
	token     string
	separator byte
}

// New creates a Redactor. The fields slice is copied.
func New(fields []string, token string, separator byte) *Redactor {
	return &Redactor{
		fields:    append([]string(nil), fields...),
		token:     token,
		separator: separator,
	}
}

// Redact masks the configured fields in message.
func (r *Redactor) Redact(message string) string {
	return Redact(r.fields, r.token, message, r.separator)
}

// Fields returns a copy of the configured field names.
func (r *Redactor) Fields() []string {
	return append([]string(nil), r.fields...)
}
