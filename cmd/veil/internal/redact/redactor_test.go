package redact

import "testing"

func TestRedact(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		token     string
		message   string
		separator byte
		want      string
	}{
		{
			name:      "Multiple sensitive fields",
			fields:    []string{"name", "email"},
			token:     "***",
			message:   "name=John;email=john@x.com;phone=555;",
			separator: ';',
			want:      "name=***;email=***;phone=555;",
		},
		{
			name:      "Trailing pair without separator is not redacted",
			fields:    []string{"password"},
			token:     "***",
			message:   "password=abc",
			separator: ';',
			want:      "password=abc",
		},
		{
			name:      "Empty field list returns input unchanged",
			fields:    nil,
			token:     "***",
			message:   "ssn=000-00-0000;password=hunter2;",
			separator: ';',
			want:      "ssn=000-00-0000;password=hunter2;",
		},
		{
			name:      "No matching field returns input unchanged",
			fields:    []string{"email"},
			token:     "***",
			message:   "id=42;city=Lisbon;",
			separator: ';',
			want:      "id=42;city=Lisbon;",
		},
		{
			name:      "Field name prefix does not bleed into longer name",
			fields:    []string{"ssn"},
			token:     "***",
			message:   "ssnid=12345;ssn=000-00-0000;",
			separator: ';',
			want:      "ssnid=12345;ssn=***;",
		},
		{
			name:      "Field name does not match inside another name",
			fields:    []string{"name"},
			token:     "***",
			message:   "username=bob;name=Bob;",
			separator: ';',
			want:      "username=bob;name=***;",
		},
		{
			name:      "Space-padded pairs keep their padding",
			fields:    []string{"name", "email"},
			token:     "***",
			message:   "id=7; name=John; email=a@b.com; phone=555;",
			separator: ';',
			want:      "id=7; name=***; email=***; phone=555;",
		},
		{
			name:      "Pair embedded in a rendered log line",
			fields:    []string{"name", "email"},
			token:     "***",
			message:   "[VEIL] user_data INFO 2026-08-27 10:00:00.000: name=John; email=a@b.com;",
			separator: ';',
			want:      "[VEIL] user_data INFO 2026-08-27 10:00:00.000: name=***; email=***;",
		},
		{
			name:      "Custom separator",
			fields:    []string{"phone"},
			token:     "xxx",
			message:   "phone=555-0100,city=Porto,",
			separator: ',',
			want:      "phone=xxx,city=Porto,",
		},
		{
			name:      "Empty value is still replaced",
			fields:    []string{"email"},
			token:     "***",
			message:   "email=;phone=1;",
			separator: ';',
			want:      "email=***;phone=1;",
		},
		{
			name:      "Empty message",
			fields:    []string{"email"},
			token:     "***",
			message:   "",
			separator: ';',
			want:      "",
		},
		{
			name:      "Segment without a pair is preserved",
			fields:    []string{"name"},
			token:     "***",
			message:   "hello world;name=Ann;",
			separator: ';',
			want:      "hello world;name=***;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.fields, tt.token, tt.message, tt.separator)
			if got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	fields := []string{"name", "email", "ssn"}
	message := "name=John; email=a@b.com; ssn=000-00-0000; city=Faro;"

	once := Redact(fields, "***", message, ';')
	twice := Redact(fields, "***", once, ';')

	if once != twice {
		t.Errorf("second pass changed output: %q -> %q", once, twice)
	}
}

func TestRedactor(t *testing.T) {
	fields := []string{"password"}
	r := New(fields, "***", ';')

	// Mutating the caller's slice must not affect the redactor
	fields[0] = "city"

	got := r.Redact("password=hunter2;city=Porto;")
	want := "password=***;city=Porto;"
	if got != want {
		t.Errorf("Redact() = %q, want %q", got, want)
	}

	if f := r.Fields(); len(f) != 1 || f[0] != "password" {
		t.Errorf("Fields() = %v, want [password]", f)
	}
}
