// Package dump reads every row of a table and emits one redacted log line
// per row through the redacting logger.
package dump

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veil-tools/veil/cmd/veil/internal/database"
	"github.com/veil-tools/veil/cmd/veil/internal/logging"
)

// Dumper streams table rows into the logger. Every column is flattened into
// the key=value; message and the logger's redactor masks the sensitive ones;
// the dumper itself never filters columns.
type Dumper struct {
	driver database.Driver
	logger *logging.Logger
	table  string
}

// New creates a Dumper for the given table.
func New(driver database.Driver, logger *logging.Logger, table string) *Dumper {
	return &Dumper{
		driver: driver,
		logger: logger,
		table:  table,
	}
}

// Run dumps the table and returns the number of rows emitted. Iteration
// stops between rows when ctx is cancelled.
func (d *Dumper) Run(ctx context.Context) (int, error) {
	exists, err := d.driver.TableExists(ctx, d.table)
	if err != nil {
		return 0, fmt.Errorf("failed to check table %s: %w", d.table, err)
	}
	if !exists {
		return 0, fmt.Errorf("table does not exist: %s", d.table)
	}

	runID := uuid.New().String()
	d.logger.Infof("dump started run=%s table=%s", runID, d.table)

	// Table name comes from config or the -table flag and was just checked
	// against the catalog, so interpolation is safe here.
	rows, err := d.driver.Query(ctx, fmt.Sprintf("SELECT * FROM %s", d.table))
	if err != nil {
		return 0, fmt.Errorf("failed to query table %s: %w", d.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		if err := rows.Scan(pointers...); err != nil {
			return count, fmt.Errorf("failed to scan row: %w", err)
		}

		d.logger.Info(Message(columns, values))
		count++
	}

	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to iterate rows: %w", err)
	}

	d.logger.Infof("dump finished run=%s table=%s rows=%d", runID, d.table, count)
	return count, nil
}

// Message flattens one scanned row into "k=v; k=v; ... k=v;" form.
func Message(columns []string, values []any) string {
	var b strings.Builder
	for i, column := range columns {
		b.WriteString(column)
		b.WriteByte('=')
		b.WriteString(formatValue(values[i]))
		b.WriteString("; ")
	}
	return strings.TrimRight(b.String(), " ")
}

// formatValue renders a scanned column value as text.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
