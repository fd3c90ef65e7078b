package warehouse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// AutoTimestampColumn is populated by the warehouse and never bound on insert.
const AutoTimestampColumn = "TIMESTAMP"

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnMismatch = errors.New("row does not match table columns")
)

const columnsQuery = `SELECT column_name FROM information_schema.columns ` +
	`WHERE table_schema = COALESCE(NULLIF(?, ''), current_schema()) AND table_name = ? ` +
	`ORDER BY ordinal_position`

// Warehouse is the generic access layer over the reporting database.
type Warehouse struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Warehouse {
	return &Warehouse{db: db}
}

// Result is the outcome of an arbitrary query. Columns holds the header,
// Rows only data.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Row maps column names to the values to insert.
type Row map[string]any

// InsertPlan carries the column order discovered from the live table schema.
// Values must be bound in exactly this order.
type InsertPlan struct {
	Table   string
	Columns []string
}

// Bind orders row by the plan's columns. A row that is missing a column or
// names a column the table does not have is rejected.
func (p *InsertPlan) Bind(row Row) ([]any, error) {
	values := make([]any, len(p.Columns))
	for i, column := range p.Columns {
		v, ok := row[column]
		if !ok {
			return nil, fmt.Errorf("%w: no value for %s.%s", ErrColumnMismatch, p.Table, column)
		}
		values[i] = v
	}

	if len(row) != len(p.Columns) {
		var unknown []string
		for name := range row {
			if !slices.Contains(p.Columns, name) {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s has no column(s) %s", ErrColumnMismatch, p.Table, strings.Join(unknown, ", "))
	}

	return values, nil
}

// Query executes statement and returns its header and data rows.
func (w *Warehouse) Query(ctx context.Context, statement string, args ...any) (*Result, error) {
	rows, err := w.db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// Truncate removes every row from table.
func (w *Warehouse) Truncate(ctx context.Context, table string) error {
	if err := w.db.WithContext(ctx).Exec("TRUNCATE TABLE " + w.Quote(table)).Error; err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

// Columns returns the column names of table in schema order, without the
// auto-populated TIMESTAMP column. A schema-qualified name ("schema.table")
// is looked up in that schema, otherwise in the current one.
func (w *Warehouse) Columns(ctx context.Context, table string) ([]string, error) {
	schema, name := splitTableName(table)

	rows, err := w.db.WithContext(ctx).Raw(columnsQuery, schema, name).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		if column == AutoTimestampColumn {
			continue
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", table, err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return columns, nil
}

// PrepareInsert discovers the bind order for table.
func (w *Warehouse) PrepareInsert(ctx context.Context, table string) (*InsertPlan, error) {
	columns, err := w.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	return &InsertPlan{Table: table, Columns: columns}, nil
}

// Exec inserts one row of values, ordered as plan.Columns, in its own
// transaction. Nothing is committed when the warehouse rejects the statement.
func (w *Warehouse) Exec(ctx context.Context, plan *InsertPlan, values []any) error {
	if len(values) != len(plan.Columns) {
		return fmt.Errorf("%w: %s expects %d values, got %d", ErrColumnMismatch, plan.Table, len(plan.Columns), len(values))
	}

	statement := w.insertStatement(plan)
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(statement, values...).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", plan.Table, err)
	}
	return nil
}

// Insert binds row against the live schema of table and inserts it. The
// column order used is returned.
func (w *Warehouse) Insert(ctx context.Context, table string, row Row) ([]string, error) {
	plan, err := w.PrepareInsert(ctx, table)
	if err != nil {
		return nil, err
	}

	values, err := plan.Bind(row)
	if err != nil {
		return nil, err
	}

	if err := w.Exec(ctx, plan, values); err != nil {
		return nil, err
	}
	return plan.Columns, nil
}

// Quote quotes an identifier with the dialect's rules.
func (w *Warehouse) Quote(name string) string {
	return w.db.Statement.Quote(name)
}

func (w *Warehouse) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (w *Warehouse) insertStatement(plan *InsertPlan) string {
	columns := make([]string, len(plan.Columns))
	binds := make([]string, len(plan.Columns))
	for i, column := range plan.Columns {
		columns[i] = w.Quote(column)
		binds[i] = "?"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		w.Quote(plan.Table), strings.Join(columns, ", "), strings.Join(binds, ", "))
}

func splitTableName(table string) (string, string) {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return schema, name
	}
	return "", table
}
