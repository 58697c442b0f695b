// Package sqltool provides the read-only database tools:
//   - "sql_query"      — execute a pre-authorised SELECT and render the
//     result as a delimited table, capped at 100 rows.
//   - "list_tables"    — list base tables from the information schema.
//   - "describe_table" — describe a table's columns from the information
//     schema.
//
// All three run against a narrow [DB] interface satisfied by *pgxpool.Pool
// and *pgx.Conn. sql_query relies on the dispatch policy gate having already
// verified the statement shape; it never re-checks it.
package sqltool

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arlberg/toolgate/internal/tool"
)

// maxRows is the largest number of data rows sql_query renders. Result sets
// beyond it get a trailing note stating how many rows were omitted.
const maxRows = 100

// DB is the database interface used by the SQL tools. Both *pgxpool.Pool and
// *pgx.Conn satisfy it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Tools executes the SQL tools against an injected connection or pool.
type Tools struct {
	db       DB
	database string // database name, echoed in list_tables output
}

// New creates the SQL tool set. database is the configured database name,
// included in list_tables output for operator context.
func New(db DB, database string) *Tools {
	return &Tools{db: db, database: database}
}

// NewTools returns the descriptors for sql_query, list_tables, and
// describe_table.
func (t *Tools) NewTools() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:        "sql_query",
			Description: "Executes a read-only SQL SELECT query",
			Schema: []tool.FieldSpec{
				{Name: "query", Kind: tool.KindString, Required: true, Description: "SQL SELECT query to execute"},
			},
			Effect:  tool.EffectDatabaseRead,
			Policy:  tool.ReadOnlyQuery,
			Execute: t.sqlQuery,
		},
		{
			Name:        "list_tables",
			Description: "Lists all base tables in the database",
			Schema:      nil, // no input
			Effect:      tool.EffectDatabaseRead,
			Execute:     t.listTables,
		},
		{
			Name:        "describe_table",
			Description: "Describes the structure of a table",
			Schema: []tool.FieldSpec{
				{Name: "table_name", Kind: tool.KindString, Required: true, Description: "Name of the table to describe"},
			},
			Effect:  tool.EffectDatabaseRead,
			Execute: t.describeTable,
		},
	}
}

func (t *Tools) sqlQuery(ctx context.Context, args tool.Args) (*tool.Result, error) {
	query := args.String("query")

	rows, err := t.db.Query(ctx, query)
	if err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "sql_query: %v", err)
	}
	defer rows.Close()

	columns := columnNames(rows)

	var rendered [][]string
	var structured []map[string]any
	omitted := 0

	for rows.Next() {
		if len(rendered) >= maxRows {
			omitted++
			continue
		}
		values, err := rows.Values()
		if err != nil {
			return nil, tool.Errorf(tool.KindDatabase, "sql_query: read row: %v", err)
		}

		cells := make([]string, len(values))
		record := make(map[string]any, len(values))
		for i, v := range values {
			cells[i] = renderValue(v)
			if i < len(columns) {
				record[columns[i]] = v
			}
		}
		rendered = append(rendered, cells)
		structured = append(structured, record)
	}
	if err := rows.Err(); err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "sql_query: %v", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, " | "))
	for _, cells := range rendered {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(cells, " | "))
	}
	if omitted > 0 {
		fmt.Fprintf(&sb, "\n... %d more rows omitted", omitted)
	}

	return &tool.Result{
		Data: map[string]any{
			"query":        query,
			"columns":      columns,
			"row_count":    len(structured),
			"rows_omitted": omitted,
			"results":      structured,
		},
		Text: sb.String(),
	}, nil
}

const listTablesQuery = `
	SELECT table_schema, table_name
	FROM information_schema.tables
	WHERE table_type = 'BASE TABLE'
	ORDER BY table_schema, table_name`

func (t *Tools) listTables(ctx context.Context, _ tool.Args) (*tool.Result, error) {
	rows, err := t.db.Query(ctx, listTablesQuery)
	if err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "list_tables: %v", err)
	}
	defer rows.Close()

	type tableRef struct {
		Schema   string `json:"schema"`
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	}
	var tables []tableRef

	for rows.Next() {
		var schema, name string
		if err := rows.Scan(&schema, &name); err != nil {
			return nil, tool.Errorf(tool.KindDatabase, "list_tables: scan: %v", err)
		}
		tables = append(tables, tableRef{Schema: schema, Name: name, FullName: schema + "." + name})
	}
	if err := rows.Err(); err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "list_tables: %v", err)
	}

	var sb strings.Builder
	for i, tbl := range tables {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- " + tbl.FullName)
	}

	return &tool.Result{
		Data: map[string]any{
			"database":    t.database,
			"table_count": len(tables),
			"tables":      tables,
		},
		Text: sb.String(),
	}, nil
}

const describeTableQuery = `
	SELECT column_name, data_type, character_maximum_length, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_name = $1
	ORDER BY ordinal_position`

func (t *Tools) describeTable(ctx context.Context, args tool.Args) (*tool.Result, error) {
	tableName := args.String("table_name")

	rows, err := t.db.Query(ctx, describeTableQuery, tableName)
	if err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "describe_table: %v", err)
	}
	defer rows.Close()

	type column struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Nullable bool   `json:"nullable"`
		Default  string `json:"default,omitempty"`
	}
	var columns []column

	for rows.Next() {
		var (
			name, dataType, isNullable string
			maxLength                  *int
			colDefault                 *string
		)
		if err := rows.Scan(&name, &dataType, &maxLength, &isNullable, &colDefault); err != nil {
			return nil, tool.Errorf(tool.KindDatabase, "describe_table: scan: %v", err)
		}

		typeStr := dataType
		if maxLength != nil {
			typeStr = fmt.Sprintf("%s(%d)", dataType, *maxLength)
		}
		col := column{Name: name, Type: typeStr, Nullable: isNullable == "YES"}
		if colDefault != nil {
			col.Default = *colDefault
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, tool.Errorf(tool.KindDatabase, "describe_table: %v", err)
	}

	if len(columns) == 0 {
		return nil, tool.Errorf(tool.KindNotFound, "Table %q not found", tableName)
	}

	var sb strings.Builder
	sb.WriteString("column | type | nullable | default")
	for _, col := range columns {
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		def := col.Default
		if def == "" {
			def = "NULL"
		}
		fmt.Fprintf(&sb, "\n%s | %s | %s | %s", col.Name, col.Type, nullable, def)
	}

	return &tool.Result{
		Data: map[string]any{
			"table_name":   tableName,
			"column_count": len(columns),
			"columns":      columns,
		},
		Text: sb.String(),
	}, nil
}

// columnNames extracts the result column names from a pgx row set.
func columnNames(rows pgx.Rows) []string {
	descs := rows.FieldDescriptions()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = string(d.Name)
	}
	return names
}

// renderValue converts a single cell to its textual form. SQL NULL renders
// as the literal text "NULL".
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	}
	return fmt.Sprint(v)
}
