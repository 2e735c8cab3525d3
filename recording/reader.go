package recording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

// QueryParams encapsulates all query parameters.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword.
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit is the maximum number of records to return. Zero means no
	// limit.
	Limit int

	// Offset is the number of records to skip.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords.
	OrderBy string
}

// SQLiteReader reads recorded data back from a SQLite database.
type SQLiteReader struct {
	*sql.DB

	dbName  string
	typeMap map[string]reflect.Type
}

// NewSQLiteReader creates a SQLiteReader. Call Init before use.
func NewSQLiteReader(path string) *SQLiteReader {
	return &SQLiteReader{
		dbName:  path,
		typeMap: make(map[string]reflect.Type),
	}
}

// Init establishes the connection to the database.
func (r *SQLiteReader) Init() {
	db, err := sql.Open("sqlite3", r.dbName+".sqlite3")
	if err != nil {
		panic(err)
	}

	r.DB = db
}

// MapTable establishes a mapping between a database table and a Go struct
// type. The mapping is required before querying a table.
func (r *SQLiteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

// ListTables returns the names of all mapped tables.
func (r *SQLiteReader) ListTables() []string {
	tables := make([]string, 0, len(r.typeMap))
	for table := range r.typeMap {
		tables = append(tables, table)
	}

	return tables
}

// Query runs a query on one table, returning the matching entries as values
// of the mapped struct type and the total number of rows matching Where
// regardless of pagination.
func (r *SQLiteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	query := fmt.Sprintf("SELECT * FROM %s", tableName)

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	totalCount, err := r.queryTotalCount(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func (r *SQLiteReader) queryTotalCount(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)
	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	var count int
	err := r.QueryRowContext(ctx, query, params.Args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	var results []any

	for rows.Next() {
		entry := reflect.New(structType).Elem()

		fields := make([]any, structType.NumField())
		for i := range fields {
			fields[i] = entry.Field(i).Addr().Interface()
		}

		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

// Close closes the reader.
func (r *SQLiteReader) Close() error {
	return r.DB.Close()
}
