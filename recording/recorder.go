// Package recording stores experiment results in SQLite files. Tables are
// declared from sample struct values, and rows are buffered and written in
// batches.
package recording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table shaped like the sample entry. Every
	// field of the sample must be of a primitive kind.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and closes the database.
	Close()
}

// New creates a DataRecorder writing to the given path, with ".sqlite3"
// appended. An empty path picks a unique generated name. The recorder is
// flushed automatically at process exit.
func New(path string) DataRecorder {
	w := NewSQLiteWriter(path)
	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// SQLiteWriter writes data into a SQLite database.
type SQLiteWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates a SQLiteWriter. Call Init before use.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}
}

// Init establishes the connection to the database, refusing to overwrite an
// existing file.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "quincunx_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db
}

// Filename returns the name of the database file backing the writer.
func (w *SQLiteWriter) Filename() string {
	return w.dbName + ".sqlite3"
}

func (w *SQLiteWriter) isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func (w *SQLiteWriter) checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !w.isAllowedType(field.Type.Kind()) {
			return errors.New("entry is invalid")
		}
	}

	return nil
}

func fieldNames(entry any) []string {
	types := reflect.TypeOf(entry)

	names := make([]string, types.NumField())
	for i := range names {
		names[i] = types.Field(i).Name
	}

	return names
}

// CreateTable creates a new table shaped like the sample entry.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	err := w.checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	fields := strings.Join(fieldNames(sampleEntry), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	w.mustExecute(createTableSQL)

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}
}

// InsertData buffers one entry for the named table.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	table, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

// ListTables returns the names of all created tables.
func (w *SQLiteWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for table := range w.tables {
		tables = append(tables, table)
	}

	return tables
}

// Flush writes all buffered entries to the database in one transaction.
func (w *SQLiteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for tableName, table := range w.tables {
		if len(table.entries) == 0 {
			continue
		}

		w.prepareStatement(tableName, table.entries[0])

		for _, entry := range table.entries {
			v := []any{}

			values := reflect.ValueOf(entry)
			for i := 0; i < values.NumField(); i++ {
				v = append(v, values.Field(i).Interface())
			}

			_, err := w.statement.Exec(v...)
			if err != nil {
				panic(err)
			}
		}

		table.entries = nil

		w.statement.Close()
		w.statement = nil
	}

	w.entryCount = 0
}

// Close flushes and closes the database.
func (w *SQLiteWriter) Close() {
	w.Flush()

	err := w.DB.Close()
	if err != nil {
		panic(err)
	}
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (w *SQLiteWriter) prepareStatement(tableName string, entry any) {
	n := fieldNames(entry)
	for i := range n {
		n[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(n, ", ") + ")"

	stmt, err := w.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	w.statement = stmt
}
