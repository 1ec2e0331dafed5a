package blog

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var timeType = reflect.TypeOf(time.Time{})

type SQLRepository[T Document] struct {
	db        *sql.DB
	tableName string
	columns   []string
}

func NewSQLRepository[T Document](db *sql.DB) *SQLRepository[T] {
	var doc T
	return &SQLRepository[T]{
		db:        db,
		tableName: doc.GetTableName(),
		columns:   columnNames(reflect.TypeOf(doc)),
	}
}

// FindById returns sql.ErrNoRows when no row has the given id.
func (r *SQLRepository[T]) FindById(ctx context.Context, id interface{}) (T, error) {
	var result T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectList(), r.tableName)
	row := r.db.QueryRowContext(ctx, query, id)
	err := row.Scan(scanTargets(&result)...)
	return result, err
}

// FindUpTo returns rows whose field is <= bound. NULL never satisfies the
// comparison, so rows without a value are excluded.
func (r *SQLRepository[T]) FindUpTo(ctx context.Context, field string, bound interface{}, sort ...SortField) ([]T, error) {
	if !identifierPattern.MatchString(field) {
		return nil, fmt.Errorf("invalid column name %q", field)
	}
	orderBy, err := orderByClause(sort)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s <= $1%s", r.selectList(), r.tableName, field, orderBy)
	rows, err := r.db.QueryContext(ctx, query, bound)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *SQLRepository[T]) FindAll(ctx context.Context, sort ...SortField) ([]T, error) {
	orderBy, err := orderByClause(sort)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", r.selectList(), r.tableName, orderBy)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *SQLRepository[T]) Save(ctx context.Context, doc T) error {
	return r.save(ctx, r.db, doc)
}

func (r *SQLRepository[T]) SaveAll(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := r.save(ctx, tx, doc); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLRepository[T]) CreateTable(ctx context.Context) error {
	var entity T
	typ := reflect.TypeOf(entity)

	columns := []string{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		columnName, ok := columnName(field)
		if !ok {
			continue
		}

		columnDef := fmt.Sprintf("%s %s", columnName, sqlType(field.Type))
		if columnName == "id" {
			columnDef += " PRIMARY KEY"
		}
		columns = append(columns, columnDef)
	}

	createQuery := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", r.tableName, strings.Join(columns, ", "))
	_, err := r.db.ExecContext(ctx, createQuery)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *SQLRepository[T]) save(ctx context.Context, db execer, doc T) error {
	values := fieldValues(doc)
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.tableName,
		r.selectList(),
		strings.Join(placeholders, ","))

	_, err := db.ExecContext(ctx, query, values...)
	return err
}

func (r *SQLRepository[T]) selectList() string {
	return strings.Join(r.columns, ",")
}

func (r *SQLRepository[T]) scanRows(rows *sql.Rows) ([]T, error) {
	results := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(scanTargets(&item)...); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func orderByClause(sort []SortField) (string, error) {
	if len(sort) == 0 {
		return "", nil
	}
	parts := make([]string, len(sort))
	for i, s := range sort {
		if !identifierPattern.MatchString(s.Field) {
			return "", fmt.Errorf("invalid sort column %q", s.Field)
		}
		direction := "ASC"
		if s.Direction < 0 {
			direction = "DESC"
		}
		parts[i] = s.Field + " " + direction
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// columnName resolves the db tag of a struct field, falling back to the
// lower-cased field name. Fields tagged db:"-" are not mapped.
func columnName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("db")
	if tag == "-" || !field.IsExported() {
		return "", false
	}
	if tag == "" {
		tag = strings.ToLower(field.Name)
	}
	return tag, true
}

func columnNames(typ reflect.Type) []string {
	var columns []string
	for i := 0; i < typ.NumField(); i++ {
		if name, ok := columnName(typ.Field(i)); ok {
			columns = append(columns, name)
		}
	}
	return columns
}

func scanTargets[T any](dest *T) []interface{} {
	val := reflect.ValueOf(dest).Elem()
	typ := val.Type()

	var targets []interface{}
	for i := 0; i < typ.NumField(); i++ {
		if _, ok := columnName(typ.Field(i)); ok {
			targets = append(targets, val.Field(i).Addr().Interface())
		}
	}
	return targets
}

func fieldValues[T any](doc T) []interface{} {
	val := reflect.ValueOf(doc)
	typ := val.Type()

	var values []interface{}
	for i := 0; i < typ.NumField(); i++ {
		if _, ok := columnName(typ.Field(i)); ok {
			values = append(values, val.Field(i).Interface())
		}
	}
	return values
}

func sqlType(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType {
		return "TIMESTAMPTZ"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "BIGINT"
	case reflect.Bool:
		return "BOOLEAN"
	case reflect.Float32, reflect.Float64:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
