package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// rowReturningPrefixes are leading keywords of statements that produce a result set.
var rowReturningPrefixes = []string{"SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE"}

// AdminRepository runs catalog queries and raw statements on the shared pool.
// Table names passed in must already be validated by the caller.
type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ListTables(ctx context.Context) ([]entities.TableInfo, error) {
	tables := []entities.TableInfo{}
	if err := r.db.SelectContext(ctx, &tables, constants.ListPublicTables); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (r *AdminRepository) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, constants.PublicTableExists, table); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

func (r *AdminRepository) DescribeTable(ctx context.Context, table string) ([]entities.ColumnInfo, error) {
	columns := []entities.ColumnInfo{}
	if err := r.db.SelectContext(ctx, &columns, constants.DescribePublicTable, table); err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	return columns, nil
}

func (r *AdminRepository) SelectRows(ctx context.Context, table string, limit, offset int) (*entities.QueryResult, error) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(table) + " LIMIT $1 OFFSET $2"
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", table, err)
	}
	defer rows.Close()
	return scanResult(rows)
}

func (r *AdminRepository) TruncateTable(ctx context.Context, table string, cascade bool) error {
	stmt := "TRUNCATE TABLE " + pq.QuoteIdentifier(table)
	if cascade {
		stmt += " CASCADE"
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

func (r *AdminRepository) DropTable(ctx context.Context, table string, cascade bool) error {
	stmt := "DROP TABLE " + pq.QuoteIdentifier(table)
	if cascade {
		stmt += " CASCADE"
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	return nil
}

// CreateTable executes a CREATE TABLE statement assembled from allowlisted parts.
func (r *AdminRepository) CreateTable(ctx context.Context, stmt string) error {
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// ExecuteSQL runs one statement inside its own transaction. Row-returning
// statements are read through Query, everything else through Exec.
func (r *AdminRepository) ExecuteSQL(ctx context.Context, query string, readOnly bool) (*entities.QueryResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var result *entities.QueryResult
	if ReturnsRows(query) {
		rows, err := tx.QueryxContext(ctx, query)
		if err != nil {
			return nil, err
		}
		result, err = scanResult(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
	} else {
		res, err := tx.ExecContext(ctx, query)
		if err != nil {
			return nil, err
		}
		affected, _ := res.RowsAffected()
		result = &entities.QueryResult{Columns: []string{}, Rows: []map[string]any{}, RowsAffected: affected}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}

// ReturnsRows reports whether a statement produces a result set.
func ReturnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, p := range rowReturningPrefixes {
		if strings.HasPrefix(q, p) {
			return true
		}
	}
	return strings.Contains(q, "RETURNING")
}

func scanResult(rows *sqlx.Rows) (*entities.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := &entities.QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.RowsAffected = int64(len(result.Rows))
	return result, nil
}
