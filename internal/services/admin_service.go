package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/models/entities"
)

var identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

var (
	columnTypes = map[string]bool{
		"text": true, "integer": true, "bigint": true, "smallint": true,
		"serial": true, "bigserial": true, "boolean": true, "numeric": true,
		"real": true, "double precision": true, "date": true, "timestamp": true,
		"timestamptz": true, "uuid": true, "jsonb": true,
	}
	varcharType = regexp.MustCompile(`^varchar\(([1-9][0-9]{0,4})\)$`)

	columnDefaults = map[string]bool{
		"now()": true, "true": true, "false": true, "0": true, "''": true,
	}
)

type AdminService struct {
	repo      *repositories.AdminRepository
	cfg       config.AdminConfig
	protected map[string]bool
	metrics   *metrics.MetricsRegistry
}

func NewAdminService(repo *repositories.AdminRepository, cfg config.AdminConfig, metricsReg *metrics.MetricsRegistry) *AdminService {
	protected := make(map[string]bool, len(cfg.ProtectedTables))
	for _, t := range cfg.ProtectedTables {
		protected[strings.ToLower(t)] = true
	}
	return &AdminService{repo: repo, cfg: cfg, protected: protected, metrics: metricsReg}
}

func (s *AdminService) ListTables(ctx context.Context) ([]entities.TableInfo, error) {
	return s.repo.ListTables(ctx)
}

func (s *AdminService) DescribeTable(ctx context.Context, table string) ([]entities.ColumnInfo, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}
	return s.repo.DescribeTable(ctx, table)
}

func (s *AdminService) Rows(ctx context.Context, table string, limit, offset int) (*entities.QueryResult, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultAdminRowLimit
	}
	if limit > constants.MaxAdminRowLimit {
		limit = constants.MaxAdminRowLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.SelectRows(ctx, table, limit, offset)
}

func (s *AdminService) ClearTable(ctx context.Context, table string, cascade bool, actor *auth.SessionUser) error {
	if err := s.requireMutableTable(ctx, table); err != nil {
		return err
	}
	if err := s.repo.TruncateTable(ctx, table, cascade); err != nil {
		return err
	}
	logging.Warn("Admin cleared table", "table", table, "cascade", cascade, "user_id", actor.ID)
	return nil
}

func (s *AdminService) DropTable(ctx context.Context, table string, cascade bool, actor *auth.SessionUser) error {
	if err := s.requireMutableTable(ctx, table); err != nil {
		return err
	}
	if err := s.repo.DropTable(ctx, table, cascade); err != nil {
		return err
	}
	logging.Warn("Admin dropped table", "table", table, "cascade", cascade, "user_id", actor.ID)
	return nil
}

func (s *AdminService) CreateTable(ctx context.Context, req dtos.CreateTableRequest, actor *auth.SessionUser) error {
	stmt, err := buildCreateTableStatement(req)
	if err != nil {
		return err
	}
	exists, err := s.repo.TableExists(ctx, req.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("table %q %w", req.Name, ErrConflict)
	}
	if err := s.repo.CreateTable(ctx, stmt); err != nil {
		return err
	}
	logging.Info("Admin created table", "table", req.Name, "columns", len(req.Columns), "user_id", actor.ID)
	return nil
}

// ExecuteSQL runs a single statement under the configured timeout.
func (s *AdminService) ExecuteSQL(ctx context.Context, req dtos.SQLRequest, actor *auth.SessionUser) (*entities.QueryResult, error) {
	if !s.cfg.SQLEnabled {
		return nil, ErrRawSQLDisabled
	}
	query, err := singleStatement(req.Query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SQLTimeout)
	defer cancel()

	kind := "exec"
	if repositories.ReturnsRows(query) {
		kind = "query"
	}

	start := time.Now()
	result, err := s.repo.ExecuteSQL(ctx, query, req.ReadOnly)
	s.metrics.ObserveAdminSQL(kind, time.Since(start).Seconds())

	logging.Warn("Admin executed SQL",
		"user_id", actor.ID,
		"read_only", req.ReadOnly,
		"kind", kind,
		"query", query,
		"success", err == nil,
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AdminService) requireTable(ctx context.Context, table string) error {
	if !identifierRegex.MatchString(table) {
		return common.NewValidationError("table", "invalid table name")
	}
	exists, err := s.repo.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *AdminService) requireMutableTable(ctx context.Context, table string) error {
	if err := s.requireTable(ctx, table); err != nil {
		return err
	}
	if s.protected[table] {
		return fmt.Errorf("%w: %s", ErrProtectedTable, table)
	}
	return nil
}

// buildCreateTableStatement assembles CREATE TABLE from allowlisted types and
// defaults. Identifiers are quoted.
func buildCreateTableStatement(req dtos.CreateTableRequest) (string, error) {
	if !identifierRegex.MatchString(req.Name) {
		return "", common.NewValidationError("name", "invalid table name")
	}
	if len(req.Columns) == 0 {
		return "", common.NewValidationError("columns", "at least one column is required")
	}

	seen := make(map[string]bool, len(req.Columns))
	var defs, pk []string
	for i, col := range req.Columns {
		field := fmt.Sprintf("columns[%d]", i)
		if !identifierRegex.MatchString(col.Name) {
			return "", common.NewValidationError(field+".name", "invalid column name")
		}
		if seen[col.Name] {
			return "", common.NewValidationError(field+".name", "duplicate column name")
		}
		seen[col.Name] = true

		typ := strings.ToLower(strings.Join(strings.Fields(col.Type), " "))
		if !columnTypes[typ] && !varcharType.MatchString(typ) {
			return "", common.NewValidationError(field+".type", fmt.Sprintf("unsupported column type %q", col.Type))
		}

		def := pq.QuoteIdentifier(col.Name) + " " + strings.ToUpper(typ)
		if !col.Nullable && !col.PrimaryKey {
			def += " NOT NULL"
		}
		if col.Unique && !col.PrimaryKey {
			def += " UNIQUE"
		}
		if col.Default != nil {
			d := strings.ToLower(strings.TrimSpace(*col.Default))
			if !columnDefaults[d] {
				return "", common.NewValidationError(field+".default", fmt.Sprintf("unsupported default %q", *col.Default))
			}
			def += " DEFAULT " + d
		}
		if col.PrimaryKey {
			pk = append(pk, pq.QuoteIdentifier(col.Name))
		}
		defs = append(defs, def)
	}
	if len(pk) > 0 {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}

	return "CREATE TABLE " + pq.QuoteIdentifier(req.Name) + " (" + strings.Join(defs, ", ") + ")", nil
}

// singleStatement trims a trailing semicolon and rejects input holding more
// than one statement. Quoted text is skipped.
func singleStatement(query string) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimSpace(strings.TrimSuffix(q, ";"))
	if q == "" {
		return "", common.NewValidationError("query", "this field is required")
	}

	var quote rune
	for _, r := range q {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			return "", common.NewValidationError("query", "only one statement may be executed at a time")
		}
	}
	return q, nil
}
