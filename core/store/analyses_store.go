package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Analysis mirrors the structured-analysis record the dashboard renders.
// Config and Results are stored as JSON text columns.
type Analysis struct {
	ID                  int64          `json:"id"`
	UUID                string         `json:"uuid"`
	UserID              int64          `json:"user_id"`
	OrganizationID      *int64         `json:"organization_id,omitempty"`
	RootlyIntegrationID *int64         `json:"rootly_integration_id,omitempty"`
	IntegrationName     string         `json:"integration_name,omitempty"`
	Platform            string         `json:"platform"`
	TimeRange           int            `json:"time_range"`
	Status              string         `json:"status"`
	Config              map[string]any `json:"config,omitempty"`
	Results             map[string]any `json:"results,omitempty"`
	ErrorMessage        *string        `json:"error_message,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
}

// IsDemo reports whether the record carries the demo marker in its config.
func (a *Analysis) IsDemo() bool {
	if a == nil || a.Config == nil {
		return false
	}
	v, ok := a.Config["is_demo"].(bool)
	return ok && v
}

type AnalysesStore interface {
	CreateAnalysis(ctx context.Context, a *Analysis) (int64, error)
	GetAnalysis(ctx context.Context, id int64) (*Analysis, error)
	GetAnalysisByUUID(ctx context.Context, uid string) (*Analysis, error)
	ListAnalysesByUser(ctx context.Context, userID int64) ([]Analysis, error)
	DeleteDemoAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type analysesStore struct {
	db *DB
}

func NewAnalysesStore(db *DB) AnalysesStore {
	return &analysesStore{db: db}
}

const analysisColumns = `id, uuid, user_id, organization_id, rootly_integration_id, integration_name, platform, time_range, status, config_json, results_json, error_message, created_at, completed_at`

// CreateAnalysis inserts the record inside its own transaction. The is_demo
// column is derived from the config marker so the partial unique index on
// (user_id) WHERE is_demo can reject a second demo record; that case
// surfaces as ErrConflict.
func (s *analysesStore) CreateAnalysis(ctx context.Context, a *Analysis) (int64, error) {
	if a.UUID == "" {
		a.UUID = uuid.Must(uuid.NewV4()).String()
	}
	if a.Status == "" {
		a.Status = "pending"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var id int64
	err = tx.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO analyses(uuid, user_id, organization_id, rootly_integration_id, integration_name, platform, time_range, status, is_demo, config_json, results_json, error_message, created_at, completed_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?) RETURNING id`),
		a.UUID, a.UserID, nullableID(a.OrganizationID), nullableID(a.RootlyIntegrationID),
		a.IntegrationName, a.Platform, a.TimeRange, a.Status, a.IsDemo(),
		mapToJSON(a.Config), mapToJSON(a.Results), nullableString(a.ErrorMessage),
		a.CreatedAt, nullableTime(a.CompletedAt),
	).Scan(&id)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

func (s *analysesStore) GetAnalysis(ctx context.Context, id int64) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+analysisColumns+` FROM analyses WHERE id=?`), id)
	return scanAnalysis(row)
}

func (s *analysesStore) GetAnalysisByUUID(ctx context.Context, uid string) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+analysisColumns+` FROM analyses WHERE uuid=?`), uid)
	return scanAnalysis(row)
}

func (s *analysesStore) ListAnalysesByUser(ctx context.Context, userID int64) ([]Analysis, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+analysisColumns+` FROM analyses WHERE user_id=? ORDER BY id`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysisRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *analysesStore) DeleteDemoAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM analyses WHERE is_demo=? AND created_at < ?`), true, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAnalysis(row *sql.Row) (*Analysis, error) {
	a, err := scanAnalysisRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanAnalysisRow(scan func(dest ...any) error) (*Analysis, error) {
	var a Analysis
	var orgID, integrationID sql.NullInt64
	var configJSON, resultsJSON, errMsg sql.NullString
	var completedAt sql.NullTime
	if err := scan(
		&a.ID, &a.UUID, &a.UserID, &orgID, &integrationID, &a.IntegrationName,
		&a.Platform, &a.TimeRange, &a.Status, &configJSON, &resultsJSON,
		&errMsg, &a.CreatedAt, &completedAt,
	); err != nil {
		return nil, err
	}
	if orgID.Valid {
		a.OrganizationID = &orgID.Int64
	}
	if integrationID.Valid {
		a.RootlyIntegrationID = &integrationID.Int64
	}
	if errMsg.Valid {
		a.ErrorMessage = &errMsg.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	a.Config = jsonToMap(configJSON)
	a.Results = jsonToMap(resultsJSON)
	return &a, nil
}
