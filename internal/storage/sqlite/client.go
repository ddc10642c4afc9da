package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/storage/models"
	"github.com/clinsim/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		archetype_id TEXT NOT NULL,
		region_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cases_triple ON cases(archetype_id, region_id, category_id);

	CREATE TABLE IF NOT EXISTS knowledge_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		file_name TEXT,
		content TEXT NOT NULL,
		archetype_id TEXT NOT NULL,
		region_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		uploaded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_triple ON knowledge_items(archetype_id, region_id, category_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		case_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_case ON sessions(case_id);

	CREATE TABLE IF NOT EXISTS session_results (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		case_id TEXT NOT NULL,
		total_score INTEGER,
		result_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_session ON session_results(session_id);

	CREATE TABLE IF NOT EXISTS soap_evaluations (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		case_id TEXT NOT NULL,
		input_hash TEXT NOT NULL,
		q_note_total INTEGER,
		pdqi_total INTEGER,
		result_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_soap_case ON soap_evaluations(case_id);
	CREATE INDEX IF NOT EXISTS idx_soap_hash ON soap_evaluations(input_hash);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// UpsertCase writes a case atomically keyed by id. Classification columns are
// extracted for triple lookups; the full case travels in the content blob.
func (c *Client) UpsertCase(cs *models.Case) error {
	content, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("failed to marshal case: %w", err)
	}

	query := `
		INSERT INTO cases (id, title, archetype_id, region_id, category_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			archetype_id = excluded.archetype_id,
			region_id = excluded.region_id,
			category_id = excluded.category_id,
			content = excluded.content,
			updated_at = excluded.updated_at
	`

	now := time.Now().Unix()
	_, err = c.db.Exec(query, cs.ID, cs.Title, cs.ArchetypeID, cs.RegionID, cs.CategoryID, string(content), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert case: %w", err)
	}

	logger.Debug("Case upserted", zap.String("case_id", cs.ID), zap.String("title", cs.Title))
	return nil
}

// GetCase returns (nil, nil) when the id is unknown so callers can fall
// through to the seed list.
func (c *Client) GetCase(id string) (*models.Case, error) {
	var content string
	err := c.db.QueryRow(`SELECT content FROM cases WHERE id = ?`, id).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	var cs models.Case
	if err := json.Unmarshal([]byte(content), &cs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal case %s: %w", id, err)
	}

	return &cs, nil
}

func (c *Client) CaseExists(id string) (bool, error) {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM cases WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check case: %w", err)
	}
	return true, nil
}

func (c *Client) ListCasesByTriple(archetypeID, regionID, categoryID string) ([]models.Case, error) {
	rows, err := c.db.Query(
		`SELECT content FROM cases WHERE archetype_id = ? AND region_id = ? AND category_id = ?`,
		archetypeID, regionID, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var cs models.Case
		if err := json.Unmarshal([]byte(content), &cs); err != nil {
			logger.Warn("Skipping malformed case record", zap.Error(err))
			continue
		}
		cases = append(cases, cs)
	}

	return cases, rows.Err()
}

func (c *Client) InsertKnowledgeItem(item *models.KnowledgeItem) error {
	query := `
		INSERT INTO knowledge_items (id, title, file_name, content, archetype_id, region_id, category_id, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		item.ID,
		item.Title,
		item.FileName,
		item.Content,
		item.ArchetypeID,
		item.RegionID,
		item.CategoryID,
		item.UploadedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert knowledge item: %w", err)
	}

	logger.Info("Knowledge item stored",
		zap.String("id", item.ID),
		zap.String("title", item.Title),
		zap.String("category_id", item.CategoryID),
	)
	return nil
}

// GetKnowledgeByTriple matches on classification-tuple equality only. An empty
// result is a normal state, not an error.
func (c *Client) GetKnowledgeByTriple(archetypeID, regionID, categoryID string) ([]models.KnowledgeItem, error) {
	rows, err := c.db.Query(
		`SELECT id, title, file_name, content, archetype_id, region_id, category_id, uploaded_at
		 FROM knowledge_items
		 WHERE archetype_id = ? AND region_id = ? AND category_id = ?
		 ORDER BY uploaded_at DESC`,
		archetypeID, regionID, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge items: %w", err)
	}
	defer rows.Close()

	var items []models.KnowledgeItem
	for rows.Next() {
		var item models.KnowledgeItem
		var uploadedAt int64
		err := rows.Scan(&item.ID, &item.Title, &item.FileName, &item.Content,
			&item.ArchetypeID, &item.RegionID, &item.CategoryID, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		item.UploadedAt = time.Unix(uploadedAt, 0)
		items = append(items, item)
	}

	return items, rows.Err()
}

func (c *Client) ListKnowledgeItems() ([]models.KnowledgeItem, error) {
	rows, err := c.db.Query(
		`SELECT id, title, file_name, content, archetype_id, region_id, category_id, uploaded_at
		 FROM knowledge_items ORDER BY uploaded_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge items: %w", err)
	}
	defer rows.Close()

	var items []models.KnowledgeItem
	for rows.Next() {
		var item models.KnowledgeItem
		var uploadedAt int64
		err := rows.Scan(&item.ID, &item.Title, &item.FileName, &item.Content,
			&item.ArchetypeID, &item.RegionID, &item.CategoryID, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		item.UploadedAt = time.Unix(uploadedAt, 0)
		items = append(items, item)
	}

	return items, rows.Err()
}

func (c *Client) InsertSession(rec *models.SessionRecord) error {
	_, err := c.db.Exec(
		`INSERT INTO sessions (id, case_id, created_at) VALUES (?, ?, ?)`,
		rec.ID, rec.CaseID, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (c *Client) GetSessionCaseID(sessionID string) (string, error) {
	var caseID string
	err := c.db.QueryRow(`SELECT case_id FROM sessions WHERE id = ?`, sessionID).Scan(&caseID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return caseID, nil
}

func (c *Client) InsertSessionResult(rec *models.SessionResultRecord) error {
	_, err := c.db.Exec(
		`INSERT INTO session_results (id, session_id, case_id, total_score, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.CaseID, rec.TotalScore, rec.ResultJSON, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %w", err)
	}

	logger.Info("Session result recorded",
		zap.String("session_id", rec.SessionID),
		zap.Int("total_score", rec.TotalScore),
	)
	return nil
}

func (c *Client) InsertSoapEvaluation(rec *models.SoapEvaluationRecord) error {
	_, err := c.db.Exec(
		`INSERT INTO soap_evaluations (id, session_id, case_id, input_hash, q_note_total, pdqi_total, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.CaseID, rec.InputHash, rec.QNoteTotal, rec.PdqiTotal, rec.ResultJSON, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert soap evaluation: %w", err)
	}

	logger.Info("SOAP evaluation recorded",
		zap.String("case_id", rec.CaseID),
		zap.Int("q_note_total", rec.QNoteTotal),
		zap.Int("pdqi_total", rec.PdqiTotal),
	)
	return nil
}
