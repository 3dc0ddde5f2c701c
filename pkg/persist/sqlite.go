package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/geocat/catalog-extractor/models"
	_ "modernc.org/sqlite"
)

const DefaultDBName = "catalog-extractor.db"

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    run_timestamp TEXT NOT NULL,
    source_identifier TEXT NOT NULL,
    total_datasets INTEGER NOT NULL,
    extractor_version TEXT NOT NULL,
    page_title TEXT,
    page_excerpt TEXT,
    site_name TEXT,
    zero_yield INTEGER NOT NULL DEFAULT 0,
    partial INTEGER NOT NULL DEFAULT 0,

    -- Statistics kept as a JSON document: round-trip fidelity without a
    -- table per counter.
    statistics_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS datasets (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    dataset_id TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT,
    description TEXT,
    tags_json TEXT,
    provider TEXT,
    resolution TEXT,
    temporal_start TEXT,
    temporal_end TEXT,
    spatial_coverage TEXT,
    bands_json TEXT,
    thumbnail_url TEXT,
    thumbnail_path TEXT,
    code_snippet TEXT,
    language TEXT,
    confidence_score REAL NOT NULL,
    data_completeness REAL NOT NULL,
    category TEXT NOT NULL,
    PRIMARY KEY (run_id, dataset_id),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_datasets_category ON datasets(category);

CREATE TABLE IF NOT EXISTS classifications (
    run_id TEXT NOT NULL,
    category TEXT NOT NULL,
    position INTEGER NOT NULL,
    dataset_id TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_classifications_run ON classifications(run_id, category);
`

// Store is the SQLite persistence backend: the run document plus a run
// history the CLI lists.
type Store struct {
	*sql.DB
	path string
}

// Open opens or creates the store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db, path: path}
	if err := s.InitSchema(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// InitSchema creates the tables when they do not exist yet.
func (s *Store) InitSchema() error {
	_, err := s.Exec(schema)
	return err
}

// Save implements Writer: the whole run lands in one transaction, so the
// history never holds a half-written run.
func (s *Store) Save(run *models.ExtractionRun) (string, error) {
	if err := s.saveRun(run); err != nil {
		return "", &models.PersistenceError{Location: s.path, Err: err}
	}
	return s.path, nil
}

func (s *Store) saveRun(run *models.ExtractionRun) error {
	statsJSON, err := json.Marshal(run.Statistics)
	if err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	info := run.Info
	if _, err := tx.Exec(`
		INSERT INTO runs (run_id, run_timestamp, source_identifier, total_datasets,
			extractor_version, page_title, page_excerpt, site_name, zero_yield, partial, statistics_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.RunID, info.Timestamp, info.SourceIdentifier, info.TotalDatasets,
		info.ExtractorVersion, info.PageTitle, info.PageExcerpt, info.SiteName,
		boolInt(info.ZeroYield), boolInt(info.Partial), string(statsJSON),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i := range run.Datasets {
		if err := insertDataset(tx, info.RunID, i, &run.Datasets[i]); err != nil {
			return err
		}
	}

	for category, ids := range run.Classifications {
		for pos, id := range ids {
			if _, err := tx.Exec(`
				INSERT INTO classifications (run_id, category, position, dataset_id)
				VALUES (?, ?, ?, ?)`,
				info.RunID, category, pos, id,
			); err != nil {
				return fmt.Errorf("inserting classification: %w", err)
			}
		}
	}

	return tx.Commit()
}

func insertDataset(tx *sql.Tx, runID string, position int, rec *models.DatasetRecord) error {
	tags, err := encodeList(rec.Tags)
	if err != nil {
		return err
	}
	bands, err := encodeList(rec.Bands)
	if err != nil {
		return err
	}

	var start, end sql.NullString
	if tc := rec.TemporalCoverage; tc != nil {
		start = sql.NullString{String: tc.Start, Valid: true}
		end = sql.NullString{String: tc.End, Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO datasets (run_id, position, dataset_id, title, url, description,
			tags_json, provider, resolution, temporal_start, temporal_end,
			spatial_coverage, bands_json, thumbnail_url, thumbnail_path,
			code_snippet, language, confidence_score, data_completeness, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, position, rec.DatasetID, rec.Title, rec.URL, rec.Description,
		tags, rec.Provider, rec.Resolution, start, end,
		rec.SpatialCoverage, bands, rec.ThumbnailURL, rec.ThumbnailPath,
		rec.CodeSnippet, rec.Language, rec.ConfidenceScore, rec.DataCompleteness, rec.Category,
	)
	if err != nil {
		return fmt.Errorf("inserting dataset %s: %w", rec.DatasetID, err)
	}
	return nil
}

// LoadRun reconstructs a persisted run, field for field.
func (s *Store) LoadRun(runID string) (*models.ExtractionRun, error) {
	run := &models.ExtractionRun{
		Classifications: make(map[string][]string),
	}

	var statsJSON string
	var zeroYield, partial int
	err := s.QueryRow(`
		SELECT run_id, run_timestamp, source_identifier, total_datasets,
			extractor_version, page_title, page_excerpt, site_name, zero_yield, partial, statistics_json
		FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.Info.RunID, &run.Info.Timestamp, &run.Info.SourceIdentifier,
		&run.Info.TotalDatasets, &run.Info.ExtractorVersion, &run.Info.PageTitle,
		&run.Info.PageExcerpt, &run.Info.SiteName, &zeroYield, &partial, &statsJSON)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	run.Info.ZeroYield = zeroYield != 0
	run.Info.Partial = partial != 0
	if err := json.Unmarshal([]byte(statsJSON), &run.Statistics); err != nil {
		return nil, fmt.Errorf("decoding statistics: %w", err)
	}

	if err := s.loadDatasets(run); err != nil {
		return nil, err
	}
	if err := s.loadClassifications(run); err != nil {
		return nil, err
	}
	if len(run.Classifications) == 0 {
		run.Classifications = map[string][]string{}
	}
	return run, nil
}

func (s *Store) loadDatasets(run *models.ExtractionRun) error {
	rows, err := s.Query(`
		SELECT dataset_id, title, url, description, tags_json, provider,
			resolution, temporal_start, temporal_end, spatial_coverage,
			bands_json, thumbnail_url, thumbnail_path, code_snippet, language,
			confidence_score, data_completeness, category
		FROM datasets WHERE run_id = ? ORDER BY position`, run.Info.RunID)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}
	defer rows.Close()

	run.Datasets = []models.DatasetRecord{}
	for rows.Next() {
		var rec models.DatasetRecord
		var tags, bands string
		var start, end sql.NullString
		if err := rows.Scan(&rec.DatasetID, &rec.Title, &rec.URL, &rec.Description,
			&tags, &rec.Provider, &rec.Resolution, &start, &end,
			&rec.SpatialCoverage, &bands, &rec.ThumbnailURL, &rec.ThumbnailPath,
			&rec.CodeSnippet, &rec.Language, &rec.ConfidenceScore,
			&rec.DataCompleteness, &rec.Category); err != nil {
			return fmt.Errorf("scanning dataset: %w", err)
		}
		if rec.Tags, err = decodeList(tags); err != nil {
			return err
		}
		if rec.Bands, err = decodeList(bands); err != nil {
			return err
		}
		if start.Valid {
			rec.TemporalCoverage = &models.TemporalCoverage{Start: start.String, End: end.String}
		}
		run.Datasets = append(run.Datasets, rec)
	}
	return rows.Err()
}

func (s *Store) loadClassifications(run *models.ExtractionRun) error {
	rows, err := s.Query(`
		SELECT category, dataset_id FROM classifications
		WHERE run_id = ? ORDER BY category, position`, run.Info.RunID)
	if err != nil {
		return fmt.Errorf("loading classifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, id string
		if err := rows.Scan(&category, &id); err != nil {
			return fmt.Errorf("scanning classification: %w", err)
		}
		run.Classifications[category] = append(run.Classifications[category], id)
	}
	return rows.Err()
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID         string
	Timestamp     string
	Source        string
	TotalDatasets int
	ZeroYield     bool
	Partial       bool
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(`
		SELECT run_id, run_timestamp, source_identifier, total_datasets, zero_yield, partial
		FROM runs ORDER BY run_timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var zeroYield, partial int
		if err := rows.Scan(&r.RunID, &r.Timestamp, &r.Source, &r.TotalDatasets, &zeroYield, &partial); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.ZeroYield = zeroYield != 0
		r.Partial = partial != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return items, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
