package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/shared"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the row exists but belongs to another visitor.
	ErrForbidden = errors.New("not the owner")
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS visitors (
		visitor_id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL DEFAULT '',
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quiz_snapshots (
		slot_key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON quiz_snapshots(updated_at);

	CREATE TABLE IF NOT EXISTS test_results (
		result_id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL DEFAULT '',
		user_ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		mbti_type TEXT NOT NULL,
		mbti_description TEXT NOT NULL DEFAULT '',
		mbti_color TEXT NOT NULL DEFAULT '',
		category_scores TEXT NOT NULL DEFAULT '',
		answer_data TEXT NOT NULL DEFAULT '',
		ai_analysis TEXT NOT NULL DEFAULT '',
		test_duration INTEGER NOT NULL DEFAULT 0,
		view_count INTEGER NOT NULL DEFAULT 0,
		shared_count INTEGER NOT NULL DEFAULT 0,
		is_public INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_created ON test_results(created_at);
	CREATE INDEX IF NOT EXISTS idx_results_mbti ON test_results(mbti_type);

	CREATE TABLE IF NOT EXISTS comments (
		comment_id INTEGER PRIMARY KEY AUTOINCREMENT,
		result_id TEXT NOT NULL DEFAULT '',
		mbti_type TEXT NOT NULL DEFAULT '',
		nickname TEXT NOT NULL,
		body TEXT NOT NULL,
		visitor_id TEXT NOT NULL DEFAULT '',
		user_ip TEXT NOT NULL DEFAULT '',
		like_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_result ON comments(result_id);
	CREATE INDEX IF NOT EXISTS idx_comments_mbti ON comments(mbti_type);

	CREATE TABLE IF NOT EXISTS view_logs (
		view_id INTEGER PRIMARY KEY AUTOINCREMENT,
		page TEXT NOT NULL,
		mbti_type TEXT NOT NULL DEFAULT '',
		visitor_id TEXT NOT NULL DEFAULT '',
		user_ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		referer TEXT NOT NULL DEFAULT '',
		viewed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_views_time ON view_logs(viewed_at);

	CREATE TABLE IF NOT EXISTS share_logs (
		share_id INTEGER PRIMARY KEY AUTOINCREMENT,
		result_id TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL,
		visitor_id TEXT NOT NULL DEFAULT '',
		shared_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shares_time ON share_logs(shared_at);

	CREATE TABLE IF NOT EXISTS daily_stats (
		day TEXT PRIMARY KEY,
		test_count INTEGER NOT NULL DEFAULT 0,
		view_count INTEGER NOT NULL DEFAULT 0,
		share_count INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetVisitor retrieves a visitor by their visitor ID.
func (s *SQLiteStore) GetVisitor(ctx context.Context, visitorID string) (*domain.Visitor, error) {
	query := `
		SELECT visitor_id, nickname, last_seen_at, created_at, updated_at
		FROM visitors WHERE visitor_id = ?`

	row := s.db.QueryRowContext(ctx, query, visitorID)

	var v domain.Visitor
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&v.VisitorID, &v.Nickname, &lastSeen, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan visitor row: %w", err)
	}

	v.LastSeenAt = time.Unix(lastSeen, 0)
	v.CreatedAt = time.Unix(createdAt, 0)
	v.UpdatedAt = time.Unix(updatedAt, 0)
	return &v, nil
}

// UpsertVisitor creates or updates a visitor record.
func (s *SQLiteStore) UpsertVisitor(ctx context.Context, visitor *domain.Visitor) error {
	query := `
	INSERT INTO visitors (visitor_id, nickname, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(visitor_id) DO UPDATE SET
		nickname = excluded.nickname,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		visitor.VisitorID, visitor.Nickname,
		visitor.LastSeenAt.Unix(), visitor.CreatedAt.Unix(), visitor.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert visitor: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, visitorID string, lastSeen time.Time) error {
	query := `UPDATE visitors SET last_seen_at = ?, updated_at = ? WHERE visitor_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), visitorID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "visitor_id", visitorID)
	}

	return nil
}

// SaveSnapshot stores the serialized quiz snapshot for a session slot.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, key string, data []byte) error {
	query := `
	INSERT INTO quiz_snapshots (slot_key, data, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(slot_key) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at`

	err := s.withBusyRetry(ctx, "SaveSnapshot", func() error {
		_, err := s.db.ExecContext(ctx, query, key, data, time.Now().UnixMilli())
		return err
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot bytes, or nil when absent.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM quiz_snapshots WHERE slot_key = ?`, key)
	var data []byte
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}
	return data, nil
}

// ClearSnapshot deletes the stored snapshot for a session slot.
func (s *SQLiteStore) ClearSnapshot(ctx context.Context, key string) error {
	err := s.withBusyRetry(ctx, "ClearSnapshot", func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM quiz_snapshots WHERE slot_key = ?`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// DeleteExpiredSnapshots removes snapshots older than the TTL. updated_at
// is epoch millis, matching the snapshot payload's own timestamps.
func (s *SQLiteStore) DeleteExpiredSnapshots(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).UnixMilli()
	result, err := s.db.ExecContext(ctx, `DELETE FROM quiz_snapshots WHERE updated_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("delete expired snapshots: %w", err)
	}
	return result.RowsAffected()
}

// SaveResult persists a completed test result.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *domain.TestResult) error {
	query := `
	INSERT INTO test_results (
		result_id, visitor_id, user_ip, user_agent,
		mbti_type, mbti_description, mbti_color,
		category_scores, answer_data, ai_analysis,
		test_duration, view_count, shared_count, is_public,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		result.ResultID, result.VisitorID, result.UserIP, result.UserAgent,
		result.MBTIType, result.MBTIDescription, result.MBTIColor,
		result.CategoryScores, result.AnswerData, result.AIAnalysis,
		result.TestDuration, result.ViewCount, result.SharedCount, boolToInt(result.Public),
		result.CreatedAt.Unix(), result.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

const resultColumns = `result_id, visitor_id, user_ip, user_agent,
	mbti_type, mbti_description, mbti_color,
	category_scores, answer_data, ai_analysis,
	test_duration, view_count, shared_count, is_public,
	created_at, updated_at`

func scanResult(row interface{ Scan(...any) error }) (*domain.TestResult, error) {
	var r domain.TestResult
	var public int
	var createdAt, updatedAt int64

	err := row.Scan(
		&r.ResultID, &r.VisitorID, &r.UserIP, &r.UserAgent,
		&r.MBTIType, &r.MBTIDescription, &r.MBTIColor,
		&r.CategoryScores, &r.AnswerData, &r.AIAnalysis,
		&r.TestDuration, &r.ViewCount, &r.SharedCount, &public,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Public = public != 0
	r.CreatedAt = time.Unix(createdAt, 0)
	r.UpdatedAt = time.Unix(updatedAt, 0)
	return &r, nil
}

// GetResult retrieves a result by its public ID.
func (s *SQLiteStore) GetResult(ctx context.Context, resultID string) (*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE result_id = ?`
	result, err := scanResult(s.db.QueryRowContext(ctx, query, resultID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan result row: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) queryResults(ctx context.Context, query string, args ...any) ([]*domain.TestResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close result rows", "error", closeErr)
		}
	}()

	var results []*domain.TestResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// RecentResults returns the newest public results.
func (s *SQLiteStore) RecentResults(ctx context.Context, limit int) ([]*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM test_results WHERE is_public = 1
		ORDER BY created_at DESC LIMIT ?`
	return s.queryResults(ctx, query, limit)
}

// ResultsByMBTI returns the newest public results of one MBTI type.
func (s *SQLiteStore) ResultsByMBTI(ctx context.Context, mbtiType string, limit int) ([]*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM test_results WHERE is_public = 1 AND mbti_type = ?
		ORDER BY created_at DESC LIMIT ?`
	return s.queryResults(ctx, query, mbtiType, limit)
}

// MostCommentedResults returns public results ordered by comment count.
func (s *SQLiteStore) MostCommentedResults(ctx context.Context, limit int) ([]*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM test_results
		WHERE is_public = 1
		ORDER BY (SELECT COUNT(*) FROM comments WHERE comments.result_id = test_results.result_id) DESC,
			created_at DESC
		LIMIT ?`
	return s.queryResults(ctx, query, limit)
}

// MostSharedResults returns public results ordered by share counter.
func (s *SQLiteStore) MostSharedResults(ctx context.Context, limit int) ([]*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM test_results WHERE is_public = 1
		ORDER BY shared_count DESC, created_at DESC LIMIT ?`
	return s.queryResults(ctx, query, limit)
}

// IncrementViewCount bumps a result's view counter.
func (s *SQLiteStore) IncrementViewCount(ctx context.Context, resultID string) (int, error) {
	return s.bumpResultCounter(ctx, "IncrementViewCount", "view_count", resultID)
}

// IncrementSharedCount bumps a result's share counter.
func (s *SQLiteStore) IncrementSharedCount(ctx context.Context, resultID string) (int, error) {
	return s.bumpResultCounter(ctx, "IncrementSharedCount", "shared_count", resultID)
}

func (s *SQLiteStore) bumpResultCounter(ctx context.Context, op, column, resultID string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE test_results SET %s = %s + 1, updated_at = ?
		WHERE result_id = ?
		RETURNING %s`, column, column, column)

	var count int
	err := s.withBusyRetry(ctx, op, func() error {
		return s.db.QueryRowContext(ctx, query, time.Now().Unix(), resultID).Scan(&count)
	})
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SetResultVisibility toggles a result's public flag for its owner.
func (s *SQLiteStore) SetResultVisibility(ctx context.Context, resultID, visitorID string, public bool) error {
	query := `
		UPDATE test_results SET is_public = ?, updated_at = ?
		WHERE result_id = ? AND visitor_id = ?`
	result, err := s.db.ExecContext(ctx, query, boolToInt(public), time.Now().Unix(), resultID, visitorID)
	if err != nil {
		return fmt.Errorf("set result visibility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		existing, err := s.GetResult(ctx, resultID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrForbidden
	}
	return nil
}

// CountResults returns the total number of stored results.
func (s *SQLiteStore) CountResults(ctx context.Context) (int64, error) {
	return s.countRows(ctx, `SELECT COUNT(*) FROM test_results`)
}

// MBTIDistribution returns result counts grouped by MBTI type.
func (s *SQLiteStore) MBTIDistribution(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mbti_type, COUNT(*) FROM test_results GROUP BY mbti_type`)
	if err != nil {
		return nil, fmt.Errorf("query mbti distribution: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close distribution rows", "error", closeErr)
		}
	}()

	dist := make(map[string]int64)
	for rows.Next() {
		var mbtiType string
		var count int64
		if err := rows.Scan(&mbtiType, &count); err != nil {
			return nil, fmt.Errorf("scan distribution row: %w", err)
		}
		dist[mbtiType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution: %w", err)
	}
	return dist, nil
}

// AddComment persists a comment and returns its assigned ID.
func (s *SQLiteStore) AddComment(ctx context.Context, comment *domain.Comment) (int64, error) {
	query := `
	INSERT INTO comments (result_id, mbti_type, nickname, body, visitor_id, user_ip, like_count, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		comment.ResultID, comment.MBTIType, comment.Nickname, comment.Body,
		comment.VisitorID, comment.UserIP, comment.LikeCount,
		comment.CreatedAt.Unix(), comment.UpdatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("add comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get comment id: %w", err)
	}
	return id, nil
}

const commentColumns = `comment_id, result_id, mbti_type, nickname, body, visitor_id, user_ip, like_count, created_at, updated_at`

func (s *SQLiteStore) queryComments(ctx context.Context, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close comment rows", "error", closeErr)
		}
	}()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&c.CommentID, &c.ResultID, &c.MBTIType, &c.Nickname, &c.Body,
			&c.VisitorID, &c.UserIP, &c.LikeCount, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		c.UpdatedAt = time.Unix(updatedAt, 0)
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// CommentsByResult returns a result's comments, newest first.
func (s *SQLiteStore) CommentsByResult(ctx context.Context, resultID string, limit, offset int) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments WHERE result_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return s.queryComments(ctx, query, resultID, limit, offset)
}

// CommentsByMBTI returns the newest comments for one MBTI type.
func (s *SQLiteStore) CommentsByMBTI(ctx context.Context, mbtiType string, limit int) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments WHERE mbti_type = ?
		ORDER BY created_at DESC LIMIT ?`
	return s.queryComments(ctx, query, mbtiType, limit)
}

// RecentComments returns the newest comments across all results.
func (s *SQLiteStore) RecentComments(ctx context.Context, limit int) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments ORDER BY created_at DESC LIMIT ?`
	return s.queryComments(ctx, query, limit)
}

// PopularComments returns comments ordered by like counter.
func (s *SQLiteStore) PopularComments(ctx context.Context, limit int) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments ORDER BY like_count DESC, created_at DESC LIMIT ?`
	return s.queryComments(ctx, query, limit)
}

// LikeComment bumps a comment's like counter.
func (s *SQLiteStore) LikeComment(ctx context.Context, commentID int64) (int, error) {
	query := `
		UPDATE comments SET like_count = like_count + 1, updated_at = ?
		WHERE comment_id = ?
		RETURNING like_count`

	var count int
	err := s.withBusyRetry(ctx, "LikeComment", func() error {
		return s.db.QueryRowContext(ctx, query, time.Now().Unix(), commentID).Scan(&count)
	})
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("like comment: %w", err)
	}
	return count, nil
}

// UpdateComment replaces the body of a comment authored by the given visitor.
func (s *SQLiteStore) UpdateComment(ctx context.Context, commentID int64, visitorID, body string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET body = ?, updated_at = ?
		WHERE comment_id = ? AND visitor_id = ?`,
		body, time.Now().Unix(), commentID, visitorID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM comments WHERE comment_id = ?`, commentID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check comment owner: %w", err)
		}
		return ErrForbidden
	}
	return nil
}

// DeleteComment removes a comment authored by the given visitor.
func (s *SQLiteStore) DeleteComment(ctx context.Context, commentID int64, visitorID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE comment_id = ? AND visitor_id = ?`, commentID, visitorID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM comments WHERE comment_id = ?`, commentID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check comment owner: %w", err)
		}
		return ErrForbidden
	}
	return nil
}

// CountComments returns the total number of comments.
func (s *SQLiteStore) CountComments(ctx context.Context) (int64, error) {
	return s.countRows(ctx, `SELECT COUNT(*) FROM comments`)
}

// CommentCountsByMBTI returns comment counts grouped by MBTI type.
func (s *SQLiteStore) CommentCountsByMBTI(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mbti_type, COUNT(*) FROM comments
		WHERE mbti_type != '' GROUP BY mbti_type`)
	if err != nil {
		return nil, fmt.Errorf("query comment counts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close comment count rows", "error", closeErr)
		}
	}()

	counts := make(map[string]int64)
	for rows.Next() {
		var mbtiType string
		var count int64
		if err := rows.Scan(&mbtiType, &count); err != nil {
			return nil, fmt.Errorf("scan comment count row: %w", err)
		}
		counts[mbtiType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment counts: %w", err)
	}
	return counts, nil
}

// LogView records one page view.
func (s *SQLiteStore) LogView(ctx context.Context, view *domain.ViewLog) error {
	query := `
	INSERT INTO view_logs (page, mbti_type, visitor_id, user_ip, user_agent, referer, viewed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		view.Page, view.MBTIType, view.VisitorID,
		view.UserIP, view.UserAgent, view.Referer, view.ViewedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("log view: %w", err)
	}
	return nil
}

// LogShare records one share action.
func (s *SQLiteStore) LogShare(ctx context.Context, share *domain.ShareLog) error {
	query := `
	INSERT INTO share_logs (result_id, platform, visitor_id, shared_at)
	VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		share.ResultID, share.Platform, share.VisitorID, share.SharedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("log share: %w", err)
	}
	return nil
}

// CountShares returns the total number of share actions.
func (s *SQLiteStore) CountShares(ctx context.Context) (int64, error) {
	return s.countRows(ctx, `SELECT COUNT(*) FROM share_logs`)
}

// DailyCounts aggregates the raw logs for one day.
func (s *SQLiteStore) DailyCounts(ctx context.Context, day string) (*domain.DailyStat, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM test_results WHERE date(created_at, 'unixepoch') = ?),
			(SELECT COUNT(*) FROM view_logs WHERE date(viewed_at, 'unixepoch') = ?),
			(SELECT COUNT(*) FROM share_logs WHERE date(shared_at, 'unixepoch') = ?)`

	stat := domain.DailyStat{Day: day}
	err := s.db.QueryRowContext(ctx, query, day, day, day).
		Scan(&stat.TestCount, &stat.ViewCount, &stat.ShareCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate daily counts: %w", err)
	}
	return &stat, nil
}

// UpsertDailyStat writes one day's rollup row.
func (s *SQLiteStore) UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error {
	query := `
	INSERT INTO daily_stats (day, test_count, view_count, share_count)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(day) DO UPDATE SET
		test_count = excluded.test_count,
		view_count = excluded.view_count,
		share_count = excluded.share_count`

	_, err := s.db.ExecContext(ctx, query, stat.Day, stat.TestCount, stat.ViewCount, stat.ShareCount)
	if err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}
	return nil
}

// DailyStats returns the most recent rollup rows, newest first.
func (s *SQLiteStore) DailyStats(ctx context.Context, days int) ([]*domain.DailyStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, test_count, view_count, share_count
		FROM daily_stats ORDER BY day DESC LIMIT ?`, days)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close daily stat rows", "error", closeErr)
		}
	}()

	var stats []*domain.DailyStat
	for rows.Next() {
		var stat domain.DailyStat
		if err := rows.Scan(&stat.Day, &stat.TestCount, &stat.ViewCount, &stat.ShareCount); err != nil {
			return nil, fmt.Errorf("scan daily stat row: %w", err)
		}
		stats = append(stats, &stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return stats, nil
}

// HourlyStats returns per-hour test and view counts for one day.
func (s *SQLiteStore) HourlyStats(ctx context.Context, day string) ([]*domain.HourlyStat, error) {
	query := `
		SELECT hour, SUM(tests), SUM(views) FROM (
			SELECT CAST(strftime('%H', created_at, 'unixepoch') AS INTEGER) AS hour, 1 AS tests, 0 AS views
			FROM test_results WHERE date(created_at, 'unixepoch') = ?
			UNION ALL
			SELECT CAST(strftime('%H', viewed_at, 'unixepoch') AS INTEGER) AS hour, 0 AS tests, 1 AS views
			FROM view_logs WHERE date(viewed_at, 'unixepoch') = ?
		) GROUP BY hour ORDER BY hour`

	rows, err := s.db.QueryContext(ctx, query, day, day)
	if err != nil {
		return nil, fmt.Errorf("query hourly stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close hourly stat rows", "error", closeErr)
		}
	}()

	var stats []*domain.HourlyStat
	for rows.Next() {
		var stat domain.HourlyStat
		if err := rows.Scan(&stat.Hour, &stat.TestCount, &stat.ViewCount); err != nil {
			return nil, fmt.Errorf("scan hourly stat row: %w", err)
		}
		stats = append(stats, &stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly stats: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) countRows(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// withBusyRetry runs fn with exponential backoff on SQLITE_BUSY errors.
func (s *SQLiteStore) withBusyRetry(ctx context.Context, op string, fn func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil || !shared.IsSQLiteConflictError(err) {
			return err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i) // 100ms, 200ms, 400ms
			slog.Debug("sqlite busy, retrying", "op", op, "attempt", i+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
