package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Config holds SQLite settings
type Config struct {
	// Path is the database file, or ":memory:"
	Path string
}

// DefaultConfig returns the default database location
func DefaultConfig() Config {
	return Config{Path: "data/wordduel.db"}
}

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database and applies pending migrations
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	db, err := openDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}
	if err := migrate(ctx, db, logger.With(slog.String("component", "sqlite"))); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO players (id, display_name, is_guest, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET display_name=excluded.display_name, is_guest=excluded.is_guest`,
		string(player.ID), player.DisplayName, player.IsGuest, player.CreatedAt.UTC(),
	)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var p model.Player
	var pid string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, is_guest, created_at FROM players WHERE id=?`, string(id),
	).Scan(&pid, &p.DisplayName, &p.IsGuest, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(pid)
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id=?`, string(id))
	return err
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, acct *model.Account) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO accounts (player_id, username, password_hash, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET password_hash=excluded.password_hash`,
		string(acct.PlayerID), acct.Username, acct.PasswordHash, acct.CreatedAt.UTC(),
	)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	return s.queryAccount(ctx, `WHERE player_id=?`, string(playerID))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.queryAccount(ctx, `WHERE username=?`, username)
}

func (s *Storage) queryAccount(ctx context.Context, where string, arg any) (*model.Account, error) {
	var acct model.Account
	var pid string
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, username, password_hash, created_at FROM accounts `+where, arg,
	).Scan(&pid, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	acct.PlayerID = model.PlayerID(pid)
	return &acct, nil
}

// Match record operations

const recordColumns = `id, user_id, opponent_id, start_letter, end_letter, score, words, mode, outcome, played_at`

func (s *Storage) SaveMatchRecords(ctx context.Context, records ...*model.MatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range records {
		words, err := json.Marshal(lo.Ternary(r.Words == nil, []string{}, r.Words))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		_, err = tx.ExecContext(ctx, `
            INSERT OR REPLACE INTO match_records (`+recordColumns+`, date)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(r.ID), string(r.UserID), string(r.OpponentID),
			string(r.Letters.Start), string(r.Letters.End),
			r.Score, string(words), string(r.Mode), string(r.Outcome),
			r.PlayedAt.UnixNano(), r.Date(),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) GetMatchRecord(ctx context.Context, id model.RecordID) (*model.MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM match_records WHERE id=?`, string(id))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrMatchNotFound
	}
	return rec, err
}

func (s *Storage) ListMatchRecords(ctx context.Context, userID model.PlayerID) ([]*model.MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM match_records WHERE user_id=? ORDER BY played_at DESC, rowid DESC`,
		string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.MatchRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	var id, user, opponent, start, end, mode, outcome, words string
	var playedAt int64
	if err := row.Scan(&id, &user, &opponent, &start, &end, &rec.Score, &words, &mode, &outcome, &playedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(words), &rec.Words); err != nil {
		return nil, fmt.Errorf("decode words of %s: %w", id, err)
	}
	rec.ID = model.RecordID(id)
	rec.UserID = model.PlayerID(user)
	rec.OpponentID = model.PlayerID(opponent)
	rec.Letters = model.LetterPair{Start: firstRune(start), End: firstRune(end)}
	rec.Mode = model.GameMode(mode)
	rec.Outcome = model.Outcome(outcome)
	rec.PlayedAt = time.Unix(0, playedAt).UTC()
	return &rec, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	var loaded int
	err := s.db.QueryRowContext(ctx, `SELECT loaded FROM dictionary_meta WHERE id=1`).Scan(&loaded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrDictionaryNotLoaded
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word FROM dictionary_words ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dictionary_words`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dictionary_words (word) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			return fmt.Errorf("insert word %q: %w", w, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO dictionary_meta (id, loaded) VALUES (1, 1)`); err != nil {
		return err
	}
	return tx.Commit()
}
