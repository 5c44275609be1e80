// Package sqlite provides the SQLite-backed card catalog and round history.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"a2a/internal/domain"
	"a2a/internal/ports"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store persists cards and played rounds in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var (
	_ ports.CardCatalog   = (*Store)(nil)
	_ ports.RoundRecorder = (*Store)(nil)
	_ ports.HistoryReader = (*Store)(nil)
)

var errNotConfigured = errors.New("storage is not configured")

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	return nil
}

// LoadCatalog returns every stored card.
func (s *Store) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Catalog{}, err
	}
	adjectives, err := s.cards(ctx, "SELECT id FROM adjective_cards ORDER BY id")
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load adjectives: %w", err)
	}
	nouns, err := s.cards(ctx, "SELECT id FROM noun_cards ORDER BY id")
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load nouns: %w", err)
	}
	return domain.Catalog{Adjectives: adjectives, Nouns: nouns}, nil
}

func (s *Store) cards(ctx context.Context, query string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AddAdjectives stores new adjective cards and returns how many were not already present.
func (s *Store) AddAdjectives(ctx context.Context, cards []string) (int, error) {
	return s.addCards(ctx, "INSERT OR IGNORE INTO adjective_cards (id) VALUES (?)", cards)
}

// AddNouns stores new noun cards and returns how many were not already present.
func (s *Store) AddNouns(ctx context.Context, cards []string) (int, error) {
	return s.addCards(ctx, "INSERT OR IGNORE INTO noun_cards (id) VALUES (?)", cards)
}

func (s *Store) addCards(ctx context.Context, stmt string, cards []string) (added int, err error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, card := range domain.DistinctCards(cards) {
		res, err := tx.ExecContext(ctx, stmt, card)
		if err != nil {
			return 0, fmt.Errorf("insert card %q: %w", card, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Counts returns the number of stored adjective and noun cards.
func (s *Store) Counts(ctx context.Context) (adjectives, nouns int, err error) {
	if err := s.ready(ctx); err != nil {
		return 0, 0, err
	}
	err = s.sqlDB.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM adjective_cards), (SELECT COUNT(*) FROM noun_cards)",
	).Scan(&adjectives, &nouns)
	if err != nil {
		return 0, 0, fmt.Errorf("count cards: %w", err)
	}
	return adjectives, nouns, nil
}

// RecordRound stores a judged round with everyone who took part in it.
func (s *Store) RecordRound(ctx context.Context, round ports.PlayedRound) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if round.MatchID == "" || round.Winner == "" || round.Judge == "" {
		return fmt.Errorf("match id, judge and winner are required")
	}
	playedAt := round.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO played_rounds (id, match_id, round, adjective, judge, winner, winning_noun, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, round.MatchID, round.Round, round.Adjective, round.Judge, round.Winner, round.WinningNoun, toMillis(playedAt),
	)
	if err != nil {
		return fmt.Errorf("insert played round: %w", err)
	}

	for _, nick := range participants(round) {
		var noun sql.NullString
		if n, ok := round.PlayedNouns[nick]; ok {
			noun = sql.NullString{String: n, Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO round_players (round_id, nick, noun) VALUES (?, ?, ?)", id, nick, noun,
		); err != nil {
			return fmt.Errorf("insert round player %q: %w", nick, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// participants is the roster plus anyone who judged, played or won, without duplicates.
func participants(round ports.PlayedRound) []string {
	all := slices.Clone(round.Players)
	all = append(all, round.Judge, round.Winner)
	for nick := range round.PlayedNouns {
		all = append(all, nick)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// PlayerHistory aggregates recorded rounds per player, most wins first.
func (s *Store) PlayerHistory(ctx context.Context, limit int) ([]ports.PlayerHistory, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT rp.nick,
		        COUNT(*),
		        SUM(CASE WHEN pr.judge = rp.nick THEN 1 ELSE 0 END),
		        SUM(CASE WHEN pr.winner = rp.nick THEN 1 ELSE 0 END)
		   FROM round_players rp
		   JOIN played_rounds pr ON pr.id = rp.round_id
		  GROUP BY rp.nick
		  ORDER BY 4 DESC, rp.nick ASC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query player history: %w", err)
	}
	defer rows.Close()

	var out []ports.PlayerHistory
	for rows.Next() {
		var h ports.PlayerHistory
		if err := rows.Scan(&h.Nick, &h.RoundsPlayed, &h.RoundsJudged, &h.RoundsWon); err != nil {
			return nil, fmt.Errorf("scan player history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
