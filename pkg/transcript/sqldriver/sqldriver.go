// Package sqldriver implements transcript.Driver over database/sql. The
// statements come from ent's dialect-aware SQL builder, so the same driver
// serves SQLite and PostgreSQL.
package sqldriver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/papercomputeco/sdr/pkg/transcript"
)

const (
	table        = "turns"
	sessionIndex = "turns_session_id_created_at"
)

var columns = []string{
	"id",
	"session_id",
	"kind",
	"prompt",
	"reply",
	"tools",
	"error",
	"created_at",
	"duration_ms",
}

// Driver implements transcript.Driver on a *sql.DB.
type Driver struct {
	DB      *sql.DB
	dialect string
}

// New wraps db and creates the schema if it does not exist yet.
// dialect is one of ent's dialect names ("sqlite3", "postgres").
func New(ctx context.Context, db *sql.DB, dialect string) (*Driver, error) {
	d := &Driver{DB: db, dialect: dialect}
	if err := d.migrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) builder() *entsql.DialectBuilder {
	return entsql.Dialect(d.dialect)
}

// migrate only ever adds tables and indexes.
func (d *Driver) migrate(ctx context.Context) error {
	b := d.builder()

	create, args := b.CreateTable(table).
		IfNotExists().
		Columns(
			entsql.Column("id").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("session_id").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("kind").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("prompt").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("reply").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("tools").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("error").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("created_at").Type("BIGINT").Attr("NOT NULL"),
			entsql.Column("duration_ms").Type("BIGINT").Attr("NOT NULL"),
		).
		PrimaryKey("id").
		Query()
	if _, err := d.DB.ExecContext(ctx, create, args...); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	index, args := b.CreateIndex(sessionIndex).
		IfNotExists().
		Table(table).
		Columns("session_id", "created_at").
		Query()
	if _, err := d.DB.ExecContext(ctx, index, args...); err != nil {
		return fmt.Errorf("failed to create %s index: %w", sessionIndex, err)
	}

	return nil
}

func (d *Driver) Put(ctx context.Context, turn *transcript.Turn) error {
	if turn == nil {
		return errors.New("cannot store nil turn")
	}

	tools, err := json.Marshal(turn.Tools)
	if err != nil {
		return fmt.Errorf("failed to encode tools: %w", err)
	}

	query, args := d.builder().Insert(table).
		Columns(columns...).
		Values(
			turn.ID.String(),
			turn.SessionID,
			string(turn.Kind),
			turn.Prompt,
			turn.Reply,
			string(tools),
			turn.Error,
			turn.CreatedAt.UnixMicro(),
			turn.Duration.Milliseconds(),
		).
		Query()

	if _, err := d.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert turn %s: %w", turn.ID, err)
	}

	return nil
}

func (d *Driver) Get(ctx context.Context, id uuid.UUID) (*transcript.Turn, error) {
	query, args := d.builder().Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("id", id.String())).
		Query()

	turn, err := scanTurn(d.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transcript.NotFoundError{ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get turn %s: %w", id, err)
	}

	return turn, nil
}

func (d *Driver) List(ctx context.Context, opts transcript.ListOptions) ([]*transcript.Turn, error) {
	selector := d.builder().Select(columns...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("created_at"))

	if opts.SessionID != "" {
		selector.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Limit > 0 {
		selector.Limit(opts.Limit)
	}

	query, args := selector.Query()
	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []*transcript.Turn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

func (d *Driver) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	query, args := d.builder().Delete(table).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	res, err := d.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session %q: %w", sessionID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted turns: %w", err)
	}

	return int(n), nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(s scanner) (*transcript.Turn, error) {
	var (
		id, kind, tools     string
		createdAt, duration int64
		turn                transcript.Turn
	)

	err := s.Scan(
		&id,
		&turn.SessionID,
		&kind,
		&turn.Prompt,
		&turn.Reply,
		&tools,
		&turn.Error,
		&createdAt,
		&duration,
	)
	if err != nil {
		return nil, err
	}

	turn.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid turn id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tools), &turn.Tools); err != nil {
		return nil, fmt.Errorf("invalid tools of turn %s: %w", id, err)
	}

	turn.Kind = transcript.Kind(kind)
	turn.CreatedAt = time.UnixMicro(createdAt).UTC()
	turn.Duration = time.Duration(duration) * time.Millisecond

	return &turn, nil
}
