package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrRoundExists = errors.New("round already recorded")

// Round is one finished round of a session.
type Round struct {
	RoundId   int64     `db:"round_id" json:"round_id"`
	SessionId string    `db:"session_id" json:"session_id"`
	Round     int       `db:"round" json:"round"`
	Width     int       `db:"width" json:"width"`
	Height    int       `db:"height" json:"height"`
	MineCount int       `db:"mine_count" json:"mine_count"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Revealed  int       `db:"revealed" json:"revealed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateRoundParams struct {
	SessionId string
	Round     int
	Params    mines.GameParams
	Outcome   mines.Outcome
	Revealed  int
}

func (q *Queries) CreateRound(ctx context.Context, p CreateRoundParams) (*Round, error) {
	if !p.Outcome.Terminal() {
		return nil, fmt.Errorf("round %s/%d is still %s", p.SessionId, p.Round, p.Outcome)
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO round (
			session_id, round, width, height, mine_count, outcome, revealed
		)
		VALUES (
			@session_id, @round, @width, @height, @mine_count, @outcome, @revealed
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": p.SessionId,
			"round":      p.Round,
			"width":      p.Params.Width,
			"height":     p.Params.Height,
			"mine_count": p.Params.MineCount,
			"outcome":    p.Outcome.String(),
			"revealed":   p.Revealed,
		},
	)
	round, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Round])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, fmt.Errorf("%w: %s", ErrRoundExists, pgErr.Detail)
	}
	return round, err
}

type RoundFilter struct {
	Outcome *mines.Outcome
	Params  *mines.GameParams
	Limit   int
}

const (
	defaultRoundLimit = 50
	maxRoundLimit     = 500
)

func (f RoundFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Outcome != nil {
		clauses = append(clauses, "outcome = @outcome")
		args["outcome"] = f.Outcome.String()
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["mine_count"] = f.Params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (f RoundFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultRoundLimit
	case f.Limit > maxRoundLimit:
		return maxRoundLimit
	default:
		return f.Limit
	}
}

// Query builds the listing query, newest rounds first.
func (f RoundFilter) Query() (string, pgx.NamedArgs) {
	query := "SELECT * FROM round"
	whereClause, args := f.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at DESC, round_id DESC LIMIT @limit;"
	args["limit"] = f.limit()
	return query, args
}

func (q *Queries) ListRounds(ctx context.Context, filter RoundFilter) ([]Round, error) {
	query, args := filter.Query()
	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Round])
}
