package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/ids"
	"fuatilia.org/internal/votes"
)

const voteColumns = `id, bill_id, representative_id, vote_type, vote, house, vote_summary,
	updated_by, created_at, updated_at`

func scanVote(scan func(dest ...any) error) (votes.Vote, error) {
	var (
		v            votes.Vote
		choice, upd  sql.NullString
		summaryBytes []byte
	)
	err := scan(&v.ID, &v.BillID, &v.RepresentativeID, &v.Type, &choice, &v.House,
		&summaryBytes, &upd, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return votes.Vote{}, err
	}
	v.Vote = votes.Choice(choice.String)
	v.UpdatedBy = upd.String
	if len(summaryBytes) > 0 {
		if err := json.Unmarshal(summaryBytes, &v.VoteSummary); err != nil {
			return votes.Vote{}, fmt.Errorf("decode vote_summary: %w", err)
		}
	}
	return v, nil
}

func (s *Store) CreateVote(ctx context.Context, v votes.Vote) (votes.Vote, error) {
	if s.db == nil {
		return votes.Vote{}, errors.New("database connection unavailable")
	}
	if v.ID == "" {
		v.ID = ids.New()
	}
	var summaryArg any
	if v.VoteSummary != nil {
		raw, err := json.Marshal(v.VoteSummary)
		if err != nil {
			return votes.Vote{}, fmt.Errorf("encode vote_summary: %w", err)
		}
		summaryArg = raw
	}
	row := s.db.QueryRowContext(ctx, `
		insert into votes (id, bill_id, representative_id, vote_type, vote, house, vote_summary, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
		returning `+voteColumns,
		v.ID, v.BillID, v.RepresentativeID, string(v.Type),
		nullIfEmpty(string(v.Vote)), v.House, summaryArg, nullIfEmpty(v.UpdatedBy))
	created, err := scanVote(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return votes.Vote{}, auth.ErrConflict
			case pgErrForeignKeyViolation:
				return votes.Vote{}, auth.ErrNotFound
			}
		}
		return votes.Vote{}, err
	}
	return created, nil
}

func (s *Store) VoteByID(ctx context.Context, id string) (votes.Vote, error) {
	if s.db == nil {
		return votes.Vote{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `select `+voteColumns+` from votes where id = $1`, id)
	v, err := scanVote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return votes.Vote{}, auth.ErrNotFound
	}
	if err != nil {
		return votes.Vote{}, err
	}
	return v, nil
}

func (s *Store) FilterVotes(ctx context.Context, f votes.Filter) ([]votes.Vote, int, error) {
	if s.db == nil {
		return nil, 0, errors.New("database connection unavailable")
	}
	var (
		where []string
		args  []any
		idx   = 1
	)
	add := func(clause string, value any) {
		where = append(where, fmt.Sprintf(clause, idx))
		args = append(args, value)
		idx++
	}
	if f.BillID != "" {
		add("bill_id = $%d", f.BillID)
	}
	if f.RepresentativeID != "" {
		add("representative_id = $%d", f.RepresentativeID)
	}
	if f.Type != "" {
		add("vote_type = $%d", string(f.Type))
	}
	if f.Vote != "" {
		add("vote = $%d", string(f.Vote))
	}
	if f.House != "" {
		add("house = $%d", f.House)
	}
	if !f.CreatedAfter.IsZero() {
		add("created_at >= $%d", f.CreatedAfter)
	}
	if !f.CreatedBefore.IsZero() {
		add("created_at <= $%d", f.CreatedBefore)
	}
	cond := ""
	if len(where) > 0 {
		cond = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from votes`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`select %s from votes%s order by created_at desc limit $%d offset $%d`,
		voteColumns, cond, idx, idx+1)
	args = append(args, f.ItemsPerPage, (f.Page-1)*f.ItemsPerPage)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []votes.Vote
	for rows.Next() {
		v, err := scanVote(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *Store) DeleteVote(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from votes where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}
