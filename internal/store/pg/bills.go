package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/bills"
	"fuatilia.org/internal/ids"
)

const billColumns = `id, title, status, sponsored_by, supported_by, house, summary, topics,
	final_date_voted, file_url, updated_by, created_at, updated_at`

func scanBill(scan func(dest ...any) error) (bills.Bill, error) {
	var (
		b                                               bills.Bill
		supported, summary, topics, voted, fileURL, upd sql.NullString
	)
	err := scan(&b.ID, &b.Title, &b.Status, &b.SponsoredBy, &supported, &b.House, &summary,
		&topics, &voted, &fileURL, &upd, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return bills.Bill{}, err
	}
	b.SupportedBy = supported.String
	b.Summary = summary.String
	b.Topics = topics.String
	b.FinalDateVoted = voted.String
	b.FileURL = fileURL.String
	b.UpdatedBy = upd.String
	return b, nil
}

func (s *Store) CreateBill(ctx context.Context, b bills.Bill) (bills.Bill, error) {
	if s.db == nil {
		return bills.Bill{}, errors.New("database connection unavailable")
	}
	if b.ID == "" {
		b.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into bills (id, title, status, sponsored_by, supported_by, house, summary,
			topics, final_date_voted, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		returning `+billColumns,
		b.ID, b.Title, string(b.Status), b.SponsoredBy, nullIfEmpty(b.SupportedBy),
		string(b.House), nullIfEmpty(b.Summary), nullIfEmpty(b.Topics),
		nullIfEmpty(b.FinalDateVoted), nullIfEmpty(b.UpdatedBy))
	created, err := scanBill(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return bills.Bill{}, auth.ErrConflict
		}
		return bills.Bill{}, err
	}
	return created, nil
}

func (s *Store) BillByID(ctx context.Context, id string) (bills.Bill, error) {
	if s.db == nil {
		return bills.Bill{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `select `+billColumns+` from bills where id = $1`, id)
	b, err := scanBill(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return bills.Bill{}, auth.ErrNotFound
	}
	if err != nil {
		return bills.Bill{}, err
	}
	return b, nil
}

func (s *Store) FilterBills(ctx context.Context, f bills.Filter) ([]bills.Bill, int, error) {
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
	if f.Title != "" {
		add("title ilike $%d", "%"+f.Title+"%")
	}
	if f.House != "" {
		add("house = $%d", string(f.House))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.SponsoredBy != "" {
		add("sponsored_by = $%d", f.SponsoredBy)
	}
	if f.Topics != "" {
		add("topics ilike $%d", "%"+f.Topics+"%")
	}
	if !f.CreatedAfter.IsZero() {
		add("created_at >= $%d", f.CreatedAfter)
	}
	if !f.CreatedBefore.IsZero() {
		add("created_at <= $%d", f.CreatedBefore)
	}
	if !f.UpdatedAfter.IsZero() {
		add("updated_at >= $%d", f.UpdatedAfter)
	}
	if !f.UpdatedBefore.IsZero() {
		add("updated_at <= $%d", f.UpdatedBefore)
	}
	cond := ""
	if len(where) > 0 {
		cond = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from bills`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`select %s from bills%s order by created_at desc limit $%d offset $%d`,
		billColumns, cond, idx, idx+1)
	args = append(args, f.ItemsPerPage, (f.Page-1)*f.ItemsPerPage)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []bills.Bill
	for rows.Next() {
		b, err := scanBill(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *Store) UpdateBill(ctx context.Context, id string, upd bills.Update) (bills.Bill, error) {
	if s.db == nil {
		return bills.Bill{}, errors.New("database connection unavailable")
	}
	var (
		sets []string
		args []any
		idx  = 1
	)
	set := func(clause string, value any) {
		sets = append(sets, fmt.Sprintf(clause, idx))
		args = append(args, value)
		idx++
	}
	if upd.Title != nil {
		set("title = $%d", *upd.Title)
	}
	if upd.Summary != nil {
		set("summary = $%d", nullIfEmpty(*upd.Summary))
	}
	if upd.Status != nil {
		set("status = $%d", string(*upd.Status))
	}
	if upd.SponsoredBy != nil {
		set("sponsored_by = $%d", *upd.SponsoredBy)
	}
	if upd.SupportedBy != nil {
		set("supported_by = $%d", nullIfEmpty(*upd.SupportedBy))
	}
	if upd.Topics != nil {
		set("topics = $%d", nullIfEmpty(*upd.Topics))
	}
	if upd.FinalDateVoted != nil {
		set("final_date_voted = $%d", nullIfEmpty(*upd.FinalDateVoted))
	}
	if upd.UpdatedBy != "" {
		set("updated_by = $%d", upd.UpdatedBy)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update bills set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return bills.Bill{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return bills.Bill{}, err
		}
		if aff == 0 {
			return bills.Bill{}, auth.ErrNotFound
		}
	}
	return s.BillByID(ctx, id)
}

func (s *Store) DeleteBill(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from bills where id = $1`, id)
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

func (s *Store) SetBillFileURL(ctx context.Context, id, url string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `update bills set file_url = $2, updated_at = now() where id = $1`, id, url)
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
