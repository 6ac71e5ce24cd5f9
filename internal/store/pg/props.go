package pg

import (
	"context"
	"database/sql"
	"errors"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/ids"
	"fuatilia.org/internal/props"
)

func (s *Store) CreateConfig(ctx context.Context, c props.Config) (props.Config, error) {
	if s.db == nil {
		return props.Config{}, errors.New("database connection unavailable")
	}
	if c.ID == "" {
		c.ID = ids.New()
	}
	var desc, upd sql.NullString
	row := s.db.QueryRowContext(ctx, `
		insert into configs (id, name, value, description, updated_by)
		values ($1,$2,$3,$4,$5)
		returning id, name, value, description, updated_by, created_at, updated_at
	`, c.ID, c.Name, c.Value, nullIfEmpty(c.Description), nullIfEmpty(c.UpdatedBy))
	if err := row.Scan(&c.ID, &c.Name, &c.Value, &desc, &upd, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return props.Config{}, auth.ErrConflict
		}
		return props.Config{}, err
	}
	c.Description = desc.String
	c.UpdatedBy = upd.String
	return c, nil
}

func (s *Store) ConfigByID(ctx context.Context, id string) (props.Config, error) {
	if s.db == nil {
		return props.Config{}, errors.New("database connection unavailable")
	}
	var (
		c         props.Config
		desc, upd sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, name, value, description, updated_by, created_at, updated_at
		from configs where id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Value, &desc, &upd, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return props.Config{}, auth.ErrNotFound
	}
	if err != nil {
		return props.Config{}, err
	}
	c.Description = desc.String
	c.UpdatedBy = upd.String
	return c, nil
}

func (s *Store) ListConfigs(ctx context.Context) ([]props.Config, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, name, value, description, updated_by, created_at, updated_at
		from configs order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []props.Config
	for rows.Next() {
		var (
			c         props.Config
			desc, upd sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Value, &desc, &upd, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Description = desc.String
		c.UpdatedBy = upd.String
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateConfig(ctx context.Context, id string, value, description, updatedBy string) (props.Config, error) {
	if s.db == nil {
		return props.Config{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update configs set value = $2, description = $3, updated_by = $4, updated_at = now()
		where id = $1
	`, id, value, nullIfEmpty(description), nullIfEmpty(updatedBy))
	if err != nil {
		return props.Config{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return props.Config{}, err
	}
	if aff == 0 {
		return props.Config{}, auth.ErrNotFound
	}
	return s.ConfigByID(ctx, id)
}

func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from configs where id = $1`, id)
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

func (s *Store) CreateFAQ(ctx context.Context, f props.FAQ) (props.FAQ, error) {
	if s.db == nil {
		return props.FAQ{}, errors.New("database connection unavailable")
	}
	if f.ID == "" {
		f.ID = ids.New()
	}
	var upd sql.NullString
	row := s.db.QueryRowContext(ctx, `
		insert into faqs (id, question, answer, updated_by)
		values ($1,$2,$3,$4)
		returning id, question, answer, updated_by, created_at, updated_at
	`, f.ID, f.Question, f.Answer, nullIfEmpty(f.UpdatedBy))
	if err := row.Scan(&f.ID, &f.Question, &f.Answer, &upd, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return props.FAQ{}, auth.ErrConflict
		}
		return props.FAQ{}, err
	}
	f.UpdatedBy = upd.String
	return f, nil
}

func (s *Store) FAQByID(ctx context.Context, id string) (props.FAQ, error) {
	if s.db == nil {
		return props.FAQ{}, errors.New("database connection unavailable")
	}
	var (
		f   props.FAQ
		upd sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, question, answer, updated_by, created_at, updated_at
		from faqs where id = $1
	`, id).Scan(&f.ID, &f.Question, &f.Answer, &upd, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return props.FAQ{}, auth.ErrNotFound
	}
	if err != nil {
		return props.FAQ{}, err
	}
	f.UpdatedBy = upd.String
	return f, nil
}

func (s *Store) ListFAQs(ctx context.Context) ([]props.FAQ, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, question, answer, updated_by, created_at, updated_at
		from faqs order by created_at asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []props.FAQ
	for rows.Next() {
		var (
			f   props.FAQ
			upd sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &upd, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.UpdatedBy = upd.String
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateFAQ(ctx context.Context, id string, question, answer, updatedBy string) (props.FAQ, error) {
	if s.db == nil {
		return props.FAQ{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update faqs set question = $2, answer = $3, updated_by = $4, updated_at = now()
		where id = $1
	`, id, question, answer, nullIfEmpty(updatedBy))
	if err != nil {
		return props.FAQ{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return props.FAQ{}, err
	}
	if aff == 0 {
		return props.FAQ{}, auth.ErrNotFound
	}
	return s.FAQByID(ctx, id)
}

func (s *Store) DeleteFAQ(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from faqs where id = $1`, id)
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
