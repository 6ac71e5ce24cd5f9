package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/ids"
	"fuatilia.org/internal/representatives"
)

const representativeColumns = `id, full_name, position, position_class, house, area_represented,
	phone_number, gender, current_parliamentary_roles, image_url, updated_by, created_at, updated_at`

func scanRepresentative(scan func(dest ...any) error) (representatives.Representative, error) {
	var (
		r                    representatives.Representative
		phone, gender, roles sql.NullString
		imageURL, updatedBy  sql.NullString
	)
	err := scan(&r.ID, &r.FullName, &r.Position, &r.PositionClass, &r.House, &r.AreaRepresented,
		&phone, &gender, &roles, &imageURL, &updatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return representatives.Representative{}, err
	}
	r.PhoneNumber = phone.String
	r.Gender = representatives.Gender(gender.String)
	r.CurrentParliamentaryRoles = roles.String
	r.ImageURL = imageURL.String
	r.UpdatedBy = updatedBy.String
	return r, nil
}

func (s *Store) CreateRepresentative(ctx context.Context, r representatives.Representative) (representatives.Representative, error) {
	if s.db == nil {
		return representatives.Representative{}, errors.New("database connection unavailable")
	}
	if r.ID == "" {
		r.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into representatives (id, full_name, position, position_class, house,
			area_represented, phone_number, gender, current_parliamentary_roles, image_url, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		returning `+representativeColumns,
		r.ID, r.FullName, string(r.Position), string(r.PositionClass), string(r.House),
		r.AreaRepresented, nullIfEmpty(r.PhoneNumber), nullIfEmpty(string(r.Gender)),
		nullIfEmpty(r.CurrentParliamentaryRoles), nullIfEmpty(r.ImageURL), nullIfEmpty(r.UpdatedBy))
	created, err := scanRepresentative(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return representatives.Representative{}, auth.ErrConflict
		}
		return representatives.Representative{}, err
	}
	return created, nil
}

func (s *Store) RepresentativeByID(ctx context.Context, id string) (representatives.Representative, error) {
	if s.db == nil {
		return representatives.Representative{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `select `+representativeColumns+` from representatives where id = $1`, id)
	r, err := scanRepresentative(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return representatives.Representative{}, auth.ErrNotFound
	}
	if err != nil {
		return representatives.Representative{}, err
	}
	return r, nil
}

func (s *Store) FilterRepresentatives(ctx context.Context, f representatives.Filter) ([]representatives.Representative, int, error) {
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
	if f.FullName != "" {
		add("full_name ilike $%d", "%"+f.FullName+"%")
	}
	if f.Position != "" {
		add("position = $%d", string(f.Position))
	}
	if f.PositionClass != "" {
		add("position_class = $%d", string(f.PositionClass))
	}
	if f.House != "" {
		add("house = $%d", string(f.House))
	}
	if f.AreaRepresented != "" {
		add("area_represented ilike $%d", "%"+f.AreaRepresented+"%")
	}
	if f.Gender != "" {
		add("gender = $%d", string(f.Gender))
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
	if err := s.db.QueryRowContext(ctx, `select count(*) from representatives`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`select %s from representatives%s order by full_name asc limit $%d offset $%d`,
		representativeColumns, cond, idx, idx+1)
	args = append(args, f.ItemsPerPage, (f.Page-1)*f.ItemsPerPage)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []representatives.Representative
	for rows.Next() {
		r, err := scanRepresentative(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *Store) UpdateRepresentative(ctx context.Context, id string, upd representatives.Update) (representatives.Representative, error) {
	if s.db == nil {
		return representatives.Representative{}, errors.New("database connection unavailable")
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
	if upd.FullName != nil {
		set("full_name = $%d", *upd.FullName)
	}
	if upd.Position != nil {
		set("position = $%d", string(*upd.Position))
	}
	if upd.House != nil {
		set("house = $%d", string(*upd.House))
	}
	if upd.AreaRepresented != nil {
		set("area_represented = $%d", *upd.AreaRepresented)
	}
	if upd.PhoneNumber != nil {
		set("phone_number = $%d", nullIfEmpty(*upd.PhoneNumber))
	}
	if upd.CurrentParliamentaryRoles != nil {
		set("current_parliamentary_roles = $%d", nullIfEmpty(*upd.CurrentParliamentaryRoles))
	}
	if upd.ImageURL != nil {
		set("image_url = $%d", nullIfEmpty(*upd.ImageURL))
	}
	if upd.UpdatedBy != "" {
		set("updated_by = $%d", upd.UpdatedBy)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update representatives set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return representatives.Representative{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return representatives.Representative{}, err
		}
		if aff == 0 {
			return representatives.Representative{}, auth.ErrNotFound
		}
	}
	return s.RepresentativeByID(ctx, id)
}

func (s *Store) DeleteRepresentative(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from representatives where id = $1`, id)
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
