package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/ids"
	"fuatilia.org/internal/users"
)

const accountColumns = `id, username, email, first_name, last_name, phone_number, kind,
	password_hash, client_id, client_secret_hash, role_name, parent_organization,
	superuser, active, updated_by, created_at, updated_at`

func scanAccount(scan func(dest ...any) error) (auth.Account, error) {
	var (
		acct                          auth.Account
		email, first, last, phone     sql.NullString
		pwHash, clientID, secretHash  sql.NullString
		roleName, parentOrg, updatedBy sql.NullString
	)
	err := scan(&acct.ID, &acct.Username, &email, &first, &last, &phone, &acct.Kind,
		&pwHash, &clientID, &secretHash, &roleName, &parentOrg,
		&acct.Superuser, &acct.Active, &updatedBy, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return auth.Account{}, err
	}
	acct.Email = email.String
	acct.FirstName = first.String
	acct.LastName = last.String
	acct.PhoneNumber = phone.String
	acct.PasswordHash = pwHash.String
	acct.ClientID = clientID.String
	acct.ClientSecretHash = secretHash.String
	acct.Role = roleName.String
	acct.ParentOrganization = parentOrg.String
	acct.UpdatedBy = updatedBy.String
	return acct, nil
}

func (s *Store) CreateAccount(ctx context.Context, acct auth.Account) (auth.Account, error) {
	if s.db == nil {
		return auth.Account{}, errors.New("database connection unavailable")
	}
	if acct.ID == "" {
		acct.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into accounts (id, username, email, first_name, last_name, phone_number, kind,
			password_hash, client_id, client_secret_hash, role_name, parent_organization,
			superuser, active, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		returning `+accountColumns,
		acct.ID, acct.Username, nullIfEmpty(acct.Email), nullIfEmpty(acct.FirstName),
		nullIfEmpty(acct.LastName), nullIfEmpty(acct.PhoneNumber), string(acct.Kind),
		nullIfEmpty(acct.PasswordHash), nullIfEmpty(acct.ClientID), nullIfEmpty(acct.ClientSecretHash),
		nullIfEmpty(acct.Role), nullIfEmpty(acct.ParentOrganization),
		acct.Superuser, acct.Active, nullIfEmpty(acct.UpdatedBy))
	created, err := scanAccount(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.Account{}, auth.ErrConflict
		}
		return auth.Account{}, err
	}
	return created, nil
}

func (s *Store) AccountByID(ctx context.Context, id string) (auth.Account, error) {
	if s.db == nil {
		return auth.Account{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `select `+accountColumns+` from accounts where id = $1`, id)
	acct, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Account{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Account{}, err
	}
	return acct, nil
}

func (s *Store) AccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `select `+accountColumns+` from accounts where username = $1`, username)
	acct, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// RolePermissions returns the permission codenames granted to a role name.
// Part of the auth.Directory contract used by the permission gate.
func (s *Store) RolePermissions(ctx context.Context, roleName string) ([]string, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	var roleID string
	err := s.db.QueryRowContext(ctx, `select id from roles where name = $1`, roleName).Scan(&roleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		select p.codename
		from role_permissions rp
		join permissions p on p.id = rp.permission_id
		where rp.role_id = $1
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var codename string
		if err := rows.Scan(&codename); err != nil {
			return nil, err
		}
		perms = append(perms, codename)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

func (s *Store) FilterAccounts(ctx context.Context, f users.AccountFilter) ([]auth.Account, int, error) {
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
	if f.Username != "" {
		add("username = $%d", f.Username)
	}
	if f.Email != "" {
		add("email = $%d", f.Email)
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.Role != "" {
		add("role_name = $%d", f.Role)
	}
	if f.ParentOrganization != "" {
		add("parent_organization = $%d", f.ParentOrganization)
	}
	if f.Active != nil {
		add("active = $%d", *f.Active)
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
	if err := s.db.QueryRowContext(ctx, `select count(*) from accounts`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`select %s from accounts%s order by created_at desc limit $%d offset $%d`,
		accountColumns, cond, idx, idx+1)
	args = append(args, f.ItemsPerPage, (f.Page-1)*f.ItemsPerPage)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []auth.Account
	for rows.Next() {
		acct, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id string, upd users.AccountUpdate) (auth.Account, error) {
	if s.db == nil {
		return auth.Account{}, errors.New("database connection unavailable")
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
	if upd.Email != nil {
		set("email = $%d", *upd.Email)
	}
	if upd.FirstName != nil {
		set("first_name = $%d", *upd.FirstName)
	}
	if upd.LastName != nil {
		set("last_name = $%d", *upd.LastName)
	}
	if upd.PhoneNumber != nil {
		set("phone_number = $%d", *upd.PhoneNumber)
	}
	if upd.Role != nil {
		set("role_name = $%d", nullIfEmpty(*upd.Role))
	}
	if upd.ParentOrganization != nil {
		set("parent_organization = $%d", nullIfEmpty(*upd.ParentOrganization))
	}
	if upd.Active != nil {
		set("active = $%d", *upd.Active)
	}
	if upd.UpdatedBy != "" {
		set("updated_by = $%d", upd.UpdatedBy)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update accounts set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return auth.Account{}, auth.ErrConflict
			}
			return auth.Account{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return auth.Account{}, err
		}
		if aff == 0 {
			return auth.Account{}, auth.ErrNotFound
		}
	}
	return s.AccountByID(ctx, id)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from accounts where id = $1`, id)
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

func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `update accounts set active = $2, updated_at = now() where id = $1`, id, active)
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

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `update accounts set password_hash = $2, updated_at = now() where id = $1`, id, hash)
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

func (s *Store) UpdateClientCredentials(ctx context.Context, id, clientID, secretHash string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update accounts set client_id = $2, client_secret_hash = $3, updated_at = now()
		where id = $1
	`, id, clientID, secretHash)
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
