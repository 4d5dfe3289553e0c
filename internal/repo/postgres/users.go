package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/geocoder89/signin/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, login_time, logout_time`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveDB(op, fn)
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// UpsertLogin creates the user for a verified identity or refreshes its email and
// name, stamping login_time either way. The id never changes once written.
func (r *UsersRepo) UpsertLogin(ctx context.Context, ident user.Identity, at time.Time) (u user.User, err error) {
	err = r.observe("users.upsert_login", func() error {
		return scanUser(r.pool.QueryRow(ctx, `
			INSERT INTO users (id, email, name, login_time)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET email = EXCLUDED.email, name = EXCLUDED.name, login_time = EXCLUDED.login_time
			RETURNING `+userColumns,
			ident.Subject, ident.Email, ident.Name, at.UTC(),
		), &u)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, in user.User) (u user.User, err error) {
	err = r.observe("users.create", func() error {
		return scanUser(r.pool.QueryRow(ctx, `
			INSERT INTO users (id, email, name)
			VALUES ($1, $2, $3)
			RETURNING `+userColumns,
			in.ID, in.Email, in.Name,
		), &u)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) MarkLogout(ctx context.Context, id string, at time.Time) error {
	var tag pgconn.CommandTag

	err := r.observe("users.mark_logout", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `UPDATE users SET logout_time = $2 WHERE id = $1`, id, at.UTC())
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

// GetByID and GetByEmail are read helpers. No request path reads a user
// back, only tests use them.
func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg string) (u user.User, err error) {
	err = r.observe(op, func() error {
		return scanUser(r.pool.QueryRow(ctx, query, arg), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.LoginTime,
		&u.LogoutTime,
	)
}

const emailUniqueIndex = "users_email_uniq"

// only the email index counts, a primary key clash is an id collision
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == emailUniqueIndex
}
