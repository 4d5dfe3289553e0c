package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/geocoder89/signin/internal/observability"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, email, name, login_time, logout_time`

// timestamps are stored as UTC RFC3339Nano text
const timeLayout = time.RFC3339Nano

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UsersRepo) UpsertLogin(ctx context.Context, ident user.Identity, at time.Time) (u user.User, err error) {
	err = r.prom.ObserveDB("users.upsert_login", func() error {
		return scanUser(r.db.QueryRowContext(ctx, `
			INSERT INTO users (id, email, name, login_time)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE
			SET email = excluded.email, name = excluded.name, login_time = excluded.login_time
			RETURNING `+userColumns,
			ident.Subject, ident.Email, ident.Name, formatTime(at),
		), &u)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, fmt.Errorf("upsert login: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, in user.User) (u user.User, err error) {
	err = r.prom.ObserveDB("users.create", func() error {
		return scanUser(r.db.QueryRowContext(ctx, `
			INSERT INTO users (id, email, name)
			VALUES (?, ?, ?)
			RETURNING `+userColumns,
			in.ID, in.Email, in.Name,
		), &u)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) MarkLogout(ctx context.Context, id string, at time.Time) error {
	var res sql.Result

	err := r.prom.ObserveDB("users.mark_logout", func() error {
		var e error
		res, e = r.db.ExecContext(ctx, `UPDATE users SET logout_time = ? WHERE id = ?`, formatTime(at), id)
		return e
	})
	if err != nil {
		return fmt.Errorf("mark logout: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark logout: %w", err)
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

// GetByID and GetByEmail are read helpers. No request path reads a user
// back, only tests use them.
func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query, arg string) (u user.User, err error) {
	err = r.prom.ObserveDB(op, func() error {
		return scanUser(r.db.QueryRowContext(ctx, query, arg), &u)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func scanUser(row *sql.Row, u *user.User) error {
	var login, logout sql.NullString

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &login, &logout); err != nil {
		return err
	}

	var err error
	if u.LoginTime, err = parseTime(login); err != nil {
		return err
	}
	if u.LogoutTime, err = parseTime(logout); err != nil {
		return err
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}

	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", v.String, err)
	}

	t = t.UTC()
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	// a primary key clash is an id collision, not a taken email
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// no extended code, fall back to the message
		return strings.Contains(liteErr.Error(), "UNIQUE constraint failed: users.email")
	default:
		return false
	}
}
