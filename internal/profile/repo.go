package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrUserExists = fmt.Errorf("user already exists: %w", apperr.ErrConflict)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, p *Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if p.ID == "" || p.Email == "" || p.PasswordHash == "" {
		return errors.New("profile id, email or password hash empty")
	}

	p.EnsureInitialized()
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO user_profile (id, email, password_hash, document)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at
		`,
		p.ID, p.Email, p.PasswordHash, document,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	if err := uuid.Validate(id); err != nil {
		return nil, apperr.ErrNotFound
	}

	return scanProfile(r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, document, created_at, updated_at FROM user_profile WHERE id = $1`,
		id,
	))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get_by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanProfile(r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, document, created_at, updated_at FROM user_profile WHERE email = $1`,
		email,
	))
}

// Modify loads the profile with its row locked, applies fn and stores the
// result in the same transaction. Concurrent writers of one profile are
// serialized by the row lock. When fn fails nothing is written.
func (r *Repo) Modify(ctx context.Context, id string, fn func(p *Profile) error) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.modify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	if err := uuid.Validate(id); err != nil {
		return nil, apperr.ErrNotFound
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	p, err := scanProfile(tx.QueryRow(
		ctx,
		`
			SELECT id, email, password_hash, document, created_at, updated_at
			FROM user_profile
			WHERE id = $1
			FOR UPDATE
		`,
		id,
	))
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	document, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	err = tx.QueryRow(
		ctx,
		`UPDATE user_profile SET document = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`,
		document, id,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return p, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		id, email, passwordHash string
		document                []byte
		createdAt, updatedAt    time.Time
	)
	if err := row.Scan(&id, &email, &passwordHash, &document, &createdAt, &updatedAt); err != nil {
		// a malformed uuid can not match any profile
		if pkg.IsNoRows(err) || pkg.IsInvalidTextRepresentation(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(document, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile document: %w", err)
	}
	p.ID = id
	p.Email = email
	p.PasswordHash = passwordHash
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	p.EnsureInitialized()

	return &p, nil
}
