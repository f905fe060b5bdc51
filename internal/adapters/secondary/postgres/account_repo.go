package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) ports.AccountRepository {
	return &accountRepo{pool: pool}
}

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO account (id, email, name, credential_hash, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`
	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Email, account.Name, account.CredentialHash, account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, email, name, credential_hash, created_at
		FROM account
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, email, name, credential_hash, created_at
		FROM account
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}

func (r *accountRepo) get(ctx context.Context, query string, arg interface{}) (*domain.Account, error) {
	var account domain.Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.Name,
		&account.CredentialHash, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}
