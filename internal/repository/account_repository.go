package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

// AccountRepository persists credential records. The collection is chosen by role.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, role domain.Role, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, role domain.Role, id, passwordHash string) error
	SetActive(ctx context.Context, role domain.Role, id string, active bool) error
}

type accountRepository struct {
	store store.RecordStore
	now   func() time.Time
}

// NewAccountRepository returns a record store backed implementation.
func NewAccountRepository(s store.RecordStore) AccountRepository {
	return &accountRepository{store: s, now: time.Now}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	table, err := collectionFor(account.Role)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.CreatedAt, account.UpdatedAt = now, now

	return r.store.Insert(ctx, table, store.Record{
		"id":           account.ID,
		"email":        account.Email,
		"name":         account.Name,
		"passwordHash": account.PasswordHash,
		"isActive":     account.IsActive,
		"createdAt":    formatTime(now),
		"updatedAt":    formatTime(now),
	})
}

func (r *accountRepository) GetByID(ctx context.Context, role domain.Role, id string) (*domain.Account, error) {
	return r.findOne(ctx, role, store.Filter{"id": id})
}

func (r *accountRepository) GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Account, error) {
	return r.findOne(ctx, role, store.Filter{"email": email})
}

func (r *accountRepository) UpdatePassword(ctx context.Context, role domain.Role, id, passwordHash string) error {
	return r.update(ctx, role, id, store.Record{"passwordHash": passwordHash})
}

func (r *accountRepository) SetActive(ctx context.Context, role domain.Role, id string, active bool) error {
	return r.update(ctx, role, id, store.Record{"isActive": active})
}

func (r *accountRepository) update(ctx context.Context, role domain.Role, id string, patch store.Record) error {
	table, err := collectionFor(role)
	if err != nil {
		return err
	}
	patch["updatedAt"] = formatTime(r.now())
	n, err := r.store.Update(ctx, table, store.Filter{"id": id}, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountRepository) findOne(ctx context.Context, role domain.Role, filter store.Filter) (*domain.Account, error) {
	table, err := collectionFor(role)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.FindOne(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:           str(rec, "id"),
		Email:        str(rec, "email"),
		Name:         str(rec, "name"),
		PasswordHash: str(rec, "passwordHash"),
		Role:         role,
		IsActive:     boolean(rec, "isActive"),
		CreatedAt:    timestamp(rec, "createdAt"),
		UpdatedAt:    timestamp(rec, "updatedAt"),
	}, nil
}

func collectionFor(role domain.Role) (string, error) {
	table := role.Collection()
	if table == "" {
		return "", fmt.Errorf("no account collection for role %q", role)
	}
	return table, nil
}
