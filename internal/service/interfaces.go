package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAll(ctx context.Context, pagination repoargs.Pagination) (*repoargs.Page[domain.User], error)
	UpdatePassword(ctx context.Context, id uuid.UUID, encryptedPassword string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CheckRepository interface {
	CreateCheck(ctx context.Context, args repoargs.CreateCheck) (*domain.Check, error)
	AttachItem(ctx context.Context, args repoargs.AttachItem) (*domain.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Check, error)
	GetPageByCreator(
		ctx context.Context,
		creatorID uuid.UUID,
		filters repoargs.CheckFilters,
		pagination repoargs.Pagination,
	) (*repoargs.Page[domain.Check], error)
	GetAllByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Check, error)
	SetTextRepr(ctx context.Context, id uuid.UUID, text string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
