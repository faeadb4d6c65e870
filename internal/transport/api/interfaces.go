package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAll(ctx context.Context, pagination repoargs.Pagination) (*repoargs.Page[domain.User], error)
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CheckServicer interface {
	Create(ctx context.Context, args service.CreateCheckArgs) (*domain.Check, error)
	FindForCreator(ctx context.Context, id, creatorID uuid.UUID) (*domain.Check, error)
	GetPageByCreator(
		ctx context.Context,
		creatorID uuid.UUID,
		filters repoargs.CheckFilters,
		pagination repoargs.Pagination,
	) (*repoargs.Page[domain.Check], error)
	GetAllByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Check, error)
	Text(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
