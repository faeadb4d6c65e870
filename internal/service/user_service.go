package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service/tokens"
	"github.com/fsdevblog/receipts/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	psswd          PasswordHasher
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, psswd PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		psswd:          psswd,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Name     string
	Login    string
	Email    string
	Password string
}

// Register создает юзера и генерирует jwt token. Возвращает 3 значения:
// созданный юзер, токен и ошибку. При занятом логине ошибка domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}
	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var userErr, tokenErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Name:              args.Name,
			Login:             args.Login,
			Email:             args.Email,
			EncryptedPassword: password,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		token, tokenErr = tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Login    string
	Password string
}

// Login аутентифицирует юзера по паре логин/пароль. Для неизвестного логина
// возвращает domain.ErrRecordNotFound, для неверного пароля - domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByLogin(ctx, args.Login)
	if findErr != nil {
		return nil, "", fmt.Errorf("logging in user: %w", findErr)
	}

	if !s.psswd.ComparePassword(args.Password, user.EncryptedPassword) {
		return nil, "", fmt.Errorf("logging in user: %w", domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %s", tokenErr.Error())
	}
	return user, token, nil
}

// FindByID возвращает юзера по ID.
func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// GetAll возвращает страницу юзеров (админский листинг).
func (s *UserService) GetAll(
	ctx context.Context,
	pagination repoargs.Pagination,
) (*repoargs.Page[domain.User], error) {
	page, err := s.userRepo.GetAll(ctx, pagination)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return page, nil
}

// ResetPassword заменяет пароль юзера на newPassword.
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	password, hashErr := s.psswd.HashPassword(newPassword)
	if hashErr != nil {
		return fmt.Errorf("resetting password: %s", hashErr.Error())
	}
	if err := s.userRepo.UpdatePassword(ctx, id, password); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return nil
}

// Delete удаляет юзера вместе с его чеками.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
