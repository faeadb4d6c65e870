package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service/mocks"
	"github.com/fsdevblog/receipts/internal/service/tokens"
	"github.com/fsdevblog/receipts/pkg/uow"
	uowmocks "github.com/fsdevblog/receipts/pkg/uow/mocks"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockPsswd    *mocks.MockPasswordHasher
	jwtSecret    []byte
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret, s.mockPsswd)
	s.Require().NoError(servErr)
	s.userService = userService
}

func fakeUser() domain.User {
	return domain.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      gofakeit.Company(),
		Login:     gofakeit.Username(),
		Email:     gofakeit.Email(),
	}
}

func (s *UserServiceTestSuite) TestLogin() {
	savedUser := fakeUser()
	validHashPassword := "hash ok"
	savedUser.EncryptedPassword = validHashPassword

	// аргументы вызовов для кейсов ниже.
	argsOk := LoginUserArgs{
		Login:    savedUser.Login,
		Password: "<PASSWORD>",
	}
	argsWrongLogin := LoginUserArgs{
		Login:    "wrong",
		Password: "<PASSWORD>",
	}
	argsWrongPass := LoginUserArgs{
		Login:    savedUser.Login,
		Password: "wrong pass",
	}

	// Мок для сравнения пароля.
	s.mockPsswd.EXPECT().ComparePassword(argsOk.Password, validHashPassword).Return(true)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongPass.Password, validHashPassword).Return(false)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		FindByLogin(gomock.Any(), savedUser.Login).
		Return(&savedUser, nil).Times(2)

	s.mockUserRepo.EXPECT().
		FindByLogin(gomock.Any(), argsWrongLogin.Login).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: argsOk, wantErr: nil},
		{name: "wrong login", args: argsWrongLogin, wantErr: domain.ErrRecordNotFound},
		{name: "wrong password", args: argsWrongPass, wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(context.Background(), t.args)
			s.Require().ErrorIs(err, t.wantErr)

			if t.wantErr == nil {
				s.Require().NotNil(user)
				s.Equal(validHashPassword, user.EncryptedPassword)
				s.NotEmpty(tokenStr)

				token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(token.Claims.(*tokens.UserClaims).ID, savedUser.ID) //nolint:errcheck
			}
		})
	}
}

func (s *UserServiceTestSuite) TestRegister() {
	argsOk := RegisterUserArgs{
		Name:     gofakeit.Company(),
		Login:    "validUser",
		Email:    gofakeit.Email(),
		Password: "<PASSWORD>",
	}
	argsDuplicateLogin := RegisterUserArgs{
		Name:     gofakeit.Company(),
		Login:    "duplicateUser",
		Email:    gofakeit.Email(),
		Password: "<PASSWORD>",
	}

	validHashedPassword := "hashedPassword"

	createdUser := domain.User{
		ID:                uuid.New(),
		CreatedAt:         time.Now(),
		Name:              argsOk.Name,
		Login:             argsOk.Login,
		Email:             argsOk.Email,
		EncryptedPassword: validHashedPassword,
	}

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).MinTimes(1)

	// Мок хеширования пароля.
	s.mockPsswd.EXPECT().HashPassword(argsOk.Password).Return(validHashedPassword, nil).Times(2)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Name:              argsOk.Name,
			Login:             argsOk.Login,
			Email:             argsOk.Email,
			EncryptedPassword: validHashedPassword,
		})).
		Return(&createdUser, nil)

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Name:              argsDuplicateLogin.Name,
			Login:             argsDuplicateLogin.Login,
			Email:             argsDuplicateLogin.Email,
			EncryptedPassword: validHashedPassword,
		})).
		Return(nil, domain.ErrDuplicateKey)

	// Мок uow.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	cases := []struct {
		name      string
		args      RegisterUserArgs
		wantErr   error
		wantUser  *domain.User
		wantToken bool
	}{
		{
			name:      "ok",
			args:      argsOk,
			wantUser:  &createdUser,
			wantToken: true,
		},
		{
			name:    "duplicate login",
			args:    argsDuplicateLogin,
			wantErr: domain.ErrDuplicateKey,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Register(context.Background(), t.args)

			s.Require().ErrorIs(err, t.wantErr)
			s.Equal(t.wantUser, user)

			if t.wantToken {
				s.Require().NotEmpty(tokenStr)

				token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(token.Claims.(*tokens.UserClaims).ID, user.ID) //nolint:errcheck
			} else {
				s.Empty(tokenStr)
			}
		})
	}
}

func (s *UserServiceTestSuite) TestResetPassword() {
	userID := uuid.New()

	s.mockPsswd.EXPECT().HashPassword("newPassword1").Return("newHash", nil)
	s.mockUserRepo.EXPECT().UpdatePassword(gomock.Any(), userID, "newHash").Return(nil)

	s.Require().NoError(s.userService.ResetPassword(context.Background(), userID, "newPassword1"))
}

func (s *UserServiceTestSuite) TestDelete() {
	userID := uuid.New()

	s.mockUserRepo.EXPECT().Delete(gomock.Any(), userID).Return(nil)
	s.Require().NoError(s.userService.Delete(context.Background(), userID))

	s.mockUserRepo.EXPECT().Delete(gomock.Any(), userID).Return(domain.ErrRecordNotFound)
	s.Require().ErrorIs(s.userService.Delete(context.Background(), userID), domain.ErrRecordNotFound)
}
