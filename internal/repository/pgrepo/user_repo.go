package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/pkg/uow"
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, created_at, name, login, email, encrypted_password"

// CreateUser создает юзера. В случае конфликта логина возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx,
		`INSERT INTO users (id, name, login, email, encrypted_password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		uuid.New(), args.Name, args.Login, args.Email, args.EncryptedPassword,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return user, nil
}

// FindByLogin ищет юзера по логину. Возвращает ошибку domain.ErrRecordNotFound,
// если запись не найдена.
func (u *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by login %s", login)
	}
	return user, nil
}

// FindByID ищет юзера по ID. Возвращает ошибку domain.ErrRecordNotFound,
// если запись не найдена.
func (u *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %s", id)
	}
	return user, nil
}

// GetAll возвращает страницу юзеров, отсортированных по дате создания.
func (u *UserRepository) GetAll(
	ctx context.Context,
	pagination repoargs.Pagination,
) (*repoargs.Page[domain.User], error) {
	pagination = pagination.Normalize()

	var total int64
	if err := u.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, convertErr(err, "counting users")
	}

	rows, err := u.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		pagination.Limit, pagination.Offset(),
	)
	if err != nil {
		return nil, convertErr(err, "getting users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning user")
		}
		users = append(users, *user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting users")
	}

	return &repoargs.Page[domain.User]{
		Items: users,
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}, nil
}

// UpdatePassword заменяет хеш пароля юзера. Возвращает domain.ErrRecordNotFound,
// если юзера с таким ID нет.
func (u *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, encryptedPassword string) error {
	tag, err := u.db.Exec(ctx, `UPDATE users SET encrypted_password = $2 WHERE id = $1`, id, encryptedPassword)
	if err != nil {
		return convertErr(err, "updating password for user %s", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating password for user %s", id)
	}
	return nil
}

// Delete удаляет юзера вместе с его чеками (каскад на уровне схемы).
// Возвращает domain.ErrRecordNotFound, если юзера с таким ID нет.
func (u *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := u.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting user %s", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting user %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.CreatedAt, &user.Name, &user.Login, &user.Email, &user.EncryptedPassword)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
