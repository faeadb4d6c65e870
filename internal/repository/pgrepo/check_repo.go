package pgrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/pkg/uow"
)

type CheckRepository struct {
	db uow.DBTX
}

func NewCheckRepository(db uow.DBTX) *CheckRepository {
	return &CheckRepository{db: db}
}

const checkColumns = "id, created_at, creator_id, payment_method, paid_amount, total_amount, " +
	"change, coalesce(additional_info, ''), coalesce(text_repr, '')"

const itemColumns = "id, created_at, check_id, title, price, quantity, amount"

// CreateCheck создает чек с нулевыми total_amount и change. Позиции добавляются
// отдельными вызовами AttachItem в той же транзакции.
func (r *CheckRepository) CreateCheck(ctx context.Context, args repoargs.CreateCheck) (*domain.Check, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO checks (id, creator_id, payment_method, paid_amount, additional_info)
		 VALUES ($1, $2, $3, $4, nullif($5, ''))
		 RETURNING `+checkColumns,
		uuid.New(), args.CreatorID, args.PaymentMethod, args.PaidAmount, args.AdditionalInfo,
	)
	check, err := scanCheck(row)
	if err != nil {
		return nil, convertErr(err, "creating check")
	}
	return check, nil
}

// AttachItem вставляет позицию чека и атомарно пересчитывает денежные поля
// владеющего чека. Инкремент и пересчет выполняются на стороне базы
// (read-modify-write в одном UPDATE), а не чтением с последующей записью,
// поэтому конкурирующие вставки не теряют обновления.
func (r *CheckRepository) AttachItem(ctx context.Context, args repoargs.AttachItem) (*domain.Item, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO items (check_id, title, price, quantity, amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+itemColumns,
		args.CheckID, args.Title, args.Price, args.Quantity, args.Amount,
	)
	var item domain.Item
	if err := scanItem(row, &item); err != nil {
		return nil, convertErr(err, "attaching item to check %s", args.CheckID)
	}

	if _, err := r.db.Exec(ctx,
		`UPDATE checks SET total_amount = total_amount + $2 WHERE id = $1`,
		args.CheckID, args.Amount,
	); err != nil {
		return nil, convertErr(err, "incrementing total for check %s", args.CheckID)
	}
	if _, err := r.db.Exec(ctx,
		`UPDATE checks SET change = paid_amount - total_amount WHERE id = $1`,
		args.CheckID,
	); err != nil {
		return nil, convertErr(err, "recomputing change for check %s", args.CheckID)
	}
	return &item, nil
}

// FindByID возвращает чек вместе с создателем и позициями в порядке добавления.
// Возвращает domain.ErrRecordNotFound, если чека с таким ID нет.
func (r *CheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Check, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.created_at, c.creator_id, c.payment_method, c.paid_amount, c.total_amount,
		        c.change, coalesce(c.additional_info, ''), coalesce(c.text_repr, ''),
		        u.id, u.created_at, u.name, u.login, u.email, u.encrypted_password
		 FROM checks c JOIN users u ON u.id = c.creator_id
		 WHERE c.id = $1`, id)

	var check domain.Check
	var creator domain.User
	err := row.Scan(
		&check.ID, &check.CreatedAt, &check.CreatorID, &check.PaymentMethod, &check.PaidAmount,
		&check.TotalAmount, &check.Change, &check.AdditionalInfo, &check.TextRepr,
		&creator.ID, &creator.CreatedAt, &creator.Name, &creator.Login, &creator.Email,
		&creator.EncryptedPassword,
	)
	if err != nil {
		return nil, convertErr(err, "finding check by id %s", id)
	}
	check.Creator = &creator

	if itemsErr := r.loadItems(ctx, []*domain.Check{&check}); itemsErr != nil {
		return nil, itemsErr
	}
	return &check, nil
}

// GetPageByCreator возвращает страницу чеков юзера с учетом фильтров,
// отсортированную по дате создания.
func (r *CheckRepository) GetPageByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
	filters repoargs.CheckFilters,
	pagination repoargs.Pagination,
) (*repoargs.Page[domain.Check], error) {
	pagination = pagination.Normalize()
	where, queryArgs := buildCheckFilters(creatorID, filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM checks `+where, queryArgs...).Scan(&total); err != nil {
		return nil, convertErr(err, "counting checks for creator %s", creatorID)
	}

	limitArgs := append(queryArgs, pagination.Limit, pagination.Offset()) //nolint:gocritic
	query := fmt.Sprintf(`SELECT %s FROM checks %s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		checkColumns, where, len(queryArgs)+1, len(queryArgs)+2)

	checks, err := r.queryChecks(ctx, query, limitArgs...)
	if err != nil {
		return nil, convertErr(err, "getting checks for creator %s", creatorID)
	}

	return &repoargs.Page[domain.Check]{
		Items: checks,
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}, nil
}

// GetAllByCreator возвращает все чеки юзера без пагинации (профиль).
func (r *CheckRepository) GetAllByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Check, error) {
	checks, err := r.queryChecks(ctx,
		`SELECT `+checkColumns+` FROM checks WHERE creator_id = $1 ORDER BY created_at, id`, creatorID)
	if err != nil {
		return nil, convertErr(err, "getting checks for creator %s", creatorID)
	}
	return checks, nil
}

// SetTextRepr сохраняет закешированное текстовое представление чека.
func (r *CheckRepository) SetTextRepr(ctx context.Context, id uuid.UUID, text string) error {
	tag, err := r.db.Exec(ctx, `UPDATE checks SET text_repr = $2 WHERE id = $1`, id, text)
	if err != nil {
		return convertErr(err, "saving text representation for check %s", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "saving text representation for check %s", id)
	}
	return nil
}

// Delete удаляет чек вместе с позициями (каскад на уровне схемы).
// Возвращает domain.ErrRecordNotFound, если чека с таким ID нет.
func (r *CheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM checks WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting check %s", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting check %s", id)
	}
	return nil
}

func (r *CheckRepository) queryChecks(ctx context.Context, query string, args ...any) ([]domain.Check, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer rows.Close()

	var checks []domain.Check
	for rows.Next() {
		check, scanErr := scanCheck(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		checks = append(checks, *check)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr //nolint:wrapcheck
	}

	refs := make([]*domain.Check, len(checks))
	for i := range checks {
		refs[i] = &checks[i]
	}
	if itemsErr := r.loadItems(ctx, refs); itemsErr != nil {
		return nil, itemsErr
	}
	return checks, nil
}

// loadItems дозагружает позиции для набора чеков одним запросом. Сортировка по
// возрастающему bigserial id дает порядок добавления позиций.
func (r *CheckRepository) loadItems(ctx context.Context, checks []*domain.Check) error {
	if len(checks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(checks))
	byID := make(map[uuid.UUID]*domain.Check, len(checks))
	for i, check := range checks {
		ids[i] = check.ID
		byID[check.ID] = check
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE check_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return convertErr(err, "loading check items")
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if scanErr := scanItem(rows, &item); scanErr != nil {
			return convertErr(scanErr, "scanning check item")
		}
		if check, ok := byID[item.CheckID]; ok {
			check.Items = append(check.Items, item)
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return convertErr(rowsErr, "loading check items")
	}
	return nil
}

// buildCheckFilters собирает WHERE-часть запроса по непустым фильтрам.
func buildCheckFilters(creatorID uuid.UUID, filters repoargs.CheckFilters) (string, []any) {
	conditions := []string{"creator_id = $1"}
	args := []any{creatorID}

	appendCondition := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters.PeriodStart != nil {
		appendCondition("created_at >= $%d", *filters.PeriodStart)
	}
	if filters.PeriodEnd != nil {
		// Дата без времени приводится к полуночи, поэтому сравнение делается
		// со следующим днем строго меньше: день PeriodEnd попадает в выборку целиком.
		appendCondition("created_at < $%d", filters.PeriodEnd.AddDate(0, 0, 1))
	}
	if filters.TotalAmountGE != nil {
		appendCondition("total_amount >= $%d", *filters.TotalAmountGE)
	}
	if filters.TotalAmountLE != nil {
		appendCondition("total_amount <= $%d", *filters.TotalAmountLE)
	}
	if filters.PaymentMethod != nil {
		appendCondition("payment_method = $%d", *filters.PaymentMethod)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanCheck(row rowScanner) (*domain.Check, error) {
	var check domain.Check
	err := row.Scan(
		&check.ID, &check.CreatedAt, &check.CreatorID, &check.PaymentMethod, &check.PaidAmount,
		&check.TotalAmount, &check.Change, &check.AdditionalInfo, &check.TextRepr,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &check, nil
}

func scanItem(row rowScanner, item *domain.Item) error {
	//nolint:wrapcheck
	return row.Scan(&item.ID, &item.CreatedAt, &item.CheckID, &item.Title, &item.Price,
		&item.Quantity, &item.Amount)
}
