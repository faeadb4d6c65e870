package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service/receipt"
	"github.com/fsdevblog/receipts/pkg/uow"
)

type CheckService struct {
	uow       uow.UOW
	checkRepo CheckRepository
	builder   *receipt.Builder
}

func NewCheckService(u uow.UOW, builder *receipt.Builder) (*CheckService, error) {
	checkRepo, err := uow.GetRepositoryAs[CheckRepository](u, uow.RepositoryName(repoargs.CheckRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &CheckService{
		uow:       u,
		checkRepo: checkRepo,
		builder:   builder,
	}, nil
}

type CreateCheckItem struct {
	Title    string
	Price    decimal.Decimal
	Quantity int32
}

type CreateCheckArgs struct {
	CreatorID      uuid.UUID
	PaymentMethod  domain.PaymentMethodType
	PaidAmount     decimal.Decimal
	AdditionalInfo string
	Items          []CreateCheckItem
}

// Create создает чек и последовательно добавляет позиции в одной транзакции.
// Сумма каждой позиции считается через domain.ItemAmount, итоги чека
// (total_amount, change) пересчитываются атомарными апдейтами на каждой вставке.
// Падение любой вставки откатывает чек целиком - частично созданных чеков не бывает.
func (s *CheckService) Create(ctx context.Context, args CreateCheckArgs) (*domain.Check, error) {
	var check *domain.Check
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CheckRepository](tx, uow.RepositoryName(repoargs.CheckRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		created, createErr := repo.CreateCheck(c, repoargs.CreateCheck{
			CreatorID:      args.CreatorID,
			PaymentMethod:  args.PaymentMethod,
			PaidAmount:     args.PaidAmount,
			AdditionalInfo: args.AdditionalInfo,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		for _, item := range args.Items {
			if _, attachErr := repo.AttachItem(c, repoargs.AttachItem{
				CheckID:  created.ID,
				Title:    item.Title,
				Price:    item.Price,
				Quantity: item.Quantity,
				Amount:   domain.ItemAmount(item.Price, item.Quantity),
			}); attachErr != nil {
				return attachErr //nolint:wrapcheck
			}
		}

		// Перечитываем чек: итоги к этому моменту пересчитаны на стороне базы.
		reloaded, findErr := repo.FindByID(c, created.ID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		check = reloaded
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating check: %w", txErr)
	}
	return check, nil
}

// FindForCreator возвращает чек по ID, если он принадлежит creatorID.
// Чужой чек неотличим от несуществующего: в обоих случаях domain.ErrRecordNotFound.
func (s *CheckService) FindForCreator(ctx context.Context, id, creatorID uuid.UUID) (*domain.Check, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if check.CreatorID != creatorID {
		return nil, fmt.Errorf("finding check %s for creator: %w", id, domain.ErrRecordNotFound)
	}
	return check, nil
}

// GetPageByCreator возвращает страницу чеков юзера с учетом фильтров.
func (s *CheckService) GetPageByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
	filters repoargs.CheckFilters,
	pagination repoargs.Pagination,
) (*repoargs.Page[domain.Check], error) {
	page, err := s.checkRepo.GetPageByCreator(ctx, creatorID, filters, pagination)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return page, nil
}

// GetAllByCreator возвращает все чеки юзера (профиль).
func (s *CheckService) GetAllByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Check, error) {
	checks, err := s.checkRepo.GetAllByCreator(ctx, creatorID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return checks, nil
}

// Text возвращает текстовое представление чека. Текст собирается один раз и
// сохраняется на записи чека; повторные запросы отдают кеш без пересборки.
// Гонка двух одновременных запросов безобидна: сборка детерминирована, оба
// запишут одинаковый текст. Владение чеком здесь намеренно не проверяется -
// ссылка на текст чека публичная.
func (s *CheckService) Text(ctx context.Context, id uuid.UUID) (string, error) {
	var text string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CheckRepository](tx, uow.RepositoryName(repoargs.CheckRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		check, findErr := repo.FindByID(c, id)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if check.TextRepr != "" {
			text = check.TextRepr
			return nil
		}

		text = s.builder.Build(check)
		return repo.SetTextRepr(c, id, text) //nolint:wrapcheck
	})
	if txErr != nil {
		return "", fmt.Errorf("check text representation: %w", txErr)
	}
	return text, nil
}

// Delete удаляет чек вместе с позициями.
func (s *CheckService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.checkRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting check: %w", err)
	}
	return nil
}
