// Package receipt собирает фиксированное по ширине текстовое представление чека.
// Сборка детерминирована и не зависит от локали: один и тот же чек всегда дает
// байт-в-байт одинаковый текст, поэтому результат можно кешировать на записи чека.
package receipt

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/receipts/internal/domain"
)

const (
	DefaultLineWidth = 40

	// Доля ширины строки, отведенная под левую колонку (названия позиций, метки
	// итогов). Остаток - правая колонка под суммы, выровненные по правому краю.
	leftColumnRatio = 0.7

	footerText = "Thank you for your purchase!"

	timestampLayout = "02.01.2006 15:04"
)

type Builder struct {
	lineWidth  int
	leftWidth  int
	rightWidth int
}

func NewBuilder(lineWidth int) *Builder {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	leftWidth := int(float64(lineWidth) * leftColumnRatio)
	return &Builder{
		lineWidth:  lineWidth,
		leftWidth:  leftWidth,
		rightWidth: lineWidth - leftWidth,
	}
}

// Build возвращает текстовое представление чека. Чек должен быть загружен
// вместе с создателем и позициями; суммы позиций и итоги берутся как есть,
// повторного пересчета здесь нет. Строки соединяются через \n без
// завершающего перевода строки.
func (b *Builder) Build(check *domain.Check) string {
	var lines []string

	// Шапка: имя создателя с переносом по словам, каждая строка по центру.
	var creatorName string
	if check.Creator != nil {
		creatorName = check.Creator.Name
	}
	for _, line := range wordWrap(creatorName, b.lineWidth) {
		lines = append(lines, center(line, b.lineWidth))
	}
	lines = append(lines, strings.Repeat("=", b.lineWidth))

	// Позиции в порядке добавления. Разделитель - только между позициями.
	for i, item := range check.Items {
		lines = append(lines, fmt.Sprintf("%s x %s",
			decimal.NewFromInt32(item.Quantity).StringFixed(2), item.Price.StringFixed(2)))

		titleLines := wordWrap(item.Title, b.leftWidth)
		for j, titleLine := range titleLines {
			if j == len(titleLines)-1 {
				// Сумма позиции прижимается к правому краю последней строки названия.
				lines = append(lines, padRight(titleLine, b.leftWidth)+b.money(item.Amount))
			} else {
				lines = append(lines, padRight(titleLine, b.leftWidth))
			}
		}

		if i < len(check.Items)-1 {
			lines = append(lines, strings.Repeat("-", b.lineWidth))
		}
	}

	// Итоги.
	lines = append(lines, strings.Repeat("=", b.lineWidth))
	lines = append(lines, padRight("TOTAL", b.leftWidth)+b.money(check.TotalAmount))
	lines = append(lines, padRight(capitalize(string(check.PaymentMethod)), b.leftWidth)+b.money(check.PaidAmount))
	lines = append(lines, padRight("Change", b.leftWidth)+b.money(check.Change))
	lines = append(lines, strings.Repeat("=", b.lineWidth))

	// Подвал.
	lines = append(lines, center(check.CreatedAt.UTC().Format(timestampLayout), b.lineWidth))
	lines = append(lines, center(footerText, b.lineWidth))

	return strings.Join(lines, "\n")
}

// money форматирует денежное значение с двумя знаками после запятой,
// выровненное по правому краю правой колонки.
func (b *Builder) money(value decimal.Decimal) string {
	return padLeft(value.StringFixed(2), b.rightWidth)
}

// capitalize повторяет str.capitalize: первая руна в верхнем регистре,
// остальные - в нижнем. CASH -> Cash, CREDIT_CARD -> Credit_card.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
