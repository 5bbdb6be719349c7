package preprocess

import (
	"errors"
	"fmt"

	"pnl_projection/pkg/models"
)

// ErrMissingRequiredColumn halts a run when the registry extract lacks a
// column the engine cannot default.
var ErrMissingRequiredColumn = errors.New("missing required column")

// Registry column names.
const (
	ColAmount       = "수주 예정액(종합)"
	ColCompany      = "기업명"
	ColSize         = "기업 규모"
	ColFormat       = "과정포맷(대)"
	ColCategory     = "카테고리(대)"
	ColCreated      = "생성 날짜"
	ColContract     = "계약 체결일"
	ColExpected     = "수주 예정일(종합)"
	ColServiceStart = "수강시작일"
	ColServiceEnd   = "수강종료일"
	ColDealName     = "이름"
)

// aliases lists legacy header names per canonical column, in lookup order
// after the canonical name itself.
var aliases = map[string][]string{
	ColFormat:   {"과정포맷"},
	ColCategory: {"카테고리"},
	ColContract: {"계약일"},
	ColCreated:  {"Won등록일"},
}

// Defaults applied when an optional field is blank.
const (
	DefaultFormat   = "기타"
	DefaultCategory = "미기재"
	DefaultCompany  = "미기재"
)

// nonRevenueMarker flags registry rows that never produce revenue.
const nonRevenueMarker = "[비매출입과]"

// field is a canonical column resolved to its candidate positions.
type field []int

func (f field) value(t *models.RawTable, row int) string {
	for _, col := range f {
		if v := t.Cell(row, col); v != "" {
			return v
		}
	}
	return ""
}

// Schema is the resolved canonical view over one raw table. Column aliases
// are resolved once here so the row loop only does index lookups.
type Schema struct {
	amount       field
	company      field
	size         field
	format       field
	category     field
	created      field
	contract     field
	expected     field
	serviceStart field
	serviceEnd   field
	dealName     field
}

func resolve(t *models.RawTable, canonical string) field {
	var f field
	if i := t.Index(canonical); i >= 0 {
		f = append(f, i)
	}
	for _, alias := range aliases[canonical] {
		if i := t.Index(alias); i >= 0 {
			f = append(f, i)
		}
	}
	return f
}

// BuildSchema resolves every canonical column. Only the amount column is
// required; every other field defaults.
func BuildSchema(t *models.RawTable) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s (empty table)", ErrMissingRequiredColumn, ColAmount)
	}
	s := &Schema{
		amount:       resolve(t, ColAmount),
		company:      resolve(t, ColCompany),
		size:         resolve(t, ColSize),
		format:       resolve(t, ColFormat),
		category:     resolve(t, ColCategory),
		created:      resolve(t, ColCreated),
		contract:     resolve(t, ColContract),
		expected:     resolve(t, ColExpected),
		serviceStart: resolve(t, ColServiceStart),
		serviceEnd:   resolve(t, ColServiceEnd),
		dealName:     resolve(t, ColDealName),
	}
	if len(s.amount) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, ColAmount)
	}
	return s, nil
}
