package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string           `json:"name" validate:"required"`
	Amount  decimal.Decimal  `json:"amount" validate:"gt=0"`
	Percent *decimal.Decimal `json:"percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func TestValidate_OK(t *testing.T) {
	p := decimal.NewFromInt(20)
	assert.Nil(t, Validate(sample{Name: "x", Amount: decimal.NewFromInt(1), Percent: &p}))
	assert.Nil(t, Validate(sample{Name: "x", Amount: decimal.NewFromInt(1)}))
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	p := decimal.NewFromInt(101)
	errs := Validate(sample{Amount: decimal.Zero, Percent: &p})

	assert.Equal(t, "required", errs["name"])
	assert.Equal(t, "gt", errs["amount"])
	assert.Equal(t, "lte", errs["percent"])
}
