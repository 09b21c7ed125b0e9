package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNegotiationStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to NegotiationStatus
		ok       bool
	}{
		{NegotiationPending, NegotiationNegotiating, true},
		{NegotiationPending, NegotiationApproved, true},
		{NegotiationPending, NegotiationRejected, true},
		{NegotiationNegotiating, NegotiationApproved, true},
		{NegotiationNegotiating, NegotiationRejected, true},
		{NegotiationNegotiating, NegotiationPending, false},
		{NegotiationApproved, NegotiationRejected, false},
		{NegotiationApproved, NegotiationNegotiating, false},
		{NegotiationRejected, NegotiationApproved, false},
		{NegotiationRejected, NegotiationPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNegotiation_AgreedPrice(t *testing.T) {
	n := Negotiation{BasePrice: dec("5000000")}
	p, ok := n.AgreedPrice()
	assert.True(t, ok)
	assert.Equal(t, "5000000", p.String())

	n.RequestedPrice = dec("4500000")
	p, _ = n.AgreedPrice()
	assert.Equal(t, "4500000", p.String())

	n.OfferedPrice = dec("4750000")
	p, _ = n.AgreedPrice()
	assert.Equal(t, "4750000", p.String())

	_, ok = (&Negotiation{}).AgreedPrice()
	assert.False(t, ok)
}

func TestNegotiation_RecomputeDiscount(t *testing.T) {
	n := Negotiation{BasePrice: dec("5000000"), OfferedPrice: dec("4750000")}
	n.RecomputeDiscount()
	if assert.NotNil(t, n.DiscountPercent) {
		assert.Equal(t, "5", n.DiscountPercent.String())
	}

	n = Negotiation{OfferedPrice: dec("4750000")}
	n.RecomputeDiscount()
	assert.Nil(t, n.DiscountPercent)
}

func TestPayment_ApplyReceipt(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Payment{Amount: decimal.NewFromInt(100_000), Status: PaymentPending}

	p.ApplyReceipt(decimal.NewFromInt(40_000), at)
	assert.Equal(t, PaymentPartial, p.Status)
	assert.Nil(t, p.PaidDate)
	assert.Equal(t, "60000", p.Outstanding().String())

	p.ApplyReceipt(decimal.NewFromInt(60_000), at)
	assert.Equal(t, PaymentPaid, p.Status)
	assert.Equal(t, at, *p.PaidDate)
	assert.True(t, p.Outstanding().IsZero())
}

func TestChannelPartner_Commission(t *testing.T) {
	cp := ChannelPartner{CommissionRate: decimal.RequireFromString("2.5")}
	assert.Equal(t, "125000", cp.Commission(decimal.NewFromInt(5_000_000)).String())
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := NotFound("UNIT_NOT_FOUND", "unit not found")
	b := NotFound("UNIT_NOT_FOUND", "unit not found").WithDetails("x")
	assert.True(t, errors.Is(b, a))
	assert.False(t, errors.Is(NotFound("LEAD_NOT_FOUND", "lead not found"), a))

	wrapped := Persistence(errors.New("disk full"))
	assert.Equal(t, KindPersistence, KindOf(wrapped))
	assert.Nil(t, Persistence(nil))
	assert.Equal(t, a, Persistence(a))
}
