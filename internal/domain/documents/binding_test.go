package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/domain/trade"
)

type stubDirectory struct {
	partners map[id.ID]*partner.Partner
}

func (d *stubDirectory) GetByID(_ context.Context, partnerID id.ID) (*partner.Partner, error) {
	p, ok := d.partners[partnerID]
	if !ok {
		return nil, apperror.NewNotFound("partner", partnerID.String())
	}
	return p, nil
}

func directoryWith(partners ...*partner.Partner) *stubDirectory {
	d := &stubDirectory{partners: make(map[id.ID]*partner.Partner)}
	for _, p := range partners {
		d.partners[p.ID] = p
	}
	return d
}

func TestBinding_PartyRoleChecks(t *testing.T) {
	tenantID := id.New()
	customer := partner.New(tenantID, "PTN-00001", "Acme Retail", partner.RoleCustomer)
	supplier := partner.New(tenantID, "PTN-00002", "Global Goods", partner.RoleSupplier)
	both := partner.New(tenantID, "PTN-00003", "Omni Trade", partner.RoleBoth)
	dir := directoryWith(customer, supplier, both)

	cases := []struct {
		kind    trade.Kind
		partyID id.ID
		ok      bool
	}{
		{trade.KindSalesInvoice, customer.ID, true},
		{trade.KindSalesInvoice, supplier.ID, false},
		{trade.KindSalesReturn, customer.ID, true},
		{trade.KindPurchaseInvoice, supplier.ID, true},
		{trade.KindPurchaseInvoice, customer.ID, false},
		{trade.KindPurchaseReturn, supplier.ID, true},
		{trade.KindSalesInvoice, both.ID, true},
		{trade.KindPurchaseInvoice, both.ID, true},
	}

	for _, tc := range cases {
		b := NewBinding(tc.kind, nil, dir)
		err := b.checkParty(context.Background(), tc.partyID)
		if tc.ok {
			assert.NoError(t, err, "kind %s", tc.kind)
		} else {
			require.Error(t, err, "kind %s", tc.kind)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		}
	}
}

func TestBinding_RejectsDeletedPartner(t *testing.T) {
	customer := partner.New(id.New(), "PTN-00001", "Acme Retail", partner.RoleCustomer)
	customer.MarkDeleted()
	b := NewBinding(trade.KindSalesInvoice, nil, directoryWith(customer))

	err := b.checkParty(context.Background(), customer.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestBinding_UnknownPartner(t *testing.T) {
	b := NewBinding(trade.KindSalesInvoice, nil, directoryWith())

	err := b.checkParty(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestBinding_PartyIsOptional(t *testing.T) {
	// Cash documents may carry no partner; only a supplied id is
	// checked against the directory.
	b := NewBinding(trade.KindSalesInvoice, nil, directoryWith())

	assert.NoError(t, b.checkParty(context.Background(), id.Nil()))
}
