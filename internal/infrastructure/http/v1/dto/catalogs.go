package dto

import (
	"context"

	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain/catalogs/cashaccount"
	"daftar/internal/domain/catalogs/item"
	"daftar/internal/domain/catalogs/partner"
)

// --- Items ---

// CreateItemRequest creates a catalog item.
// Code is optional; a sequential one is generated when empty.
type CreateItemRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name" binding:"required"`
	Type          string         `json:"type" binding:"required,oneof=stocked service"`
	SKU           *string        `json:"sku"`
	Barcode       *string        `json:"barcode"`
	Unit          string         `json:"unit"`
	SalePrice     types.Money    `json:"salePrice"`
	PurchasePrice types.Money    `json:"purchasePrice"`
	MinStock      types.Quantity `json:"minStock"`
	Description   *string        `json:"description"`
}

// ToItem maps the request onto a new item.
func (r CreateItemRequest) ToItem(ctx context.Context) *item.Item {
	tid, _ := tenant.GetTenantID(ctx)
	it := item.New(tid, r.Code, r.Name, item.Type(r.Type))
	it.SKU = r.SKU
	it.Barcode = r.Barcode
	if r.Unit != "" {
		it.Unit = r.Unit
	}
	it.SalePrice = r.SalePrice
	it.PurchasePrice = r.PurchasePrice
	it.MinStock = r.MinStock
	it.Description = r.Description
	return it
}

// UpdateItemRequest updates a catalog item. Version is the expected
// entity version for optimistic locking.
type UpdateItemRequest struct {
	Name          string         `json:"name" binding:"required"`
	Type          string         `json:"type" binding:"required,oneof=stocked service"`
	SKU           *string        `json:"sku"`
	Barcode       *string        `json:"barcode"`
	Unit          string         `json:"unit"`
	SalePrice     types.Money    `json:"salePrice"`
	PurchasePrice types.Money    `json:"purchasePrice"`
	MinStock      types.Quantity `json:"minStock"`
	Description   *string        `json:"description"`
	Version       int            `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing item.
func (r UpdateItemRequest) Apply(it *item.Item) *item.Item {
	it.Name = r.Name
	it.Type = item.Type(r.Type)
	it.SKU = r.SKU
	it.Barcode = r.Barcode
	if r.Unit != "" {
		it.Unit = r.Unit
	}
	it.SalePrice = r.SalePrice
	it.PurchasePrice = r.PurchasePrice
	it.MinStock = r.MinStock
	it.Description = r.Description
	it.SetVersion(r.Version)
	return it
}

// --- Partners ---

// CreatePartnerRequest creates a trading partner.
type CreatePartnerRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name" binding:"required"`
	Role        string      `json:"role" binding:"required,oneof=customer supplier both"`
	CreditLimit types.Money `json:"creditLimit"`
	Phone       *string     `json:"phone"`
	Email       *string     `json:"email"`
	TaxID       *string     `json:"taxId"`
	Address     *string     `json:"address"`
}

// ToPartner maps the request onto a new partner.
func (r CreatePartnerRequest) ToPartner(ctx context.Context) *partner.Partner {
	tid, _ := tenant.GetTenantID(ctx)
	p := partner.New(tid, r.Code, r.Name, partner.Role(r.Role))
	p.CreditLimit = r.CreditLimit
	p.Phone = r.Phone
	p.Email = r.Email
	p.TaxID = r.TaxID
	p.Address = r.Address
	return p
}

// UpdatePartnerRequest updates a trading partner. CurrentBalance is
// owned by the posting engine and cannot be set through the API.
type UpdatePartnerRequest struct {
	Name        string      `json:"name" binding:"required"`
	Role        string      `json:"role" binding:"required,oneof=customer supplier both"`
	CreditLimit types.Money `json:"creditLimit"`
	Phone       *string     `json:"phone"`
	Email       *string     `json:"email"`
	TaxID       *string     `json:"taxId"`
	Address     *string     `json:"address"`
	Version     int         `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing partner.
func (r UpdatePartnerRequest) Apply(p *partner.Partner) *partner.Partner {
	p.Name = r.Name
	p.Role = partner.Role(r.Role)
	p.CreditLimit = r.CreditLimit
	p.Phone = r.Phone
	p.Email = r.Email
	p.TaxID = r.TaxID
	p.Address = r.Address
	p.SetVersion(r.Version)
	return p
}

// --- Cash accounts ---

// CreateCashAccountRequest creates a safe or bank account.
type CreateCashAccountRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required,oneof=safe bank"`
	BranchID string  `json:"branchId"`
	BankName *string `json:"bankName"`
	IBAN     *string `json:"iban"`
}

// ToAccount maps the request onto a new cash account.
func (r CreateCashAccountRequest) ToAccount(ctx context.Context) (*cashaccount.Account, error) {
	tid, _ := tenant.GetTenantID(ctx)

	var a *cashaccount.Account
	if cashaccount.Type(r.Type) == cashaccount.TypeSafe {
		branchID, err := id.Parse(r.BranchID)
		if err != nil {
			return nil, err
		}
		a = cashaccount.NewSafe(tid, branchID, r.Code, r.Name)
	} else {
		a = cashaccount.NewBank(tid, r.Code, r.Name)
	}
	a.BankName = r.BankName
	a.IBAN = r.IBAN
	return a, nil
}

// UpdateCashAccountRequest updates account details. Type and branch are
// immutable after creation; balances are owned by the posting engine.
type UpdateCashAccountRequest struct {
	Name     string  `json:"name" binding:"required"`
	BankName *string `json:"bankName"`
	IBAN     *string `json:"iban"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing account.
func (r UpdateCashAccountRequest) Apply(a *cashaccount.Account) *cashaccount.Account {
	a.Name = r.Name
	a.BankName = r.BankName
	a.IBAN = r.IBAN
	a.SetVersion(r.Version)
	return a
}
