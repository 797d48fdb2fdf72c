package handlers

import (
	"context"

	"daftar/internal/domain/catalogs/cashaccount"
	"daftar/internal/domain/catalogs/item"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/infrastructure/http/v1/dto"
)

// NewItemHandler wires the generic catalog handler for items.
func NewItemHandler(base *BaseHandler, service *item.Service) *CatalogHandler[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]{
		Service:    service,
		EntityName: "item",
		MapCreateDTO: func(ctx context.Context, req dto.CreateItemRequest) (*item.Item, error) {
			return req.ToItem(ctx), nil
		},
		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) (*item.Item, error) {
			return req.Apply(existing), nil
		},
		MapToDTO: func(it *item.Item) any { return it },
	})
}

// NewPartnerHandler wires the generic catalog handler for partners.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *CatalogHandler[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]{
		Service:    service,
		EntityName: "partner",
		MapCreateDTO: func(ctx context.Context, req dto.CreatePartnerRequest) (*partner.Partner, error) {
			return req.ToPartner(ctx), nil
		},
		MapUpdateDTO: func(req dto.UpdatePartnerRequest, existing *partner.Partner) (*partner.Partner, error) {
			return req.Apply(existing), nil
		},
		MapToDTO: func(p *partner.Partner) any { return p },
	})
}

// NewCashAccountHandler wires the generic catalog handler for cash accounts.
func NewCashAccountHandler(base *BaseHandler, service *cashaccount.Service) *CatalogHandler[*cashaccount.Account, dto.CreateCashAccountRequest, dto.UpdateCashAccountRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*cashaccount.Account, dto.CreateCashAccountRequest, dto.UpdateCashAccountRequest]{
		Service:    service,
		EntityName: "cash_account",
		MapCreateDTO: func(ctx context.Context, req dto.CreateCashAccountRequest) (*cashaccount.Account, error) {
			return req.ToAccount(ctx)
		},
		MapUpdateDTO: func(req dto.UpdateCashAccountRequest, existing *cashaccount.Account) (*cashaccount.Account, error) {
			return req.Apply(existing), nil
		},
		MapToDTO: func(a *cashaccount.Account) any { return a },
	})
}
