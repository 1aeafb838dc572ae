// Package catalog arma la vista del catálogo del vendedor con precios ya
// derivados en la moneda elegida. Siembra el cache de stock con cada lectura
// completa, que es el punto de partida del sincronizador.
package catalog

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/application/stocksync"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/pricing"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/money"
)

// UseCase catálogo de solo lectura para el kiosco.
type UseCase struct {
	repo  repository.CatalogRepository
	cache *stocksync.Cache
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CatalogRepository, cache *stocksync.Cache) *UseCase {
	return &UseCase{repo: repo, cache: cache}
}

// List lista los productos del vendedor con los precios presentables en la
// moneda pedida (unidad y docena según lo permita el modo de venta).
func (uc *UseCase) List(ctx context.Context, vendorID string, c entity.Currency, rates entity.RateTable) ([]dto.CatalogItemResponse, error) {
	if !c.Valid() {
		return nil, domain.ErrUnsupportedCurrency
	}
	products, err := uc.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	uc.cache.Seed(products)

	items := make([]dto.CatalogItemResponse, 0, len(products))
	for _, p := range products {
		item := dto.CatalogItemResponse{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Category:     p.Category,
			SaleMode:     string(p.SaleMode),
			StockUnits:   p.StockUnits,
			Currency:     string(c),
			IsOfferUnit:  p.IsOfferUnit,
			IsOfferDozen: p.IsOfferDozen,
			ImageURL:     p.ImageURL,
		}
		if p.SaleMode.Allows(entity.SaleUnitSingle) {
			price, err := pricing.Derive(p, rates, c, entity.SaleUnitSingle)
			if err != nil {
				return nil, err
			}
			item.UnitPrice = money.Round(price, string(c))
			item.UnitPriceDisplay = money.Format(price, string(c))
		}
		if p.SaleMode.Allows(entity.SaleUnitDozen) {
			price, err := pricing.Derive(p, rates, c, entity.SaleUnitDozen)
			if err != nil {
				return nil, err
			}
			item.DozenPrice = money.Round(price, string(c))
			item.DozenPriceDisplay = money.Format(price, string(c))
		}
		items = append(items, item)
	}
	return items, nil
}

// Get devuelve un producto del catálogo, validando que sea del vendedor.
func (uc *UseCase) Get(ctx context.Context, vendorID, productID string) (*entity.Product, error) {
	p, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
