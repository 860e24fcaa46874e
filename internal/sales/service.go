package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vendaflow/vendaflow/internal/masterdata/products"
	"github.com/vendaflow/vendaflow/internal/masterdata/stores"
	"github.com/vendaflow/vendaflow/internal/shared"
)

// StoreLookup resolves stores for cross-entity validation.
type StoreLookup interface {
	Get(ctx context.Context, id string) (stores.Store, error)
}

// ProductLookup resolves products for pricing and stock checks.
type ProductLookup interface {
	Get(ctx context.Context, id string) (products.Product, error)
}

// CreateItemInput is one requested line of a sale.
type CreateItemInput struct {
	ProductID string
	Quantity  int64
}

// CreateInput is the sale creation request.
type CreateInput struct {
	StoreID       string
	PaymentMethod PaymentMethod
	CustomerID    *string
	Discount      int64
	Items         []CreateItemInput
}

// Service drives sale creation and the status state machine.
type Service struct {
	repo     Repository
	stores   StoreLookup
	products ProductLookup
	audit    *shared.AuditLogger
	log      *slog.Logger
}

func NewService(repo Repository, storeLookup StoreLookup, productLookup ProductLookup, audit *shared.AuditLogger, log *slog.Logger) *Service {
	return &Service{repo: repo, stores: storeLookup, products: productLookup, audit: audit, log: log}
}

// Create validates the request, snapshots prices and persists the sale
// with its stock decrements as one atomic unit. The checks run in a
// fixed order and the first failure wins.
func (s *Service) Create(ctx context.Context, uc shared.UserContext, in CreateInput) (SaleWithItems, error) {
	if len(in.Items) == 0 {
		return SaleWithItems{}, shared.Validation("Sale must have at least one item")
	}

	store, err := s.stores.Get(ctx, in.StoreID)
	if err != nil {
		return SaleWithItems{}, err
	}
	if store.CompanyID != uc.CompanyID {
		return SaleWithItems{}, shared.NotFound("Store not found")
	}

	saleID := uuid.NewString()
	items := make([]SaleItem, 0, len(in.Items))
	names := make(map[string]string, len(in.Items))
	var total int64
	for _, line := range in.Items {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return SaleWithItems{}, err
		}
		if product.CompanyID != uc.CompanyID {
			return SaleWithItems{}, shared.NotFound("Product not found")
		}
		if !product.Active {
			return SaleWithItems{}, shared.Validation(fmt.Sprintf("Product %s is not active", product.Name))
		}
		if product.Quantity < line.Quantity {
			return SaleWithItems{}, insufficientStock(product.Name, product.Quantity, line.Quantity)
		}
		names[product.ID] = product.Name

		subtotal := product.SalePrice * line.Quantity
		total += subtotal
		items = append(items, SaleItem{
			ID:        uuid.NewString(),
			SaleID:    saleID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.SalePrice,
			Subtotal:  subtotal,
		})
	}

	if in.Discount > total {
		return SaleWithItems{}, shared.Validation("Discount cannot exceed total value")
	}

	sale := Sale{
		ID:            saleID,
		CompanyID:     uc.CompanyID,
		StoreID:       in.StoreID,
		UserID:        uc.UserID,
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Status:        StatusCompleted,
		Total:         total,
		Discount:      in.Discount,
		FinalTotal:    total - in.Discount,
	}

	if err := s.repo.CreateWithItems(ctx, sale, items); err != nil {
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			return SaleWithItems{}, insufficientStock(names[stockErr.ProductID], stockErr.Available, stockErr.Requested)
		}
		return SaleWithItems{}, err
	}

	s.log.Info("sale created", "sale_id", saleID, "company_id", uc.CompanyID, "final_total", sale.FinalTotal)
	s.recordAudit(ctx, uc, "sale.create", saleID)

	created, err := s.repo.Get(ctx, saleID)
	if err != nil {
		return SaleWithItems{}, err
	}
	return SaleWithItems{Sale: created, Items: items}, nil
}

// Cancel moves a sale to CANCELED. Stock is not restored; cancellation
// only changes the status.
func (s *Service) Cancel(ctx context.Context, uc shared.UserContext, id string) (Sale, error) {
	sale, err := s.get(ctx, uc, id)
	if err != nil {
		return Sale{}, err
	}
	if err := cancelGuard(sale.Status); err != nil {
		return Sale{}, err
	}
	swapped, err := s.repo.UpdateStatusFrom(ctx, id, sale.Status, StatusCanceled)
	if err != nil {
		return Sale{}, err
	}
	if !swapped {
		// Lost a race with another status change; re-read and
		// report against the fresh state.
		sale, err = s.get(ctx, uc, id)
		if err != nil {
			return Sale{}, err
		}
		if err := cancelGuard(sale.Status); err != nil {
			return Sale{}, err
		}
		return Sale{}, shared.Conflict("Sale status changed concurrently")
	}
	s.recordAudit(ctx, uc, "sale.cancel", id)
	return s.repo.Get(ctx, id)
}

// Refund moves a COMPLETED sale to REFUNDED.
func (s *Service) Refund(ctx context.Context, uc shared.UserContext, id string) (Sale, error) {
	sale, err := s.get(ctx, uc, id)
	if err != nil {
		return Sale{}, err
	}
	if err := refundGuard(sale.Status); err != nil {
		return Sale{}, err
	}
	swapped, err := s.repo.UpdateStatusFrom(ctx, id, sale.Status, StatusRefunded)
	if err != nil {
		return Sale{}, err
	}
	if !swapped {
		sale, err = s.get(ctx, uc, id)
		if err != nil {
			return Sale{}, err
		}
		if err := refundGuard(sale.Status); err != nil {
			return Sale{}, err
		}
		return Sale{}, shared.Conflict("Sale status changed concurrently")
	}
	s.recordAudit(ctx, uc, "sale.refund", id)
	return s.repo.Get(ctx, id)
}

// FindByID returns one sale with its items.
func (s *Service) FindByID(ctx context.Context, uc shared.UserContext, id string) (SaleWithItems, error) {
	sale, err := s.get(ctx, uc, id)
	if err != nil {
		return SaleWithItems{}, err
	}
	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return SaleWithItems{}, err
	}
	return SaleWithItems{Sale: sale, Items: items}, nil
}

// FindAll lists the caller's sales with pagination.
func (s *Service) FindAll(ctx context.Context, uc shared.UserContext, in shared.SearchInput) (shared.SearchOutput[Sale], error) {
	in.CompanyID = uc.CompanyID
	in = in.Normalize()
	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return shared.SearchOutput[Sale]{}, err
	}
	return shared.SearchOutput[Sale]{
		Items:       items,
		Total:       total,
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		SortBy:      in.SortBy,
		SortDir:     in.SortDir,
		Filter:      in.Filter,
	}, nil
}

// get applies the uniform tenant check: absent rows and other-tenant
// rows are indistinguishable to the caller.
func (s *Service) get(ctx context.Context, uc shared.UserContext, id string) (Sale, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	if sale.CompanyID != uc.CompanyID {
		return Sale{}, shared.NotFound("Sale not found")
	}
	return sale, nil
}

func cancelGuard(status Status) error {
	switch status {
	case StatusCanceled:
		return shared.Validation("Sale is already canceled")
	case StatusRefunded:
		return shared.Validation("Cannot cancel a refunded sale")
	}
	return nil
}

func refundGuard(status Status) error {
	switch status {
	case StatusRefunded:
		return shared.Validation("Sale is already refunded")
	case StatusCanceled:
		return shared.Validation("Cannot refund a canceled sale")
	case StatusPending:
		return shared.Validation("Cannot refund a pending sale")
	}
	return nil
}

func insufficientStock(name string, available, requested int64) error {
	return shared.Validation(fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
		name, available, requested))
}

func (s *Service) recordAudit(ctx context.Context, uc shared.UserContext, action, saleID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  uc.UserID,
		Action:   action,
		Entity:   "sale",
		EntityID: saleID,
	}); err != nil {
		s.log.Warn("audit record failed", "error", err)
	}
}
