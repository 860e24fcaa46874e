package sales

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vendaflow/vendaflow/internal/masterdata/products"
	"github.com/vendaflow/vendaflow/internal/masterdata/stores"
	"github.com/vendaflow/vendaflow/internal/shared"
)

// memWorld is an in-memory stand-in for the whole persistence layer so
// the stock decrement can be exercised transactionally.
type memWorld struct {
	mu       sync.Mutex
	stores   map[string]stores.Store
	products map[string]products.Product
	sales    map[string]Sale
	items    map[string][]SaleItem
}

func newMemWorld() *memWorld {
	return &memWorld{
		stores:   map[string]stores.Store{},
		products: map[string]products.Product{},
		sales:    map[string]Sale{},
		items:    map[string][]SaleItem{},
	}
}

func (w *memWorld) Get(ctx context.Context, id string) (Sale, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sales[id]
	if !ok {
		return Sale{}, shared.NotFound("Sale not found")
	}
	return s, nil
}

func (w *memWorld) GetItems(_ context.Context, saleID string) ([]SaleItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.items[saleID], nil
}

func (w *memWorld) List(_ context.Context, in shared.SearchInput) ([]Sale, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []Sale
	for _, s := range w.sales {
		if s.CompanyID == in.CompanyID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (w *memWorld) CreateWithItems(_ context.Context, sale Sale, items []SaleItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range items {
		p := w.products[item.ProductID]
		if p.Quantity < item.Quantity {
			return &StockError{ProductID: item.ProductID, Available: p.Quantity, Requested: item.Quantity}
		}
	}
	for _, item := range items {
		p := w.products[item.ProductID]
		p.Quantity -= item.Quantity
		w.products[item.ProductID] = p
	}
	w.sales[sale.ID] = sale
	w.items[sale.ID] = items
	return nil
}

func (w *memWorld) UpdateStatusFrom(_ context.Context, id string, from, to Status) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sales[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	w.sales[id] = s
	return true, nil
}

type storeLookup struct{ w *memWorld }

func (l storeLookup) Get(_ context.Context, id string) (stores.Store, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	s, ok := l.w.stores[id]
	if !ok {
		return stores.Store{}, shared.NotFound("Store not found")
	}
	return s, nil
}

type productLookup struct{ w *memWorld }

func (l productLookup) Get(_ context.Context, id string) (products.Product, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	p, ok := l.w.products[id]
	if !ok {
		return products.Product{}, shared.NotFound("Product not found")
	}
	return p, nil
}

type saleFixture struct {
	svc   *Service
	world *memWorld
	uc    shared.UserContext
	store stores.Store
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	world := newMemWorld()
	svc := NewService(world, storeLookup{world}, productLookup{world}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store := stores.Store{ID: uuid.NewString(), CompanyID: "c1", Name: "Loja Centro", Status: "active"}
	world.stores[store.ID] = store
	return &saleFixture{
		svc:   svc,
		world: world,
		uc:    shared.UserContext{UserID: uuid.NewString(), CompanyID: "c1", Role: "admin"},
		store: store,
	}
}

func (f *saleFixture) addProduct(name string, price, quantity int64, active bool) products.Product {
	p := products.Product{
		ID:        uuid.NewString(),
		CompanyID: "c1",
		StoreID:   f.store.ID,
		Name:      name,
		SalePrice: price,
		Quantity:  quantity,
		Active:    active,
	}
	f.world.products[p.ID] = p
	return p
}

func TestCreateSaleHappyPath(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Cafe 500g", 500, 10, true)

	sale, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentPix,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, sale.Status)
	require.Equal(t, int64(1000), sale.Total)
	require.Equal(t, int64(1000), sale.FinalTotal)
	require.Len(t, sale.Items, 1)
	require.Equal(t, int64(500), sale.Items[0].UnitPrice)
	require.Equal(t, int64(1000), sale.Items[0].Subtotal)
	require.Equal(t, int64(8), f.world.products[p.ID].Quantity)
}

func TestCreateSaleAppliesDiscount(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Filtro", 300, 5, true)

	sale, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCash,
		Discount:      150,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(900), sale.Total)
	require.Equal(t, int64(150), sale.Discount)
	require.Equal(t, int64(750), sale.FinalTotal)
}

func TestCreateSaleRequiresItems(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{StoreID: f.store.ID, PaymentMethod: PaymentCash})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, "Sale must have at least one item", shared.UserSafeMessage(err))
}

func TestCreateSaleStoreChecks(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Cafe", 500, 10, true)
	items := []CreateItemInput{{ProductID: p.ID, Quantity: 1}}

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID: uuid.NewString(), PaymentMethod: PaymentCash, Items: items,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "Store not found", shared.UserSafeMessage(err))

	other := stores.Store{ID: uuid.NewString(), CompanyID: "c2", Name: "Outra"}
	f.world.stores[other.ID] = other
	_, err = f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID: other.ID, PaymentMethod: PaymentCash, Items: items,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "Store not found", shared.UserSafeMessage(err), "cross-tenant store must look absent")
}

type failingStoreLookup struct{ err error }

func (l failingStoreLookup) Get(_ context.Context, _ string) (stores.Store, error) {
	return stores.Store{}, l.err
}

func TestCreateSaleStoreLookupErrorPropagates(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Cafe", 500, 10, true)

	dbErr := errors.New("acquire connection: pool closed")
	f.svc.stores = failingStoreLookup{err: dbErr}

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCash,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, dbErr, "infrastructure errors must not be masked as not found")
	require.NotErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateSaleInactiveProduct(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Descontinuado", 500, 10, false)

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCash,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, "Product Descontinuado is not active", shared.UserSafeMessage(err))
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Cafe", 500, 3, true)

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCash,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 5}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, "Insufficient stock for product Cafe. Available: 3, Requested: 5", shared.UserSafeMessage(err))
	require.Empty(t, f.world.sales, "no sale persisted")
	require.Equal(t, int64(3), f.world.products[p.ID].Quantity, "no stock decrement")
}

func TestCreateSaleDiscountExceedsTotal(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Cafe", 500, 10, true)

	_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCash,
		Discount:      2000,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, "Discount cannot exceed total value", shared.UserSafeMessage(err))
	require.Empty(t, f.world.sales)
	require.Equal(t, int64(10), f.world.products[p.ID].Quantity)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	f := newSaleFixture(t)
	p := f.addProduct("Limitado", 100, 5, true)

	const attempts = 20
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), f.uc, CreateInput{
				StoreID:       f.store.ID,
				PaymentMethod: PaymentCash,
				Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		require.ErrorIs(t, err, shared.ErrValidation)
		require.True(t, strings.HasPrefix(shared.UserSafeMessage(err), "Insufficient stock for product Limitado."))
	}
	require.Equal(t, 5, succeeded)
	require.Equal(t, attempts-5, failed)
	require.Equal(t, int64(0), f.world.products[p.ID].Quantity, "stock must never go negative")
}

func (f *saleFixture) completedSale(t *testing.T) Sale {
	t.Helper()
	p := f.addProduct("Cafe", 500, 10, true)
	sale, err := f.svc.Create(context.Background(), f.uc, CreateInput{
		StoreID:       f.store.ID,
		PaymentMethod: PaymentCredit,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return sale.Sale
}

func TestCancelSale(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.completedSale(t)
	before := make(map[string]int64)
	for id, p := range f.world.products {
		before[id] = p.Quantity
	}

	updated, err := f.svc.Cancel(context.Background(), f.uc, sale.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, updated.Status)
	for id, p := range f.world.products {
		require.Equal(t, before[id], p.Quantity, "cancel does not restore stock")
	}
}

func TestCancelSaleGuards(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.completedSale(t)

	_, err := f.svc.Cancel(context.Background(), f.uc, sale.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.uc, sale.ID)
	require.Equal(t, "Sale is already canceled", shared.UserSafeMessage(err))

	refunded := f.completedSale(t)
	_, err = f.svc.Refund(context.Background(), f.uc, refunded.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), f.uc, refunded.ID)
	require.Equal(t, "Cannot cancel a refunded sale", shared.UserSafeMessage(err))
}

func TestRefundSaleGuards(t *testing.T) {
	f := newSaleFixture(t)

	sale := f.completedSale(t)
	updated, err := f.svc.Refund(context.Background(), f.uc, sale.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRefunded, updated.Status)

	_, err = f.svc.Refund(context.Background(), f.uc, sale.ID)
	require.Equal(t, "Sale is already refunded", shared.UserSafeMessage(err))

	canceled := f.completedSale(t)
	_, err = f.svc.Cancel(context.Background(), f.uc, canceled.ID)
	require.NoError(t, err)
	_, err = f.svc.Refund(context.Background(), f.uc, canceled.ID)
	require.Equal(t, "Cannot refund a canceled sale", shared.UserSafeMessage(err))

	pending := f.completedSale(t)
	s := f.world.sales[pending.ID]
	s.Status = StatusPending
	f.world.sales[pending.ID] = s
	_, err = f.svc.Refund(context.Background(), f.uc, pending.ID)
	require.Equal(t, "Cannot refund a pending sale", shared.UserSafeMessage(err))
}

func TestFindByIDTenantIsolation(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.completedSale(t)

	got, err := f.svc.FindByID(context.Background(), f.uc, sale.ID)
	require.NoError(t, err)
	require.Equal(t, sale.ID, got.ID)
	require.Len(t, got.Items, 1)

	outsider := shared.UserContext{UserID: uuid.NewString(), CompanyID: "c2"}
	_, err = f.svc.FindByID(context.Background(), outsider, sale.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "Sale not found", shared.UserSafeMessage(err))

	_, err = f.svc.FindByID(context.Background(), f.uc, uuid.NewString())
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "Sale not found", shared.UserSafeMessage(err))
}
