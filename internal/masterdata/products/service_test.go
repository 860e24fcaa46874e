package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type memRepo struct {
	byID map[string]Product
}

func (m *memRepo) Get(_ context.Context, id string) (Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return Product{}, shared.NotFound("Product not found")
	}
	return p, nil
}

func (m *memRepo) List(_ context.Context, in shared.SearchInput) ([]Product, int, error) {
	var out []Product
	for _, p := range m.byID {
		if p.CompanyID == in.CompanyID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, p Product) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memRepo) Update(_ context.Context, p Product) error {
	// Quantity is deliberately preserved, matching the SQL repository
	// which never writes it outside the sale path.
	existing := m.byID[p.ID]
	p.Quantity = existing.Quantity
	m.byID[p.ID] = p
	return nil
}

func (m *memRepo) SetActive(_ context.Context, id string, active bool) error {
	p := m.byID[id]
	p.Active = active
	m.byID[id] = p
	return nil
}

func newFixture() (*Service, *memRepo) {
	repo := &memRepo{byID: map[string]Product{}}
	return NewService(repo), repo
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newFixture()
	uc := shared.UserContext{CompanyID: "c1"}

	_, err := svc.Create(context.Background(), uc, CreateInput{Name: "", SalePrice: 100})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), uc, CreateInput{Name: "Cafe", SalePrice: -1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), uc, CreateInput{Name: "Cafe", SalePrice: 100, Quantity: -5})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetCrossTenantLooksAbsent(t *testing.T) {
	svc, _ := newFixture()

	p, err := svc.Create(context.Background(), shared.UserContext{CompanyID: "c2"}, CreateInput{
		Name: "Cafe", SalePrice: 500, Quantity: 10,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), shared.UserContext{CompanyID: "c1"}, p.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "Product not found", shared.UserSafeMessage(err))
}

func TestUpdateNeverTouchesQuantity(t *testing.T) {
	svc, repo := newFixture()
	uc := shared.UserContext{CompanyID: "c1"}

	p, err := svc.Create(context.Background(), uc, CreateInput{Name: "Cafe", SalePrice: 500, Quantity: 10})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), uc, p.ID, CreateInput{Name: "Cafe Especial", SalePrice: 700, Quantity: 0})
	require.NoError(t, err)
	require.Equal(t, "Cafe Especial", updated.Name)
	require.Equal(t, int64(700), updated.SalePrice)
	require.Equal(t, int64(10), repo.byID[p.ID].Quantity)
}

func TestDeactivate(t *testing.T) {
	svc, repo := newFixture()
	uc := shared.UserContext{CompanyID: "c1"}

	p, err := svc.Create(context.Background(), uc, CreateInput{Name: "Cafe", SalePrice: 500, Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), uc, p.ID))
	require.False(t, repo.byID[p.ID].Active)
}
