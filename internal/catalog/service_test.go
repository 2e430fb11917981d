package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-catalog-service/internal/domain"
	"inventory-catalog-service/internal/store"
)

// MockLookuper is a mock implementation of openfoodfacts.Lookuper
type MockLookuper struct {
	mock.Mock
}

func (m *MockLookuper) FetchByBarcode(ctx context.Context, barcode string) (*domain.ExternalDetails, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalDetails), args.Error(1)
}

func (m *MockLookuper) FetchByName(ctx context.Context, name string) (*domain.ExternalDetails, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalDetails), args.Error(1)
}

func PtrTo[T any](v T) *T {
	return &v
}

func newTestService() (*Service, *store.MemoryStore, *MockLookuper) {
	s := store.NewMemoryStore(store.DefaultSeed()...)
	lookup := new(MockLookuper)
	return NewService(s, lookup), s, lookup
}

func TestService_Search_RequiresAParam(t *testing.T) {
	svc, _, lookup := newTestService()

	_, err := svc.Search(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrSearchParams)
	lookup.AssertNotCalled(t, "FetchByBarcode")
	lookup.AssertNotCalled(t, "FetchByName")
}

func TestService_Search_BarcodeTakesPrecedence(t *testing.T) {
	svc, _, lookup := newTestService()

	expected := &domain.ExternalDetails{ProductName: PtrTo("Nutella")}
	lookup.On("FetchByBarcode", mock.Anything, "3017624010701").Return(expected, nil).Once()

	details, err := svc.Search(context.Background(), "3017624010701", "nutella")
	require.NoError(t, err)
	assert.Equal(t, expected, details)

	lookup.AssertNotCalled(t, "FetchByName")
	lookup.AssertExpectations(t)
}

func TestService_Search_ByName(t *testing.T) {
	svc, _, lookup := newTestService()

	expected := &domain.ExternalDetails{ProductName: PtrTo("Milk Chocolate")}
	lookup.On("FetchByName", mock.Anything, "chocolate").Return(expected, nil).Once()

	details, err := svc.Search(context.Background(), "", "chocolate")
	require.NoError(t, err)
	assert.Equal(t, expected, details)
	lookup.AssertExpectations(t)
}

func TestService_Search_NoResultIsNotFound(t *testing.T) {
	svc, _, lookup := newTestService()
	lookup.On("FetchByName", mock.Anything, "nothing").Return(nil, nil).Once()

	_, err := svc.Search(context.Background(), "", "nothing")
	assert.ErrorIs(t, err, ErrExternalNotFound)
}

func TestService_Search_TransportFailureCollapsesToNotFound(t *testing.T) {
	// Ordinary search never distinguishes "source unreachable" from
	// "source had nothing"; only enrichment does.
	svc, _, lookup := newTestService()
	lookup.On("FetchByBarcode", mock.Anything, "000").Return(nil, errors.New("dial tcp: refused")).Once()

	_, err := svc.Search(context.Background(), "000", "")
	assert.ErrorIs(t, err, ErrExternalNotFound)
	assert.NotErrorIs(t, err, ErrExternalUnavailable)
}

func TestService_Search_DoesNotPersist(t *testing.T) {
	svc, st, lookup := newTestService()
	lookup.On("FetchByBarcode", mock.Anything, "012000001658").
		Return(&domain.ExternalDetails{ProductName: PtrTo("Whole Milk")}, nil).Once()

	_, err := svc.Search(context.Background(), "012000001658", "")
	require.NoError(t, err)

	p, err := st.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, p.Details)
}

func TestService_Enrich_Success_ReplacesDetailsWholesale(t *testing.T) {
	svc, st, lookup := newTestService()
	ctx := context.Background()

	// Pre-existing details must not survive the enrichment.
	_, err := st.UpdateProduct(ctx, 1, store.ProductPatch{Details: PtrTo(map[string]interface{}{"a": 1})})
	require.NoError(t, err)

	lookup.On("FetchByBarcode", mock.Anything, "012000001658").
		Return(&domain.ExternalDetails{
			ProductName: PtrTo("Whole Milk"),
			Brands:      PtrTo("DairyCo"),
		}, nil).Once()

	product, err := svc.Enrich(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Whole Milk", product.Details["product_name"])
	assert.Equal(t, "DairyCo", product.Details["brands"])
	assert.NotContains(t, product.Details, "a")

	// Persisted, not just returned.
	stored, err := st.GetProductByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "DairyCo", stored.Details["brands"])
	lookup.AssertExpectations(t)
}

func TestService_Enrich_LocalProductMissing(t *testing.T) {
	svc, _, lookup := newTestService()

	_, err := svc.Enrich(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	lookup.AssertNotCalled(t, "FetchByBarcode")
}

func TestService_Enrich_BarcodeMissing(t *testing.T) {
	svc, _, lookup := newTestService()

	// Product 2 (Bananas) ships without a barcode.
	_, err := svc.Enrich(context.Background(), 2)
	assert.ErrorIs(t, err, ErrBarcodeMissing)
	lookup.AssertNotCalled(t, "FetchByBarcode")
}

func TestService_Enrich_ExternalNotFound(t *testing.T) {
	svc, st, lookup := newTestService()
	lookup.On("FetchByBarcode", mock.Anything, "012000001658").Return(nil, nil).Once()

	_, err := svc.Enrich(context.Background(), 1)
	assert.ErrorIs(t, err, ErrExternalNotFound)

	p, gerr := st.GetProductByID(context.Background(), 1)
	require.NoError(t, gerr)
	assert.Empty(t, p.Details)
}

func TestService_Enrich_TransportFailure(t *testing.T) {
	svc, _, lookup := newTestService()
	lookup.On("FetchByBarcode", mock.Anything, "012000001658").
		Return(nil, errors.New("context deadline exceeded")).Once()

	_, err := svc.Enrich(context.Background(), 1)
	assert.ErrorIs(t, err, ErrExternalUnavailable)
	assert.NotErrorIs(t, err, ErrExternalNotFound)
}
