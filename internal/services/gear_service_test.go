// file: internal/services/gear_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"castnfish/internal/models"
	"castnfish/internal/pricewatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	products map[string]*models.Product
	history  map[string][]models.PriceRecord
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[string]*models.Product),
		history:  make(map[string][]models.PriceRecord),
	}
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	if recs := r.history[id]; len(recs) > 0 {
		price := recs[len(recs)-1].Price
		p.CurrentPrice = &price
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) ReplacePriceHistory(_ context.Context, productID string, records []models.PriceRecord) error {
	r.history[productID] = records
	return nil
}

func (r *fakeProductRepo) PriceHistory(_ context.Context, productID string) ([]models.PriceRecord, error) {
	return r.history[productID], nil
}

// trackerStore is an in-memory pricewatch.Store.
type trackerStore struct {
	data   map[string][]byte
	setErr error
}

func (s *trackerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *trackerStore) Set(_ context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func newTestGearService(repo *fakeProductRepo, notifier *captureNotifier) GearService {
	tracker := pricewatch.NewTracker(
		context.Background(),
		&trackerStore{data: make(map[string][]byte)},
		"test:alerts",
		notifier,
		zap.NewNop(),
	)
	return NewGearService(repo, tracker, zap.NewNop())
}

func seedProduct(t *testing.T, repo *fakeProductRepo, id string, prices ...float64) {
	t.Helper()
	repo.products[id] = &models.Product{ID: id, Name: id, Category: "rods"}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		repo.history[id] = append(repo.history[id], models.PriceRecord{
			ProductID:  id,
			Price:      p,
			ObservedAt: base.AddDate(0, 0, i),
		})
	}
}

func TestCreateAlertPercentDropFreezesTarget(t *testing.T) {
	repo := newFakeProductRepo()
	seedProduct(t, repo, "rod-1", 200)
	svc := newTestGearService(repo, &captureNotifier{})

	alert, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      3,
		ProductID:   "rod-1",
		Kind:        pricewatch.KindPercentDrop,
		PercentDrop: 25,
	})
	require.NoError(t, err)
	assert.InDelta(t, 150, alert.TargetPrice, 0.001)
}

func TestCreateAlertPercentDropWithoutHistory(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["rod-1"] = &models.Product{ID: "rod-1", Name: "rod-1", Category: "rods"}
	svc := newTestGearService(repo, &captureNotifier{})

	_, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      3,
		ProductID:   "rod-1",
		Kind:        pricewatch.KindPercentDrop,
		PercentDrop: 25,
	})
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "NO_PRICE_HISTORY", svcErr.Code)
}

func TestCreateAlertUnknownProduct(t *testing.T) {
	svc := newTestGearService(newFakeProductRepo(), &captureNotifier{})

	_, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      3,
		ProductID:   "missing",
		Kind:        pricewatch.KindSpecific,
		TargetPrice: 50,
	})
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "NOT_FOUND", svcErr.Type)
}

func TestRecordPricesFiresAlertOnce(t *testing.T) {
	repo := newFakeProductRepo()
	seedProduct(t, repo, "reel-9", 100)
	notifier := &captureNotifier{}
	svc := newTestGearService(repo, notifier)

	_, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      5,
		ProductID:   "reel-9",
		Kind:        pricewatch.KindSpecific,
		TargetPrice: 80,
	})
	require.NoError(t, err)

	observed := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []models.PriceRecord{
		{ProductID: "reel-9", Price: 95, ObservedAt: observed},
		{ProductID: "reel-9", Price: 79, ObservedAt: observed.AddDate(0, 0, 1)},
	}
	require.NoError(t, svc.RecordPrices(context.Background(), "reel-9", records))
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "reel-9", notifier.alerts[0].ProductID)

	// The fired alert is gone; replaying the same prices must not re-fire it.
	require.NoError(t, svc.RecordPrices(context.Background(), "reel-9", records))
	assert.Len(t, notifier.alerts, 1)

	alerts, err := svc.ListAlerts(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestRecordPricesSortsBeforeEvaluation(t *testing.T) {
	repo := newFakeProductRepo()
	seedProduct(t, repo, "lure-2", 40)
	notifier := &captureNotifier{}
	svc := newTestGearService(repo, notifier)

	_, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      5,
		ProductID:   "lure-2",
		Kind:        pricewatch.KindSpecific,
		TargetPrice: 30,
	})
	require.NoError(t, err)

	// The cheap observation is older; the newest price stays above target,
	// so the alert must not fire.
	newest := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	records := []models.PriceRecord{
		{ProductID: "lure-2", Price: 38, ObservedAt: newest},
		{ProductID: "lure-2", Price: 25, ObservedAt: newest.AddDate(0, 0, -5)},
	}
	require.NoError(t, svc.RecordPrices(context.Background(), "lure-2", records))
	assert.Empty(t, notifier.alerts)
}

func TestDeleteAlertChecksOwnership(t *testing.T) {
	repo := newFakeProductRepo()
	seedProduct(t, repo, "rod-1", 200)
	svc := newTestGearService(repo, &captureNotifier{})

	alert, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      3,
		ProductID:   "rod-1",
		Kind:        pricewatch.KindSpecific,
		TargetPrice: 120,
	})
	require.NoError(t, err)

	err = svc.DeleteAlert(context.Background(), alert.ID, 99)
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "NOT_FOUND", svcErr.Type)

	require.NoError(t, svc.DeleteAlert(context.Background(), alert.ID, 3))
	alerts, err := svc.ListAlerts(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCreateAlertStoreFailureIsInternal(t *testing.T) {
	repo := newFakeProductRepo()
	seedProduct(t, repo, "rod-1", 200)
	tracker := pricewatch.NewTracker(
		context.Background(),
		&trackerStore{data: make(map[string][]byte), setErr: errors.New("store down")},
		"test:alerts",
		&captureNotifier{},
		zap.NewNop(),
	)
	svc := NewGearService(repo, tracker, zap.NewNop())

	_, err := svc.CreateAlert(context.Background(), &CreateAlertRequest{
		UserID:      3,
		ProductID:   "rod-1",
		Kind:        pricewatch.KindSpecific,
		TargetPrice: 120,
	})
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	// A persistence failure is the service's problem, not the caller's input.
	assert.Equal(t, "INTERNAL_ERROR", svcErr.Type)
}

func TestRecordPricesRequiresRecords(t *testing.T) {
	svc := newTestGearService(newFakeProductRepo(), &captureNotifier{})
	err := svc.RecordPrices(context.Background(), "rod-1", nil)
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "VALIDATION_ERROR", svcErr.Type)
}
