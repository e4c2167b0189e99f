// internal/pricewatch/tracker_test.go
package pricewatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.data[key] = value
	return nil
}

// captureNotifier records fired alerts.
type captureNotifier struct {
	mu    sync.Mutex
	fired []Alert
}

func (n *captureNotifier) AlertFired(_ context.Context, alert Alert, _ float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fired = append(n.fired, alert)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.fired)
}

func newTestTracker(t *testing.T) (*Tracker, *memStore, *captureNotifier) {
	t.Helper()
	store := newMemStore()
	notifier := &captureNotifier{}
	tracker := NewTracker(context.Background(), store, "pricewatch:alerts", notifier, zap.NewNop())
	return tracker, store, notifier
}

func TestPercentDropTargetComputedOnceAndFrozen(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	alert, err := tracker.CreateAlert(ctx, NewAlert{
		UserID:       1,
		ProductID:    "stradic-fl",
		Kind:         KindPercentDrop,
		PercentDrop:  10,
		CurrentPrice: 200,
	})
	require.NoError(t, err)
	assert.InDelta(t, 180.0, alert.TargetPrice, 1e-9)

	// A higher current price later must not recompute the stored target.
	err = tracker.UpdatePriceHistory(ctx, "stradic-fl", Series{
		{Date: time.Now(), Price: 500},
	})
	require.NoError(t, err)

	alerts := tracker.Alerts()
	require.Len(t, alerts, 1)
	assert.InDelta(t, 180.0, alerts[0].TargetPrice, 1e-9)
}

func TestCreateAlertValidation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.CreateAlert(ctx, NewAlert{Kind: KindSpecific, TargetPrice: 0})
	assert.ErrorIs(t, err, ErrInvalidAlert)

	_, err = tracker.CreateAlert(ctx, NewAlert{Kind: KindPercentDrop, PercentDrop: 120, CurrentPrice: 100})
	assert.ErrorIs(t, err, ErrInvalidAlert)

	_, err = tracker.CreateAlert(ctx, NewAlert{Kind: KindPercentDrop, PercentDrop: 10, CurrentPrice: 0})
	assert.ErrorIs(t, err, ErrInvalidAlert)

	_, err = tracker.CreateAlert(ctx, NewAlert{Kind: Kind("unknown"), TargetPrice: 10})
	assert.ErrorIs(t, err, ErrInvalidAlert)

	assert.Empty(t, tracker.Alerts())
}

func TestAlertFiresAtMostOnce(t *testing.T) {
	tracker, _, notifier := newTestTracker(t)
	ctx := context.Background()

	alert, err := tracker.CreateAlert(ctx, NewAlert{
		UserID:      7,
		ProductID:   "stradic-fl",
		Kind:        KindSpecific,
		TargetPrice: 150,
	})
	require.NoError(t, err)

	// Above target: nothing fires.
	require.NoError(t, tracker.CheckAlerts(ctx, "stradic-fl", 160))
	assert.Zero(t, notifier.count())

	// At target: fires exactly once and is removed.
	require.NoError(t, tracker.CheckAlerts(ctx, "stradic-fl", 150))
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, alert.ID, notifier.fired[0].ID)
	assert.Empty(t, tracker.Alerts())

	// Same or lower price afterwards: the alert no longer exists.
	require.NoError(t, tracker.CheckAlerts(ctx, "stradic-fl", 100))
	assert.Equal(t, 1, notifier.count())
}

func TestCheckAlertsOnlyMatchingProduct(t *testing.T) {
	tracker, _, notifier := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)
	_, err = tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-b", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)

	require.NoError(t, tracker.CheckAlerts(ctx, "reel-a", 50))
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, "reel-a", notifier.fired[0].ProductID)

	remaining := tracker.Alerts()
	require.Len(t, remaining, 1)
	assert.Equal(t, "reel-b", remaining[0].ProductID)
}

func TestDeleteAlertIdempotent(t *testing.T) {
	tracker, store, _ := newTestTracker(t)
	ctx := context.Background()

	alert, err := tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)
	setsAfterCreate := store.sets

	require.NoError(t, tracker.DeleteAlert(ctx, alert.ID))
	assert.Empty(t, tracker.Alerts())

	// Unknown ID: no error, no store rewrite.
	setsAfterDelete := store.sets
	require.NoError(t, tracker.DeleteAlert(ctx, alert.ID))
	require.NoError(t, tracker.DeleteAlert(ctx, 99999))
	assert.Equal(t, setsAfterDelete, store.sets)
	assert.Greater(t, setsAfterDelete, setsAfterCreate)
}

func TestRehydrateFromStore(t *testing.T) {
	store := newMemStore()
	notifier := &captureNotifier{}
	ctx := context.Background()

	first := NewTracker(ctx, store, "pricewatch:alerts", notifier, zap.NewNop())
	alert, err := first.CreateAlert(ctx, NewAlert{UserID: 3, ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 75})
	require.NoError(t, err)

	second := NewTracker(ctx, store, "pricewatch:alerts", notifier, zap.NewNop())
	alerts := second.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.ID, alerts[0].ID)
	assert.Equal(t, int64(3), alerts[0].UserID)
	assert.InDelta(t, 75.0, alerts[0].TargetPrice, 1e-9)
}

func TestCorruptStoreDegradesToEmpty(t *testing.T) {
	store := newMemStore()
	store.data["pricewatch:alerts"] = []byte("{not json")

	tracker := NewTracker(context.Background(), store, "pricewatch:alerts", &captureNotifier{}, zap.NewNop())
	assert.Empty(t, tracker.Alerts())

	// The tracker stays usable after degrading.
	_, err := tracker.CreateAlert(context.Background(), NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 10})
	assert.NoError(t, err)
}

func TestUpdatePriceHistoryReplacesAndReEvaluates(t *testing.T) {
	tracker, _, notifier := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 120})
	require.NoError(t, err)

	day := 24 * time.Hour
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Latest price above target: no fire, history stored.
	require.NoError(t, tracker.UpdatePriceHistory(ctx, "reel-a", Series{
		{Date: base, Price: 140},
		{Date: base.Add(day), Price: 130},
	}))
	assert.Zero(t, notifier.count())
	assert.Len(t, tracker.History("reel-a"), 2)

	price, ok := tracker.CurrentPrice("reel-a")
	require.True(t, ok)
	assert.InDelta(t, 130.0, price, 1e-9)

	// Replacement series whose latest price satisfies the alert.
	require.NoError(t, tracker.UpdatePriceHistory(ctx, "reel-a", Series{
		{Date: base.Add(2 * day), Price: 115},
	}))
	assert.Equal(t, 1, notifier.count())
	assert.Len(t, tracker.History("reel-a"), 1)

	// Empty series replaces history and evaluates nothing.
	require.NoError(t, tracker.UpdatePriceHistory(ctx, "reel-a", nil))
	assert.Empty(t, tracker.History("reel-a"))
}

func TestPersistAfterEveryMutation(t *testing.T) {
	tracker, store, _ := newTestTracker(t)
	ctx := context.Background()

	alert, err := tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)

	raw, ok := store.data["pricewatch:alerts"]
	require.True(t, ok)
	var persisted []Alert
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, alert.ID, persisted[0].ID)

	require.NoError(t, tracker.DeleteAlert(ctx, alert.ID))
	raw = store.data["pricewatch:alerts"]
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Empty(t, persisted)
}

func TestCreateAlertSurfacesStoreFailure(t *testing.T) {
	tracker, store, _ := newTestTracker(t)
	store.setErr = errors.New("store down")

	_, err := tracker.CreateAlert(context.Background(), NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.Error(t, err)
	// A persistence failure is not a parameter problem.
	assert.NotErrorIs(t, err, ErrInvalidAlert)
	// The failed alert is not left behind in memory.
	assert.Empty(t, tracker.Alerts())
}

func TestCheckAlertsNotifiesEvenWhenSaveFails(t *testing.T) {
	tracker, store, notifier := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.CreateAlert(ctx, NewAlert{UserID: 5, ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)

	store.setErr = errors.New("store down")
	err = tracker.CheckAlerts(ctx, "reel-a", 80)
	require.Error(t, err)

	// The notification still goes out and the alert is gone from memory; the
	// caller sees the persistence failure.
	assert.Equal(t, 1, notifier.count())
	assert.Empty(t, tracker.Alerts())
}

func TestAlertIDsUnique(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		alert, err := tracker.CreateAlert(ctx, NewAlert{ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
		require.NoError(t, err)
		require.False(t, seen[alert.ID], "duplicate alert id %d", alert.ID)
		seen[alert.ID] = true
	}
}

func TestAlertsForUser(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.CreateAlert(ctx, NewAlert{UserID: 1, ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 100})
	require.NoError(t, err)
	_, err = tracker.CreateAlert(ctx, NewAlert{UserID: 2, ProductID: "reel-a", Kind: KindSpecific, TargetPrice: 90})
	require.NoError(t, err)

	mine := tracker.AlertsForUser(1)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(1), mine[0].UserID)
	assert.Len(t, tracker.AlertsForUser(3), 0)
}
