// internal/pricewatch/tracker.go
package pricewatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidAlert marks CreateAlert failures caused by the alert parameters
// themselves, as opposed to store persistence failures.
var ErrInvalidAlert = errors.New("invalid alert")

// Kind discriminates how an alert's target price was chosen.
type Kind string

const (
	// KindSpecific is an alert on an absolute target price.
	KindSpecific Kind = "specific"
	// KindPercentDrop is an alert whose target price was computed once, at
	// creation time, as a percentage reduction from the then-current price.
	KindPercentDrop Kind = "percent_drop"
)

// Alert is a user rule that fires a one-shot notification when the tracked
// price falls to or below the target. The ID is the creation timestamp in
// milliseconds and is unique within a tracker.
type Alert struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductID   string    `json:"product_id"`
	Kind        Kind      `json:"kind"`
	TargetPrice float64   `json:"target_price"`
	CreatedAt   time.Time `json:"created"`
}

// PricePoint is one observation in a product's price history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Series is a product's ordered price history. The last point is the current
// price reference.
type Series []PricePoint

// Latest returns the most recent price in the series.
func (s Series) Latest() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].Price, true
}

// Store is the key-value store the alert list is persisted to. Absent keys
// return ok=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier receives one event per fired alert.
type Notifier interface {
	AlertFired(ctx context.Context, alert Alert, currentPrice float64)
}

// NewAlert carries the parameters for creating an alert. For KindPercentDrop
// the target price is derived from PercentDrop and CurrentPrice; for
// KindSpecific, TargetPrice is used as given.
type NewAlert struct {
	UserID       int64
	ProductID    string
	Kind         Kind
	TargetPrice  float64
	PercentDrop  float64
	CurrentPrice float64
}

// Tracker owns a list of price alerts and per-product price history. The full
// alert list is serialized to the store after every mutation and rehydrated on
// construction. Each alert fires at most once: firing removes it in the same
// operation that emits the notification.
type Tracker struct {
	mu       sync.Mutex
	store    Store
	key      string
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	alerts  []Alert
	history map[string]Series
	lastID  int64
}

// NewTracker creates a tracker and rehydrates its alert list from the store.
// Absent or corrupt stored data degrades to an empty list; it is never a
// construction error.
func NewTracker(ctx context.Context, store Store, key string, notifier Notifier, logger *zap.Logger) *Tracker {
	t := &Tracker{
		store:    store,
		key:      key,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		history:  make(map[string]Series),
	}
	t.load(ctx)
	return t
}

func (t *Tracker) load(ctx context.Context) {
	raw, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		t.logger.Warn("Failed to read stored alerts, starting empty",
			zap.String("key", t.key),
			zap.Error(err),
		)
		return
	}
	if !ok {
		return
	}

	var alerts []Alert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		t.logger.Warn("Stored alert list is corrupt, starting empty",
			zap.String("key", t.key),
			zap.Error(err),
		)
		return
	}

	t.alerts = alerts
	for _, a := range alerts {
		if a.ID > t.lastID {
			t.lastID = a.ID
		}
	}
	t.logger.Info("Rehydrated price alerts",
		zap.String("key", t.key),
		zap.Int("count", len(alerts)),
	)
}

// save serializes the full alert list. Callers hold t.mu.
func (t *Tracker) save(ctx context.Context) error {
	raw, err := json.Marshal(t.alerts)
	if err != nil {
		return fmt.Errorf("failed to serialize alerts: %w", err)
	}
	if err := t.store.Set(ctx, t.key, raw); err != nil {
		return fmt.Errorf("failed to persist alerts: %w", err)
	}
	return nil
}

// CreateAlert creates and persists a new alert. A percent-drop target price is
// computed here, once, and frozen; later price history changes never recompute it.
func (t *Tracker) CreateAlert(ctx context.Context, p NewAlert) (Alert, error) {
	target := p.TargetPrice
	switch p.Kind {
	case KindSpecific:
		if target <= 0 {
			return Alert{}, fmt.Errorf("%w: target price must be positive", ErrInvalidAlert)
		}
	case KindPercentDrop:
		if p.PercentDrop <= 0 || p.PercentDrop >= 100 {
			return Alert{}, fmt.Errorf("%w: percent drop must be in (0, 100)", ErrInvalidAlert)
		}
		if p.CurrentPrice <= 0 {
			return Alert{}, fmt.Errorf("%w: current price is required for a percent-drop alert", ErrInvalidAlert)
		}
		target = p.CurrentPrice * (1 - p.PercentDrop/100)
	default:
		return Alert{}, fmt.Errorf("%w: unknown alert kind %q", ErrInvalidAlert, p.Kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	created := t.now()
	id := created.UnixMilli()
	if id <= t.lastID {
		id = t.lastID + 1
	}
	t.lastID = id

	alert := Alert{
		ID:          id,
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		Kind:        p.Kind,
		TargetPrice: target,
		CreatedAt:   created,
	}

	t.alerts = append(t.alerts, alert)
	if err := t.save(ctx); err != nil {
		t.alerts = t.alerts[:len(t.alerts)-1]
		return Alert{}, err
	}

	t.logger.Info("Price alert created",
		zap.Int64("alert_id", alert.ID),
		zap.String("product_id", alert.ProductID),
		zap.String("kind", string(alert.Kind)),
		zap.Float64("target_price", alert.TargetPrice),
	)
	return alert, nil
}

// DeleteAlert removes an alert by ID. Removing an unknown ID is a no-op, not
// an error, and does not rewrite the store.
func (t *Tracker) DeleteAlert(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.removeLocked(id) {
		return nil
	}
	return t.save(ctx)
}

// removeLocked drops the alert with the given ID, reporting whether it existed.
// Callers hold t.mu.
func (t *Tracker) removeLocked(id int64) bool {
	for i, a := range t.alerts {
		if a.ID == id {
			t.alerts = append(t.alerts[:i], t.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// CheckAlerts evaluates every alert on the product against currentPrice. A
// satisfied alert (currentPrice <= target) is removed and notified in the same
// operation, so it can never fire twice.
func (t *Tracker) CheckAlerts(ctx context.Context, productID string, currentPrice float64) error {
	t.mu.Lock()
	var fired []Alert
	remaining := t.alerts[:0]
	for _, a := range t.alerts {
		if a.ProductID == productID && currentPrice <= a.TargetPrice {
			fired = append(fired, a)
			continue
		}
		remaining = append(remaining, a)
	}
	t.alerts = remaining

	var saveErr error
	if len(fired) > 0 {
		saveErr = t.save(ctx)
	}
	t.mu.Unlock()

	if saveErr != nil {
		// The fired alerts are already gone from memory but the store still
		// holds them; a restart would rehydrate and re-deliver them.
		t.logger.Error("Failed to persist alert removal after firing",
			zap.String("product_id", productID),
			zap.Int("fired", len(fired)),
			zap.Error(saveErr),
		)
	}

	for _, a := range fired {
		t.logger.Info("Price alert fired",
			zap.Int64("alert_id", a.ID),
			zap.String("product_id", a.ProductID),
			zap.Float64("target_price", a.TargetPrice),
			zap.Float64("current_price", currentPrice),
		)
		t.notifier.AlertFired(ctx, a, currentPrice)
	}
	return saveErr
}

// UpdatePriceHistory replaces the stored history for a product and immediately
// re-evaluates that product's alerts against the latest price in the new series.
func (t *Tracker) UpdatePriceHistory(ctx context.Context, productID string, series Series) error {
	t.mu.Lock()
	copied := make(Series, len(series))
	copy(copied, series)
	t.history[productID] = copied
	t.mu.Unlock()

	latest, ok := series.Latest()
	if !ok {
		return nil
	}
	return t.CheckAlerts(ctx, productID, latest)
}

// History returns the stored price history for a product.
func (t *Tracker) History(productID string) Series {
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := t.history[productID]
	out := make(Series, len(stored))
	copy(out, stored)
	return out
}

// CurrentPrice returns the latest known price for a product.
func (t *Tracker) CurrentPrice(productID string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history[productID].Latest()
}

// Alerts returns a snapshot of all active alerts.
func (t *Tracker) Alerts() []Alert {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Alert, len(t.alerts))
	copy(out, t.alerts)
	return out
}

// AlertsForUser returns a snapshot of a user's active alerts.
func (t *Tracker) AlertsForUser(userID int64) []Alert {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Alert
	for _, a := range t.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}
