// file: internal/services/achievement_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/pricewatch"
	"castnfish/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAchievementRepo is an in-memory AchievementRepository.
type fakeAchievementRepo struct {
	awards      map[int64][]models.UserAchievement
	progressErr error
	awardErr    error
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{awards: make(map[int64][]models.UserAchievement)}
}

func (f *fakeAchievementRepo) GetProgress(_ context.Context, userID int64) (map[string]bool, int, error) {
	if f.progressErr != nil {
		return nil, 0, f.progressErr
	}
	unlocked := make(map[string]bool)
	points := 0
	for _, a := range f.awards[userID] {
		unlocked[a.AchievementID] = true
		points += a.Points
	}
	return unlocked, points, nil
}

func (f *fakeAchievementRepo) Award(_ context.Context, userID int64, awards []models.UserAchievement) error {
	if f.awardErr != nil {
		return f.awardErr
	}
	for _, a := range awards {
		duplicate := false
		for _, held := range f.awards[userID] {
			if held.AchievementID == a.AchievementID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			f.awards[userID] = append(f.awards[userID], a)
		}
	}
	return nil
}

func (f *fakeAchievementRepo) ListForUser(_ context.Context, userID int64) ([]models.UserAchievement, error) {
	return f.awards[userID], nil
}

// fakeActivityRepo serves canned stats.
type fakeActivityRepo struct {
	stats    models.UserStats
	statsErr error
}

func (f *fakeActivityRepo) CreateCatch(context.Context, *models.Catch) error { return nil }
func (f *fakeActivityRepo) CreateTrip(context.Context, *models.Trip) error   { return nil }
func (f *fakeActivityRepo) GetStats(context.Context, int64) (*models.UserStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	stats := f.stats
	return &stats, nil
}
func (f *fakeActivityRepo) History(context.Context, int64, repositories.ActivityFilter, models.PaginationParams) (*models.PaginatedResponse[models.ActivityItem], error) {
	return nil, nil
}
func (f *fakeActivityRepo) LikeCatch(context.Context, int64, int64) error { return nil }

// captureNotifier records every pushed notification.
type captureNotifier struct {
	unlocked []achievements.Definition
	alerts   []pricewatch.Alert
}

func (c *captureNotifier) AchievementUnlocked(_ context.Context, _ int64, def achievements.Definition) {
	c.unlocked = append(c.unlocked, def)
}

func (c *captureNotifier) AlertFired(_ context.Context, alert pricewatch.Alert, _ float64) {
	c.alerts = append(c.alerts, alert)
}

func newTestAchievementService(repo *fakeAchievementRepo, activity *fakeActivityRepo, notifier *captureNotifier) AchievementService {
	engine := achievements.NewEngine(achievements.DefaultCatalog())
	return NewAchievementService(engine, repo, activity, notifier, zap.NewNop())
}

func TestCheckCategoryUnlocksPersistsAndNotifies(t *testing.T) {
	repo := newFakeAchievementRepo()
	activity := &fakeActivityRepo{stats: models.UserStats{TotalCatches: 1}}
	notifier := &captureNotifier{}
	svc := newTestAchievementService(repo, activity, notifier)

	newly, err := svc.CheckCategory(context.Background(), 7, achievements.CategoryCatches)
	require.NoError(t, err)
	require.Len(t, newly, 1)
	assert.Equal(t, "first_catch", newly[0].ID)

	require.Len(t, repo.awards[7], 1)
	assert.Equal(t, "first_catch", repo.awards[7][0].AchievementID)
	assert.Equal(t, 10, repo.awards[7][0].Points)

	require.Len(t, notifier.unlocked, 1)
	assert.Equal(t, "first_catch", notifier.unlocked[0].ID)
}

func TestCheckCategoryIsIdempotent(t *testing.T) {
	repo := newFakeAchievementRepo()
	activity := &fakeActivityRepo{stats: models.UserStats{TotalCatches: 5}}
	notifier := &captureNotifier{}
	svc := newTestAchievementService(repo, activity, notifier)

	first, err := svc.CheckCategory(context.Background(), 7, achievements.CategoryCatches)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same counter again: nothing new, no duplicate persistence, no repeat push.
	second, err := svc.CheckCategory(context.Background(), 7, achievements.CategoryCatches)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, repo.awards[7], 1)
	assert.Len(t, notifier.unlocked, 1)
}

func TestCheckCategoryProgressFetchFailureAborts(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.progressErr = errors.New("connection refused")
	activity := &fakeActivityRepo{stats: models.UserStats{TotalCatches: 1}}
	notifier := &captureNotifier{}
	svc := newTestAchievementService(repo, activity, notifier)

	_, err := svc.CheckCategory(context.Background(), 7, achievements.CategoryCatches)
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "INTERNAL_ERROR", svcErr.Type)
	assert.Empty(t, notifier.unlocked)
}

func TestCheckCategoryPersistFailureSkipsNotification(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.awardErr = errors.New("insert failed")
	activity := &fakeActivityRepo{stats: models.UserStats{TotalCatches: 1}}
	notifier := &captureNotifier{}
	svc := newTestAchievementService(repo, activity, notifier)

	_, err := svc.CheckCategory(context.Background(), 7, achievements.CategoryCatches)
	require.Error(t, err)
	assert.Empty(t, notifier.unlocked, "persist failure must not push notifications")
}

func TestCheckCategoryRejectsUnknownCategory(t *testing.T) {
	svc := newTestAchievementService(newFakeAchievementRepo(), &fakeActivityRepo{}, &captureNotifier{})

	_, err := svc.CheckCategory(context.Background(), 7, achievements.Category("bogus"))
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "VALIDATION_ERROR", svcErr.Type)
}

func TestCheckAllSweepsCategoriesInOrder(t *testing.T) {
	repo := newFakeAchievementRepo()
	activity := &fakeActivityRepo{stats: models.UserStats{
		TotalCatches:    1,
		DistinctSpecies: 5,
		TotalTrips:      5,
		ForumTopics:     1,
	}}
	notifier := &captureNotifier{}
	svc := newTestAchievementService(repo, activity, notifier)

	newly, err := svc.CheckAll(context.Background(), 7)
	require.NoError(t, err)

	var ids []string
	for _, def := range newly {
		ids = append(ids, def.ID)
	}
	// Catalog order: catches, species, events, trips, social.
	assert.Equal(t, []string{"first_catch", "species_explorer", "adventurer", "community_member"}, ids)
}

func TestSummaryDerivesLevelFromPersistedPoints(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.awards[7] = []models.UserAchievement{
		{UserID: 7, AchievementID: "catch_master", Points: 50, UnlockedAt: time.Now()},
		{UserID: 7, AchievementID: "species_master", Points: 100, UnlockedAt: time.Now()},
	}
	svc := newTestAchievementService(repo, &fakeActivityRepo{}, &captureNotifier{})

	summary, err := svc.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 150, summary.Points)
	assert.Equal(t, 2, summary.Level)
	assert.InDelta(t, 100.0/3.0, summary.LevelProgress, 0.001)
	assert.Equal(t, 385, summary.TotalPossible)
	assert.Len(t, summary.Catalog, 5)
}
