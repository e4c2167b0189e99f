// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"

	"castnfish/internal/achievements"
	"castnfish/internal/cache"
	"castnfish/internal/config"
	"castnfish/internal/database"
	"castnfish/internal/media"
	"castnfish/internal/notifications"
	"castnfish/internal/pricewatch"
	"castnfish/internal/repositories"

	"go.uber.org/zap"
)

// Dependencies carries the infrastructure the service collection builds on.
type Dependencies struct {
	Config  *config.Config
	DB      *database.Manager
	Cache   cache.Cache
	Hub     *notifications.Hub
	Storage media.Storage // nil when Cloudinary is not configured
	Logger  *zap.Logger
}

// NewCollection wires every service with its repositories, the achievement
// engine and the price-alert tracker.
func NewCollection(ctx context.Context, deps Dependencies) (*Collection, error) {
	if deps.Config == nil || deps.DB == nil || deps.Cache == nil || deps.Logger == nil {
		return nil, fmt.Errorf("config, database, cache and logger are required")
	}
	if deps.Hub == nil {
		deps.Hub = notifications.NewHub(deps.Logger)
	}

	repos := repositories.NewCollection(deps.DB, deps.Logger)
	engine := achievements.NewEngine(achievements.DefaultCatalog())

	store := pricewatch.NewCacheStore(deps.Cache)
	tracker := pricewatch.NewTracker(ctx, store, deps.Config.Pricewatch.StoreKey, deps.Hub, deps.Logger)

	achievementService := NewAchievementService(engine, repos.Achievement, repos.Activity, deps.Hub, deps.Logger)
	weatherService := NewWeatherService(deps.Config.Weather, deps.Cache, deps.Logger)

	c := &Collection{
		Auth:        NewAuthService(repos.User, deps.Config.Auth, deps.Logger),
		User:        NewUserService(repos.User, repos.Activity, repos.Achievement, engine, deps.Storage, deps.Logger),
		Achievement: achievementService,
		Activity:    NewActivityService(repos.Activity, achievementService, deps.Logger),
		Forum:       NewForumService(repos.Forum, achievementService, deps.Logger),
		Event:       NewEventService(repos.Event, achievementService, deps.Logger),
		Report:      NewReportService(repos.Report, weatherService, deps.Logger),
		Weather:     weatherService,
		Gear:        NewGearService(repos.Product, tracker, deps.Logger),
		Repos:       repos,
	}

	deps.Logger.Info("Service collection initialized")
	return c, nil
}
