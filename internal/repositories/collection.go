// internal/repositories/collection.go
package repositories

import (
	"castnfish/internal/database"

	"go.uber.org/zap"
)

// NewCollection wires every repository over one database manager.
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		User:        NewUserRepository(db, logger),
		Achievement: NewAchievementRepository(db, logger),
		Activity:    NewActivityRepository(db, logger),
		Forum:       NewForumRepository(db, logger),
		Event:       NewEventRepository(db, logger),
		Report:      NewReportRepository(db, logger),
		Product:     NewProductRepository(db, logger),
	}
}
