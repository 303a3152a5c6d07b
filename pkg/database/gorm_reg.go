package database

import (
	"sync"

	"gorm.io/gorm"
)

var (
	regMu            sync.Mutex
	registeredModels []any
)

// RegisterModels records models for AutoMigrate. Model packages call it from init.
func RegisterModels(models ...any) {
	regMu.Lock()
	defer regMu.Unlock()
	registeredModels = append(registeredModels, models...)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(GetRegisteredModels()...)
}

func GetRegisteredModels() []any {
	regMu.Lock()
	defer regMu.Unlock()
	return append([]any(nil), registeredModels...)
}
