// Package settings provides database operations for the persisted
// settings document.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	stored, err := repo.Get()
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles settings persistence. The settings document is
// stored as a single JSON row keyed by SettingKeyReaderSettings.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored settings document, or (nil, nil) when none
// has been saved yet.
func (r *Repository) Get() (*entities.Settings, error) {
	var row entities.Setting
	err := r.db.Where("key = ?", entities.SettingKeyReaderSettings).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var settings entities.Settings
	if err := json.Unmarshal([]byte(row.Value), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode stored settings: %w", err)
	}
	return &settings, nil
}

// Save creates or overwrites the settings document.
func (r *Repository) Save(settings *entities.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	var row entities.Setting
	result := r.db.Where("key = ?", entities.SettingKeyReaderSettings).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = entities.Setting{
			Key:   entities.SettingKeyReaderSettings,
			Value: string(payload),
		}
		return r.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Value = string(payload)
	return r.db.Save(&row).Error
}

// Delete removes the stored settings document.
func (r *Repository) Delete() error {
	return r.db.Where("key = ?", entities.SettingKeyReaderSettings).Delete(&entities.Setting{}).Error
}
