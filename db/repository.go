package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogueRepository defines decoupled operations for catalogue persistence.
type CatalogueRepository interface {
	PutHub(ctx context.Context, h Hub) error
	PutZone(ctx context.Context, z Zone) error
	PutAppliance(ctx context.Context, a Appliance) error
	Hubs(ctx context.Context) ([]Hub, error)
	ZonesForHub(ctx context.Context, hubID string) ([]Zone, error)
	AppliancesForHub(ctx context.Context, hubID string) ([]Appliance, error)
	ApplianceByID(ctx context.Context, id string) (*Appliance, error)
	Clear(ctx context.Context) error
}

// gormCatalogueRepo is a GORM-backed implementation of CatalogueRepository.
// Use constructor NewCatalogueRepository to obtain an instance.
type gormCatalogueRepo struct{ db *gorm.DB }

// NewCatalogueRepository creates a CatalogueRepository. Accepts *gorm.DB to
// avoid global access.
func NewCatalogueRepository(db *gorm.DB) CatalogueRepository { return &gormCatalogueRepo{db: db} }

func (r *gormCatalogueRepo) PutHub(ctx context.Context, h Hub) error {
	return r.put(ctx, &h)
}

func (r *gormCatalogueRepo) PutZone(ctx context.Context, z Zone) error {
	return r.put(ctx, &z)
}

func (r *gormCatalogueRepo) PutAppliance(ctx context.Context, a Appliance) error {
	return r.put(ctx, &a)
}

func (r *gormCatalogueRepo) put(ctx context.Context, record any) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

func (r *gormCatalogueRepo) Hubs(ctx context.Context) ([]Hub, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var hubs []Hub
	if err := r.db.WithContext(ctx).Find(&hubs).Error; err != nil {
		return nil, err
	}
	return hubs, nil
}

func (r *gormCatalogueRepo) ZonesForHub(ctx context.Context, hubID string) ([]Zone, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var zones []Zone
	if err := r.db.WithContext(ctx).Where("hub_id = ?", hubID).Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *gormCatalogueRepo) AppliancesForHub(ctx context.Context, hubID string) ([]Appliance, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var appliances []Appliance
	if err := r.db.WithContext(ctx).Where("hub_id = ?", hubID).Find(&appliances).Error; err != nil {
		return nil, err
	}
	return appliances, nil
}

func (r *gormCatalogueRepo) ApplianceByID(ctx context.Context, id string) (*Appliance, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var appliance Appliance
	err := r.db.WithContext(ctx).First(&appliance, "appliance_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appliance, nil
}

func (r *gormCatalogueRepo) Clear(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	for _, model := range []any{&Hub{}, &Zone{}, &Appliance{}} {
		if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
