package db

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Hub is a cached hub record. Data holds the raw JSON payload as returned
// by the API.
type Hub struct {
	HubID string `gorm:"primaryKey" json:"hub_id"`
	Name  string `gorm:"index" json:"name"`
	Data  string `json:"data"`
}

// Zone is a cached zone record.
type Zone struct {
	ZoneID   string `gorm:"primaryKey" json:"zone_id"`
	HubID    string `gorm:"index" json:"hub_id"`
	ZoneName string `gorm:"index" json:"zone_name"`
	ZoneType string `json:"zone_type"`
	Data     string `json:"data"`
}

// Appliance is a cached appliance record.
type Appliance struct {
	ApplianceID    string `gorm:"primaryKey" json:"appliance_id"`
	ZoneID         string `gorm:"index" json:"zone_id"`
	HubID          string `gorm:"index" json:"hub_id"`
	FriendlyName   string `gorm:"index" json:"friendly_name"`
	ApplianceType  string `json:"appliance_type"`
	ApplianceModel string `json:"appliance_model"`
	Data           string `json:"data"`
}

// UpsertHub inserts or updates a hub record in the catalogue.
func UpsertHub(hub Hub) error {
	return upsert(&hub)
}

// UpsertZone inserts or updates a zone record in the catalogue.
func UpsertZone(zone Zone) error {
	return upsert(&zone)
}

// UpsertAppliance inserts or updates an appliance record in the catalogue.
func UpsertAppliance(appliance Appliance) error {
	return upsert(&appliance)
}

func upsert(record any) error {
	if Db == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if err := Db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
		log.Error().Err(err).Msg("Failed to upsert catalogue record")
		return err
	}
	return nil
}

// EmptyCatalogue removes all records from the device catalogue.
func EmptyCatalogue() error {
	if Db == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	for _, model := range []any{&Hub{}, &Zone{}, &Appliance{}} {
		if err := Db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			log.Error().Err(err).Msg("Failed to empty device catalogue")
			return err
		}
	}
	log.Info().Msg("Device catalogue emptied successfully")
	return nil
}

// GetHubs retrieves all hubs in the catalogue.
func GetHubs() ([]Hub, error) {
	if Db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var hubs []Hub
	if err := Db.Find(&hubs).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch hubs from the database")
		return nil, err
	}
	return hubs, nil
}

// GetZonesForHub retrieves the cached zones of a hub.
func GetZonesForHub(hubID string) ([]Zone, error) {
	if Db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var zones []Zone
	if err := Db.Where("hub_id = ?", hubID).Find(&zones).Error; err != nil {
		log.Error().Err(err).Msgf("Failed to fetch zones for hub %s", hubID)
		return nil, err
	}
	return zones, nil
}

// GetAppliancesForHub retrieves the cached appliances of a hub.
func GetAppliancesForHub(hubID string) ([]Appliance, error) {
	if Db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var appliances []Appliance
	if err := Db.Where("hub_id = ?", hubID).Find(&appliances).Error; err != nil {
		log.Error().Err(err).Msgf("Failed to fetch appliances for hub %s", hubID)
		return nil, err
	}
	return appliances, nil
}

// GetApplianceByID retrieves an appliance from the catalogue by its id.
func GetApplianceByID(id string) (*Appliance, error) {
	if Db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var appliance Appliance
	if err := Db.First(&appliance, "appliance_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Appliance not found
		}
		return nil, fmt.Errorf("failed to retrieve appliance %s: %w", id, err)
	}
	return &appliance, nil
}

// SearchAppliancesByName searches the catalogue for appliances whose
// friendly name contains the given substring.
func SearchAppliancesByName(name string) ([]Appliance, error) {
	if Db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var appliances []Appliance
	if err := Db.Where("friendly_name LIKE ?", "%"+name+"%").Find(&appliances).Error; err != nil {
		log.Error().Err(err).Msgf("Failed to search appliances by name: %s", name)
		return nil, err
	}
	return appliances, nil
}
