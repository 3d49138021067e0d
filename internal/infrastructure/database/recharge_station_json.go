package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/geo"
)

// rechargeStationFile is one entry of the static JSON catalog.
type rechargeStationFile struct {
	ID            string  `json:"id"`
	Name          string  `json:"nom"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	ChargeMinutes int     `json:"charge_minutes"`
}

// JSONRechargeStationRepository implements repository.RechargeStationRepository
// by loading a static catalog file once at startup, for local/dev use
// without a database-backed station table.
type JSONRechargeStationRepository struct {
	stations []*entity.RechargeStation
	byID     map[string]*entity.RechargeStation
}

// NewJSONRechargeStationRepository loads the catalog at path once and
// returns a repository.RechargeStationRepository backed by it.
func NewJSONRechargeStationRepository(path string) (repository.RechargeStationRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recharge station catalog %s: %w", path, err)
	}

	var raw []rechargeStationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in recharge station catalog %s: %w", path, err)
	}

	repo := &JSONRechargeStationRepository{
		byID: make(map[string]*entity.RechargeStation, len(raw)),
	}
	for _, r := range raw {
		station := entity.NewRechargeStation(r.ID, r.Name, geo.Point{Lat: r.Lat, Lon: r.Lon}, r.ChargeMinutes)
		repo.stations = append(repo.stations, station)
		repo.byID[station.ID] = station
	}

	return repo, nil
}

func (r *JSONRechargeStationRepository) GetAll(ctx context.Context) ([]*entity.RechargeStation, error) {
	return r.stations, nil
}

func (r *JSONRechargeStationRepository) GetByID(ctx context.Context, id string) (*entity.RechargeStation, error) {
	station, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("recharge station not found: %s", id)
	}
	return station, nil
}

var _ repository.RechargeStationRepository = (*JSONRechargeStationRepository)(nil)
