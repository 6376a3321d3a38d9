// Package mosque manages a device's favorite mosques.
package mosque

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/model"
)

// ErrNameRequired is returned by Add for a blank name.
var ErrNameRequired = errors.New("mosque name is required")

// Store is the persistence the service needs.
type Store interface {
	ListMosques(ctx context.Context, userID string) ([]model.Mosque, error)
	AddMosque(ctx context.Context, m *model.Mosque) error
	DeleteMosque(ctx context.Context, userID, id string) error
}

// Service adds, lists and removes favorites.
type Service struct {
	Store Store
}

// NewService returns a service backed by store.
func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Add saves a new favorite for the device.
func (s *Service) Add(ctx context.Context, userID, name, address string, at geomath.Coordinate) (*model.Mosque, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := at.Validate(); err != nil {
		return nil, err
	}
	m := &model.Mosque{
		UserID:    userID,
		Name:      name,
		Address:   strings.TrimSpace(address),
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
	}
	if err := s.Store.AddMosque(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Nearby lists the device's favorites. With a location, each entry carries
// its distance and the list is sorted nearest first; without one, the store
// order (newest first) is kept.
func (s *Service) Nearby(ctx context.Context, userID string, from *geomath.Coordinate) ([]model.Mosque, error) {
	mosques, err := s.Store.ListMosques(ctx, userID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return mosques, nil
	}
	if err := from.Validate(); err != nil {
		return nil, err
	}

	for i := range mosques {
		d := geomath.DistanceKm(*from, mosques[i].Coordinate())
		mosques[i].DistanceKm = &d
	}
	sort.SliceStable(mosques, func(i, j int) bool {
		return *mosques[i].DistanceKm < *mosques[j].DistanceKm
	})
	return mosques, nil
}

// Remove deletes a favorite.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("mosque id is required")
	}
	return s.Store.DeleteMosque(ctx, userID, id)
}
