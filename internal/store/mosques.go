package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/salat/internal/model"
)

// ListMosques returns a device's favorites, newest first.
func (s *DB) ListMosques(ctx context.Context, userID string) ([]model.Mosque, error) {
	mosques := []model.Mosque{}
	err := s.db.SelectContext(ctx, &mosques, s.db.Rebind(`
		SELECT id, user_id, name, address, latitude, longitude, created_at
		FROM favorite_mosques WHERE user_id = ?
		ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("listing mosques: %w", err)
	}
	return mosques, nil
}

// AddMosque assigns an ID and creation time and inserts m.
func (s *DB) AddMosque(ctx context.Context, m *model.Mosque) error {
	m.ID = uuid.NewString()
	m.CreatedAt = s.now()
	_, err := s.exec(ctx, `
		INSERT INTO favorite_mosques (id, user_id, name, address, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.Address, m.Latitude, m.Longitude, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("adding mosque: %w", err)
	}
	return nil
}

// DeleteMosque removes one of a device's favorites.
func (s *DB) DeleteMosque(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx, `DELETE FROM favorite_mosques WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting mosque: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting mosque: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mosque %s: %w", id, ErrNotFound)
	}
	return nil
}
