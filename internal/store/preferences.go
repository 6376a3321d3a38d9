package store

import (
	"context"
	"fmt"

	"github.com/smokyabdulrahman/salat/internal/model"
)

// GetPreferences returns the saved preferences for a device.
func (s *DB) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	var p model.Preferences
	err := s.get(ctx, &p, `
		SELECT user_id, location_latitude, location_longitude, location_name, updated_at
		FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, notFound(err, "preferences for "+userID)
	}
	return &p, nil
}

// SavePreferences inserts or replaces the preferences row and stamps UpdatedAt.
func (s *DB) SavePreferences(ctx context.Context, p *model.Preferences) error {
	p.UpdatedAt = s.now()
	_, err := s.exec(ctx, `
		INSERT INTO user_preferences (user_id, location_latitude, location_longitude, location_name, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			location_latitude = excluded.location_latitude,
			location_longitude = excluded.location_longitude,
			location_name = excluded.location_name,
			updated_at = excluded.updated_at`,
		p.UserID, p.Latitude, p.Longitude, p.LocationName, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
