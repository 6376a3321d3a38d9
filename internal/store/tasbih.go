package store

import (
	"context"
	"fmt"

	"github.com/smokyabdulrahman/salat/internal/model"
)

// GetTasbih returns the saved counter for a device.
func (s *DB) GetTasbih(ctx context.Context, userID string) (*model.TasbihCount, error) {
	var c model.TasbihCount
	err := s.get(ctx, &c, `
		SELECT user_id, count, target, updated_at
		FROM tasbih_counts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, notFound(err, "tasbih for "+userID)
	}
	return &c, nil
}

// SaveTasbih inserts or replaces the counter row and stamps UpdatedAt.
func (s *DB) SaveTasbih(ctx context.Context, c *model.TasbihCount) error {
	c.UpdatedAt = s.now()
	_, err := s.exec(ctx, `
		INSERT INTO tasbih_counts (user_id, count, target, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			count = excluded.count,
			target = excluded.target,
			updated_at = excluded.updated_at`,
		c.UserID, c.Count, c.Target, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving tasbih: %w", err)
	}
	return nil
}
