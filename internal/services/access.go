package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AccessService decides whether one user may read one resource. The
// decision is computed against the grant tables on every call and never
// cached; category-inherited access in particular must track pins as they
// move between categories.
type AccessService struct {
	db DBConn
}

func NewAccessService(db DBConn) *AccessService {
	return &AccessService{db: db}
}

// CanReadPin reports whether userID may read the pin: owner, public pin,
// direct grant, or a grant on the pin's current category. A public
// category does NOT make its private pins readable; only an explicit
// category grant extends to contained pins.
func (s *AccessService) CanReadPin(ctx context.Context, userID, pinID uuid.UUID) (bool, error) {
	var canRead bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM pins p
			WHERE p.id = $1
			  AND (p.owner_id = $2
			    OR p.is_public
			    OR EXISTS(SELECT 1 FROM shared_pins sp WHERE sp.pin_id = p.id AND sp.to_user_id = $2)
			    OR (p.category_id IS NOT NULL AND EXISTS(
			          SELECT 1 FROM shared_categories sc
			          WHERE sc.category_id = p.category_id AND sc.to_user_id = $2)))
		)`,
		pinID, userID,
	).Scan(&canRead)
	if err != nil {
		return false, fmt.Errorf("resolving pin access: %w", err)
	}
	return canRead, nil
}

// CanReadCategory reports whether userID may read the category: owner,
// public category, or direct grant.
func (s *AccessService) CanReadCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	var canRead bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM categories c
			WHERE c.id = $1
			  AND (c.owner_id = $2
			    OR c.is_public
			    OR EXISTS(SELECT 1 FROM shared_categories sc WHERE sc.category_id = c.id AND sc.to_user_id = $2))
		)`,
		categoryID, userID,
	).Scan(&canRead)
	if err != nil {
		return false, fmt.Errorf("resolving category access: %w", err)
	}
	return canRead, nil
}
