package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pindropapp/pindrop/internal/models"
)

var (
	ErrPinNotFound = errors.New("pin not found")
	ErrNotPinOwner = errors.New("pin does not belong to you")
)

const pinColumns = "id, title, description, latitude, longitude, address, notes, image_url, is_public, owner_id, category_id, created_at, updated_at"

// pinVisibleTo filters a pin row aliased as p for a viewer bound to the
// given placeholder: owner, public, direct grant, or category grant. Must
// stay in sync with AccessService.CanReadPin.
func pinVisibleTo(viewerPlaceholder string) string {
	return `(p.owner_id = ` + viewerPlaceholder + `
	    OR p.is_public
	    OR EXISTS(SELECT 1 FROM shared_pins sp WHERE sp.pin_id = p.id AND sp.to_user_id = ` + viewerPlaceholder + `)
	    OR (p.category_id IS NOT NULL AND EXISTS(
	          SELECT 1 FROM shared_categories sc
	          WHERE sc.category_id = p.category_id AND sc.to_user_id = ` + viewerPlaceholder + `)))`
}

type PinService struct {
	db     DBConn
	access PinAccessResolver
}

func NewPinService(db DBConn, access PinAccessResolver) *PinService {
	return &PinService{db: db, access: access}
}

func (s *PinService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreatePinParams) (*models.Pin, error) {
	if params.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, ownerID, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	pin := &models.Pin{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO pins (title, description, latitude, longitude, address, notes, image_url, is_public, owner_id, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+pinColumns,
		params.Title, params.Description, params.Latitude, params.Longitude,
		params.Address, params.Notes, params.ImageURL, params.IsPublic, ownerID, params.CategoryID,
	).Scan(scanPinDest(pin)...)
	if err != nil {
		return nil, fmt.Errorf("creating pin: %w", err)
	}

	return pin, nil
}

// GetByID returns the pin when the viewer may read it. Pins invisible to
// the viewer are reported as not found, not forbidden.
func (s *PinService) GetByID(ctx context.Context, viewerID, pinID uuid.UUID) (*models.Pin, error) {
	pin, err := s.getByID(ctx, pinID)
	if err != nil {
		return nil, err
	}

	if pin.OwnerID != viewerID {
		canRead, err := s.access.CanReadPin(ctx, viewerID, pinID)
		if err != nil {
			return nil, err
		}
		if !canRead {
			return nil, ErrPinNotFound
		}
	}

	return pin, nil
}

func (s *PinService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pin, error) {
	return s.list(ctx,
		"SELECT "+pinColumns+" FROM pins WHERE owner_id = $1 ORDER BY created_at DESC",
		ownerID,
	)
}

func (s *PinService) ListPublic(ctx context.Context, limit int) ([]models.Pin, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return s.list(ctx,
		"SELECT "+pinColumns+" FROM pins WHERE is_public ORDER BY created_at DESC LIMIT $1",
		limit,
	)
}

// ListByCategory returns the category's pins the viewer may read.
func (s *PinService) ListByCategory(ctx context.Context, viewerID, categoryID uuid.UUID) ([]models.Pin, error) {
	return s.list(ctx,
		`SELECT `+pinColumns+` FROM pins p
		 WHERE p.category_id = $1 AND `+pinVisibleTo("$2")+`
		 ORDER BY p.created_at DESC`,
		categoryID, viewerID,
	)
}

func (s *PinService) Update(ctx context.Context, ownerID, pinID uuid.UUID, params models.UpdatePinParams) (*models.Pin, error) {
	existing, err := s.getByID(ctx, pinID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotPinOwner
	}

	if params.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, ownerID, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	categoryID := existing.CategoryID
	if params.CategoryID != nil {
		categoryID = params.CategoryID
	} else if params.ClearCategory {
		categoryID = nil
	}

	pin := &models.Pin{}
	err = s.db.QueryRow(ctx,
		`UPDATE pins
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     latitude = COALESCE($4, latitude),
		     longitude = COALESCE($5, longitude),
		     address = COALESCE($6, address),
		     notes = COALESCE($7, notes),
		     image_url = COALESCE($8, image_url),
		     is_public = COALESCE($9, is_public),
		     category_id = $10,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+pinColumns,
		pinID, params.Title, params.Description, params.Latitude, params.Longitude,
		params.Address, params.Notes, params.ImageURL, params.IsPublic, categoryID,
	).Scan(scanPinDest(pin)...)
	if err != nil {
		return nil, fmt.Errorf("updating pin: %w", err)
	}

	return pin, nil
}

func (s *PinService) Delete(ctx context.Context, ownerID, pinID uuid.UUID) error {
	pin, err := s.getByID(ctx, pinID)
	if err != nil {
		return err
	}
	if pin.OwnerID != ownerID {
		return ErrNotPinOwner
	}

	_, err = s.db.Exec(ctx, "DELETE FROM pins WHERE id = $1", pinID)
	if err != nil {
		return fmt.Errorf("deleting pin: %w", err)
	}
	return nil
}

func (s *PinService) getByID(ctx context.Context, pinID uuid.UUID) (*models.Pin, error) {
	pin := &models.Pin{}
	err := s.db.QueryRow(ctx,
		"SELECT "+pinColumns+" FROM pins WHERE id = $1",
		pinID,
	).Scan(scanPinDest(pin)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPinNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting pin: %w", err)
	}
	return pin, nil
}

// checkCategoryOwnership enforces the invariant that a pin's category must
// belong to the pin's owner; a category owned by anyone else is reported
// as not found, matching how category reads hide other users' categories.
func (s *PinService) checkCategoryOwnership(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	var owned bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND owner_id = $2)",
		categoryID, ownerID,
	).Scan(&owned)
	if err != nil {
		return fmt.Errorf("checking category ownership: %w", err)
	}
	if !owned {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *PinService) list(ctx context.Context, sql string, args ...any) ([]models.Pin, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pins: %w", err)
	}
	defer rows.Close()

	var pins []models.Pin
	for rows.Next() {
		var p models.Pin
		if err := rows.Scan(scanPinDest(&p)...); err != nil {
			return nil, fmt.Errorf("scanning pin: %w", err)
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing pins: %w", err)
	}

	if pins == nil {
		pins = []models.Pin{}
	}
	return pins, nil
}

func scanPinDest(p *models.Pin) []any {
	return []any{
		&p.ID, &p.Title, &p.Description, &p.Latitude, &p.Longitude,
		&p.Address, &p.Notes, &p.ImageURL, &p.IsPublic, &p.OwnerID,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	}
}
