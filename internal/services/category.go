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
	ErrCategoryNotFound = errors.New("category not found")
	ErrNotCategoryOwner = errors.New("category does not belong to you")
)

const categoryColumns = "id, name, color, icon, is_public, owner_id, created_at, updated_at"

type CategoryService struct {
	db     DBConn
	access CategoryAccessResolver
}

func NewCategoryService(db DBConn, access CategoryAccessResolver) *CategoryService {
	return &CategoryService{db: db, access: access}
}

func (s *CategoryService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, color, icon, is_public, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		params.Name, params.Color, params.Icon, params.IsPublic, ownerID,
	).Scan(scanCategoryDest(category)...)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}

// GetByID returns the category when the viewer may read it. Categories
// invisible to the viewer are reported as not found.
func (s *CategoryService) GetByID(ctx context.Context, viewerID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.getByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if category.OwnerID != viewerID {
		canRead, err := s.access.CanReadCategory(ctx, viewerID, categoryID)
		if err != nil {
			return nil, err
		}
		if !canRead {
			return nil, ErrCategoryNotFound
		}
	}

	return category, nil
}

func (s *CategoryService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.CategoryWithPinCount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.name, c.color, c.icon, c.is_public, c.owner_id, c.created_at, c.updated_at,
		        COUNT(p.id)
		 FROM categories c
		 LEFT JOIN pins p ON p.category_id = c.id
		 WHERE c.owner_id = $1
		 GROUP BY c.id
		 ORDER BY c.name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []models.CategoryWithPinCount
	for rows.Next() {
		var c models.CategoryWithPinCount
		dest := append(scanCategoryDest(&c.Category), &c.PinCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	if categories == nil {
		categories = []models.CategoryWithPinCount{}
	}
	return categories, nil
}

func (s *CategoryService) ListPublic(ctx context.Context, limit int) ([]models.Category, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE is_public ORDER BY created_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing public categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(scanCategoryDest(&c)...); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing public categories: %w", err)
	}

	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, ownerID, categoryID uuid.UUID, params models.UpdateCategoryParams) (*models.Category, error) {
	existing, err := s.getByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotCategoryOwner
	}

	category := &models.Category{}
	err = s.db.QueryRow(ctx,
		`UPDATE categories
		 SET name = COALESCE($2, name),
		     color = COALESCE($3, color),
		     icon = COALESCE($4, icon),
		     is_public = COALESCE($5, is_public),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+categoryColumns,
		categoryID, params.Name, params.Color, params.Icon, params.IsPublic,
	).Scan(scanCategoryDest(category)...)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	return category, nil
}

// Delete removes a category. Pins referencing it are detached by the
// ON DELETE SET NULL constraint, not deleted.
func (s *CategoryService) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	category, err := s.getByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.OwnerID != ownerID {
		return ErrNotCategoryOwner
	}

	_, err = s.db.Exec(ctx, "DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

func (s *CategoryService) getByID(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRow(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1",
		categoryID,
	).Scan(scanCategoryDest(category)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return category, nil
}

func scanCategoryDest(c *models.Category) []any {
	return []any{
		&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsPublic, &c.OwnerID,
		&c.CreatedAt, &c.UpdatedAt,
	}
}
