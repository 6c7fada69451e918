package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pindropapp/pindrop/internal/logging"
	"github.com/pindropapp/pindrop/internal/models"
)

var ErrShareNotFound = errors.New("share not found")

const defaultSyncCategoryName = "Default"

// FriendGraph is the slice of the friend service the sharing engine needs
// to authorize grant targets.
type FriendGraph interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
}

type ShareService struct {
	db      DB
	friends FriendGraph
	log     *logging.Logger
}

func NewShareService(db DB, friends FriendGraph, log *logging.Logger) *ShareService {
	if log == nil {
		log = logging.Default
	}
	return &ShareService{db: db, friends: friends, log: log}
}

// SharePin grants the pin to every target that is an accepted friend of
// the caller. Non-friend targets are dropped silently. When the pin does
// not exist and a payload is supplied, the pin (and its category) is
// created from the payload first. The returned count is the number of
// targets holding a grant after the call, whether or not the grant is new.
func (s *ShareService) SharePin(ctx context.Context, fromUserID, pinID uuid.UUID, toUserIDs []uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error) {
	pin, err := s.resolvePin(ctx, fromUserID, pinID, payload)
	if err != nil {
		return nil, err
	}

	if payload != nil && len(payload.Memories) > 0 {
		if err := s.applyMemories(ctx, pin, payload.Memories); err != nil {
			return nil, err
		}
	}

	if pin.OwnerID != fromUserID {
		return nil, ErrNotPinOwner
	}

	targets, err := s.filterFriends(ctx, fromUserID, toUserIDs)
	if err != nil {
		return nil, err
	}

	count := s.upsertGrants(ctx, targets, func(ctx context.Context, toUserID uuid.UUID) error {
		_, err := s.db.Exec(ctx,
			`INSERT INTO shared_pins (pin_id, from_user_id, to_user_id)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (pin_id, to_user_id) DO NOTHING`,
			pinID, fromUserID, toUserID,
		)
		return err
	})

	return &models.ShareResult{Count: count}, nil
}

// ShareCategory grants the category, and through it every pin assigned to
// the category at read time, to each accepted-friend target.
func (s *ShareService) ShareCategory(ctx context.Context, fromUserID, categoryID uuid.UUID, toUserIDs []uuid.UUID) (*models.ShareResult, error) {
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx,
		"SELECT owner_id FROM categories WHERE id = $1",
		categoryID,
	).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	if ownerID != fromUserID {
		return nil, ErrNotCategoryOwner
	}

	targets, err := s.filterFriends(ctx, fromUserID, toUserIDs)
	if err != nil {
		return nil, err
	}

	count := s.upsertGrants(ctx, targets, func(ctx context.Context, toUserID uuid.UUID) error {
		_, err := s.db.Exec(ctx,
			`INSERT INTO shared_categories (category_id, from_user_id, to_user_id)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (category_id, to_user_id) DO NOTHING`,
			categoryID, fromUserID, toUserID,
		)
		return err
	})

	return &models.ShareResult{Count: count}, nil
}

// ShareWithAllFriends shares the pin with every accepted friend of the
// caller. With zero friends it returns a zero count without touching the
// pin, so no sync-on-share happens either.
func (s *ShareService) ShareWithAllFriends(ctx context.Context, fromUserID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error) {
	friends, err := s.friends.ListFriends(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	if len(friends) == 0 {
		return &models.ShareResult{Count: 0}, nil
	}

	toUserIDs := make([]uuid.UUID, 0, len(friends))
	for _, f := range friends {
		toUserIDs = append(toUserIDs, f.User.ID)
	}

	return s.SharePin(ctx, fromUserID, pinID, toUserIDs, payload)
}

// UnsharePin revokes a single grant identified by the exact
// (pin, granter, grantee) triple. A grant created by a different granter
// is not matched.
func (s *ShareService) UnsharePin(ctx context.Context, fromUserID, pinID, toUserID uuid.UUID) error {
	return s.deleteGrant(ctx,
		"DELETE FROM shared_pins WHERE pin_id = $1 AND from_user_id = $2 AND to_user_id = $3",
		pinID, fromUserID, toUserID,
	)
}

func (s *ShareService) UnshareCategory(ctx context.Context, fromUserID, categoryID, toUserID uuid.UUID) error {
	return s.deleteGrant(ctx,
		"DELETE FROM shared_categories WHERE category_id = $1 AND from_user_id = $2 AND to_user_id = $3",
		categoryID, fromUserID, toUserID,
	)
}

// GetPinShares lists the current grantees of a pin. Only the pin owner
// may ask.
func (s *ShareService) GetPinShares(ctx context.Context, callerID, pinID uuid.UUID) ([]models.Grant, error) {
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT owner_id FROM pins WHERE id = $1", pinID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPinNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting pin: %w", err)
	}
	if ownerID != callerID {
		return nil, ErrNotPinOwner
	}

	return s.listGrants(ctx,
		`SELECT u.id, u.username, u.display_name, sp.created_at
		 FROM shared_pins sp
		 JOIN users u ON u.id = sp.to_user_id
		 WHERE sp.pin_id = $1
		 ORDER BY sp.created_at`,
		pinID,
	)
}

func (s *ShareService) GetCategoryShares(ctx context.Context, callerID, categoryID uuid.UUID) ([]models.Grant, error) {
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT owner_id FROM categories WHERE id = $1", categoryID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	if ownerID != callerID {
		return nil, ErrNotCategoryOwner
	}

	return s.listGrants(ctx,
		`SELECT u.id, u.username, u.display_name, sc.created_at
		 FROM shared_categories sc
		 JOIN users u ON u.id = sc.to_user_id
		 WHERE sc.category_id = $1
		 ORDER BY sc.created_at`,
		categoryID,
	)
}

// ListSharedWithMe returns everything granted to the user, hydrated. The
// grant itself is the authorization; no further visibility check runs.
func (s *ShareService) ListSharedWithMe(ctx context.Context, userID uuid.UUID) (*models.SharedWithMe, error) {
	pins, err := s.listSharedPins(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.listSharedCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.SharedWithMe{Pins: pins, Categories: categories}, nil
}

// resolvePin loads the pin, running sync-on-share when it is missing and a
// payload is available. A failed creation is reported as not found; the
// cause is only logged.
func (s *ShareService) resolvePin(ctx context.Context, fromUserID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.Pin, error) {
	pin := &models.Pin{}
	err := s.db.QueryRow(ctx,
		"SELECT "+pinColumns+" FROM pins WHERE id = $1",
		pinID,
	).Scan(scanPinDest(pin)...)
	if err == nil {
		return pin, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("getting pin: %w", err)
	}
	if payload == nil {
		return nil, ErrPinNotFound
	}

	pin, err = s.syncCreatePin(ctx, fromUserID, pinID, payload)
	if err != nil {
		s.log.Warn("sync-on-share pin creation failed", map[string]interface{}{
			"pin_id": pinID.String(),
			"owner":  fromUserID.String(),
			"error":  err.Error(),
		})
		return nil, ErrPinNotFound
	}
	return pin, nil
}

// syncCreatePin materializes the pin from the client payload inside one
// transaction: find-or-create the named category for the owner, then
// insert the pin under the client-supplied id, never public.
func (s *ShareService) syncCreatePin(ctx context.Context, ownerID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.Pin, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	categoryName := payload.Category
	if categoryName == "" {
		categoryName = defaultSyncCategoryName
	}

	var categoryID uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT id FROM categories WHERE owner_id = $1 AND name = $2",
		ownerID, categoryName,
	).Scan(&categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			"INSERT INTO categories (name, owner_id) VALUES ($1, $2) RETURNING id",
			categoryName, ownerID,
		).Scan(&categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", categoryName, err)
	}

	title := payload.Title
	if title == "" {
		title = "Untitled Pin"
	}

	pin := &models.Pin{}
	err = tx.QueryRow(ctx,
		`INSERT INTO pins (id, title, latitude, longitude, address, notes, image_url, is_public, owner_id, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)
		 RETURNING `+pinColumns,
		pinID, title, payload.Latitude, payload.Longitude,
		nilIfEmpty(payload.Address), nilIfEmpty(payload.Notes), nilIfEmpty(payload.ImageURL),
		ownerID, categoryID,
	).Scan(scanPinDest(pin)...)
	if err != nil {
		return nil, fmt.Errorf("creating pin: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return pin, nil
}

// applyMemories overwrites the pin's notes with the encoded memory list
// and adopts the first image memory as the pin image when it has none.
func (s *ShareService) applyMemories(ctx context.Context, pin *models.Pin, memories []models.MemoryEntry) error {
	encoded, err := models.EncodeMemoryNotes(memories)
	if err != nil {
		return fmt.Errorf("encoding memories: %w", err)
	}

	imageURL := pin.ImageURL
	if imageURL == nil || *imageURL == "" {
		for _, m := range memories {
			if m.Type == models.MemoryTypeImage && m.Content != "" {
				content := m.Content
				imageURL = &content
				break
			}
		}
	}

	_, err = s.db.Exec(ctx,
		"UPDATE pins SET notes = $2, image_url = $3, updated_at = NOW() WHERE id = $1",
		pin.ID, encoded, imageURL,
	)
	if err != nil {
		return fmt.Errorf("updating pin memories: %w", err)
	}

	pin.Notes = &encoded
	pin.ImageURL = imageURL
	return nil
}

// filterFriends reduces the target list to accepted friends, dropping
// duplicates, the caller, and non-friends without error.
func (s *ShareService) filterFriends(ctx context.Context, fromUserID uuid.UUID, toUserIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(toUserIDs))
	targets := make([]uuid.UUID, 0, len(toUserIDs))
	for _, toUserID := range toUserIDs {
		if toUserID == fromUserID {
			continue
		}
		if _, ok := seen[toUserID]; ok {
			continue
		}
		seen[toUserID] = struct{}{}

		ok, err := s.friends.AreFriends(ctx, fromUserID, toUserID)
		if err != nil {
			return nil, fmt.Errorf("checking friendship: %w", err)
		}
		if ok {
			targets = append(targets, toUserID)
		}
	}
	return targets, nil
}

// upsertGrants attempts every target independently and returns how many
// succeeded. One target failing never aborts the rest.
func (s *ShareService) upsertGrants(ctx context.Context, targets []uuid.UUID, upsert func(context.Context, uuid.UUID) error) int {
	if len(targets) == 0 {
		return 0
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		count int
	)
	for _, toUserID := range targets {
		wg.Add(1)
		go func(toUserID uuid.UUID) {
			defer wg.Done()
			if err := upsert(ctx, toUserID); err != nil {
				s.log.Warn("grant upsert failed", map[string]interface{}{
					"to_user": toUserID.String(),
					"error":   err.Error(),
				})
				return
			}
			mu.Lock()
			count++
			mu.Unlock()
		}(toUserID)
	}
	wg.Wait()

	return count
}

func (s *ShareService) deleteGrant(ctx context.Context, sql string, args ...any) error {
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("deleting grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

func (s *ShareService) listGrants(ctx context.Context, sql string, args ...any) ([]models.Grant, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}
	defer rows.Close()

	var grants []models.Grant
	for rows.Next() {
		var g models.Grant
		if err := rows.Scan(&g.User.ID, &g.User.Username, &g.User.DisplayName, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}

	if grants == nil {
		grants = []models.Grant{}
	}
	return grants, nil
}

func (s *ShareService) listSharedPins(ctx context.Context, userID uuid.UUID) ([]models.SharedPinView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.title, p.description, p.latitude, p.longitude, p.address, p.notes, p.image_url,
		        p.is_public, p.owner_id, p.category_id, p.created_at, p.updated_at,
		        u.id, u.username, u.display_name, sp.created_at
		 FROM shared_pins sp
		 JOIN pins p ON p.id = sp.pin_id
		 JOIN users u ON u.id = sp.from_user_id
		 WHERE sp.to_user_id = $1
		 ORDER BY sp.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shared pins: %w", err)
	}
	defer rows.Close()

	var views []models.SharedPinView
	for rows.Next() {
		var v models.SharedPinView
		dest := append(scanPinDest(&v.Pin),
			&v.SharedBy.ID, &v.SharedBy.Username, &v.SharedBy.DisplayName, &v.SharedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning shared pin: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing shared pins: %w", err)
	}

	if views == nil {
		views = []models.SharedPinView{}
	}
	return views, nil
}

func (s *ShareService) listSharedCategories(ctx context.Context, userID uuid.UUID) ([]models.SharedCategoryView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.name, c.color, c.icon, c.is_public, c.owner_id, c.created_at, c.updated_at,
		        u.id, u.username, u.display_name, sc.created_at
		 FROM shared_categories sc
		 JOIN categories c ON c.id = sc.category_id
		 JOIN users u ON u.id = sc.from_user_id
		 WHERE sc.to_user_id = $1
		 ORDER BY sc.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shared categories: %w", err)
	}
	defer rows.Close()

	var views []models.SharedCategoryView
	for rows.Next() {
		var v models.SharedCategoryView
		dest := append(scanCategoryDest(&v.Category),
			&v.SharedBy.ID, &v.SharedBy.Username, &v.SharedBy.DisplayName, &v.SharedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning shared category: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing shared categories: %w", err)
	}

	// The grant covers the category's current pins, so hydrate them all.
	for i := range views {
		pins, err := s.categoryPins(ctx, views[i].Category.ID)
		if err != nil {
			return nil, err
		}
		views[i].Pins = pins
	}

	if views == nil {
		views = []models.SharedCategoryView{}
	}
	return views, nil
}

func (s *ShareService) categoryPins(ctx context.Context, categoryID uuid.UUID) ([]models.Pin, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+pinColumns+" FROM pins WHERE category_id = $1 ORDER BY created_at DESC",
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing category pins: %w", err)
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
		return nil, fmt.Errorf("listing category pins: %w", err)
	}

	if pins == nil {
		pins = []models.Pin{}
	}
	return pins, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
