package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

// RemoteStore implements repo.RemoteStore on the postgres pool.
type RemoteStore struct {
	storage *Storage
}

func NewRemoteStore(storage *Storage) *RemoteStore {
	return &RemoteStore{storage: storage}
}

// --- menu_items ---

func (r *RemoteStore) UpsertItem(ctx context.Context, businessID string, item *domain.OnboardingItem) error {
	_, err := r.storage.pool.Exec(ctx, `
		INSERT INTO menu_items (
			id, business_id, category, name, price, description,
			production_area, ingredients, image_url, deleted
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET category = EXCLUDED.category,
		    name = EXCLUDED.name,
		    price = EXCLUDED.price,
		    description = EXCLUDED.description,
		    production_area = EXCLUDED.production_area,
		    ingredients = EXCLUDED.ingredients,
		    image_url = EXCLUDED.image_url,
		    deleted = EXCLUDED.deleted,
		    updated_at = now()
		WHERE menu_items.business_id = $2
	`, item.ID, businessID, item.Category, item.Name, item.Price, item.Description,
		item.ProductionArea, item.Ingredients, item.ImageURL, item.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}

	return nil
}

func (r *RemoteStore) UpdateItemFields(ctx context.Context, businessID, itemID string, patch domain.ItemPatch) error {
	set := "updated_at = now()"
	args := []any{businessID, itemID}

	add := func(column string, value any) {
		args = append(args, value)
		set = fmt.Sprintf("%s, %s = $%d", set, column, len(args))
	}

	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ProductionArea != nil {
		add("production_area", *patch.ProductionArea)
	}
	if patch.Ingredients != nil {
		add("ingredients", *patch.Ingredients)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}

	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE business_id = $1 AND id = $2`, set)
	cmd, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// SoftDeleteItem flips the deleted flag; rows are never physically removed
// so foreign references held by records outside this service stay valid.
func (r *RemoteStore) SoftDeleteItem(ctx context.Context, businessID, itemID string) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		UPDATE menu_items
		SET deleted = TRUE, updated_at = now()
		WHERE business_id = $1 AND id = $2
	`, businessID, itemID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete menu item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *RemoteStore) FetchItems(ctx context.Context, businessID string) ([]domain.OnboardingItem, error) {
	rows, err := r.storage.pool.Query(ctx, `
		SELECT id, category, name, price, description, production_area,
		       ingredients, image_url, created_at, updated_at
		FROM menu_items
		WHERE business_id = $1 AND deleted = FALSE
		ORDER BY category, name
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.OnboardingItem
	for rows.Next() {
		item := domain.OnboardingItem{BusinessID: businessID, Synced: true}
		if err := rows.Scan(&item.ID, &item.Category, &item.Name, &item.Price,
			&item.Description, &item.ProductionArea, &item.Ingredients,
			&item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	for i := range items {
		if err := r.attachGroups(ctx, businessID, &items[i]); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (r *RemoteStore) attachGroups(ctx context.Context, businessID string, item *domain.OnboardingItem) error {
	private, err := r.PrivateGroups(ctx, businessID, item.ID)
	if err != nil {
		return err
	}
	linked, err := r.LinkedGroups(ctx, businessID, item.ID)
	if err != nil {
		return err
	}

	groups := append(private, linked...)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	for _, g := range groups {
		values, err := r.GroupValues(ctx, businessID, g.ID)
		if err != nil {
			return err
		}
		item.Modifiers = append(item.Modifiers, domain.GroupFromRelational(g, values))
	}

	return nil
}

// --- option_groups ---

func (r *RemoteStore) PrivateGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	rows, err := r.storage.pool.Query(ctx, `
		SELECT id, owner_item_id, name, is_required, is_replacement,
		       min_selection, max_selection
		FROM option_groups
		WHERE business_id = $1 AND owner_item_id = $2
	`, businessID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch private groups: %w", err)
	}
	defer rows.Close()

	return scanGroups(rows, businessID)
}

func (r *RemoteStore) LinkedGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	rows, err := r.storage.pool.Query(ctx, `
		SELECT g.id, g.owner_item_id, g.name, g.is_required, g.is_replacement,
		       g.min_selection, g.max_selection
		FROM option_groups g
		JOIN item_group_links l ON l.group_id = g.id AND l.business_id = g.business_id
		WHERE g.business_id = $1 AND l.item_id = $2
	`, businessID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch linked groups: %w", err)
	}
	defer rows.Close()

	return scanGroups(rows, businessID)
}

func scanGroups(rows pgx.Rows, businessID string) ([]domain.OptionGroup, error) {
	var groups []domain.OptionGroup
	for rows.Next() {
		g := domain.OptionGroup{BusinessID: businessID}
		if err := rows.Scan(&g.ID, &g.OwnerItemID, &g.Name, &g.IsRequired,
			&g.IsReplacement, &g.MinSelection, &g.MaxSelection); err != nil {
			return nil, fmt.Errorf("failed to scan option group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read option groups: %w", err)
	}

	return groups, nil
}

func (r *RemoteStore) CreateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	_, err := r.storage.pool.Exec(ctx, `
		INSERT INTO option_groups (
			id, business_id, owner_item_id, name, is_required,
			is_replacement, min_selection, max_selection
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, group.ID, businessID, group.OwnerItemID, group.Name, group.IsRequired,
		group.IsReplacement, group.MinSelection, group.MaxSelection)
	if err != nil {
		return fmt.Errorf("failed to create option group: %w", err)
	}

	return nil
}

func (r *RemoteStore) UpdateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		UPDATE option_groups
		SET name = $3, is_required = $4, is_replacement = $5,
		    min_selection = $6, max_selection = $7
		WHERE business_id = $1 AND id = $2
	`, businessID, group.ID, group.Name, group.IsRequired, group.IsReplacement,
		group.MinSelection, group.MaxSelection)
	if err != nil {
		return fmt.Errorf("failed to update option group: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *RemoteStore) DeleteGroup(ctx context.Context, businessID, groupID string) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		DELETE FROM option_groups WHERE business_id = $1 AND id = $2
	`, businessID, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete option group: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// --- option_values ---

func (r *RemoteStore) GroupValues(ctx context.Context, businessID, groupID string) ([]domain.OptionValue, error) {
	rows, err := r.storage.pool.Query(ctx, `
		SELECT id, group_id, name, price_adjustment, is_default
		FROM option_values
		WHERE business_id = $1 AND group_id = $2
		ORDER BY name
	`, businessID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option values: %w", err)
	}
	defer rows.Close()

	var values []domain.OptionValue
	for rows.Next() {
		var v domain.OptionValue
		if err := rows.Scan(&v.ID, &v.GroupID, &v.Name, &v.PriceAdjustment, &v.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan option value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read option values: %w", err)
	}

	return values, nil
}

func (r *RemoteStore) CreateValues(ctx context.Context, businessID string, values []domain.OptionValue) error {
	if len(values) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, v := range values {
		batch.Queue(`
			INSERT INTO option_values (id, business_id, group_id, name, price_adjustment, is_default)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, v.ID, businessID, v.GroupID, v.Name, v.PriceAdjustment, v.IsDefault)
	}

	results := r.storage.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range values {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create option values: %w", err)
		}
	}

	return nil
}

func (r *RemoteStore) UpdateValue(ctx context.Context, businessID string, value domain.OptionValue) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		UPDATE option_values
		SET name = $3, price_adjustment = $4, is_default = $5
		WHERE business_id = $1 AND id = $2
	`, businessID, value.ID, value.Name, value.PriceAdjustment, value.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to update option value: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *RemoteStore) DeleteValue(ctx context.Context, businessID, valueID string) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		DELETE FROM option_values WHERE business_id = $1 AND id = $2
	`, businessID, valueID)
	if err != nil {
		return fmt.Errorf("failed to delete option value: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// --- item_group_links ---

func (r *RemoteStore) CreateLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	_, err := r.storage.pool.Exec(ctx, `
		INSERT INTO item_group_links (item_id, group_id, business_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, group_id) DO NOTHING
	`, link.ItemID, link.GroupID, businessID)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *RemoteStore) DeleteLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	cmd, err := r.storage.pool.Exec(ctx, `
		DELETE FROM item_group_links
		WHERE business_id = $1 AND item_id = $2 AND group_id = $3
	`, businessID, link.ItemID, link.GroupID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *RemoteStore) LinkCount(ctx context.Context, businessID, groupID string) (int, error) {
	var count int
	err := r.storage.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM item_group_links
		WHERE business_id = $1 AND group_id = $2
	`, businessID, groupID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count links: %w", err)
	}

	return count, nil
}

var _ repo.RemoteStore = (*RemoteStore)(nil)
