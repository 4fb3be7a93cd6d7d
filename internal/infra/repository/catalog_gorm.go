package repository

import (
	"context"
	"errors"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

func (r *ItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// 現行のactive価格。複数あったら新しいものを採用。
func (r *ItemGormRepository) ActivePrice(ctx context.Context, itemID int64) (model.Pricing, error) {
	var p model.Pricing
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ?", itemID, model.PricingStatusActive).
		Order("id desc").
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Pricing{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Pricing{}, err
	}
	return p, nil
}

type MenuItemGormRepository struct {
	db *gorm.DB
}

func NewMenuItemGormRepository(db *gorm.DB) *MenuItemGormRepository {
	return &MenuItemGormRepository{db: db}
}

func (r *MenuItemGormRepository) FindByMenuAndItem(ctx context.Context, menuID int64, itemID int64) (model.MenuItem, error) {
	var mi model.MenuItem
	err := r.db.WithContext(ctx).
		Where("menu_id = ? AND item_id = ? AND status = ?", menuID, itemID, model.MenuItemStatusActive).
		First(&mi).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return mi, nil
}

type MenuConfigurationGormRepository struct {
	db *gorm.DB
}

func NewMenuConfigurationGormRepository(db *gorm.DB) *MenuConfigurationGormRepository {
	return &MenuConfigurationGormRepository{db: db}
}

func (r *MenuConfigurationGormRepository) FindByID(ctx context.Context, id int64) (model.MenuConfiguration, error) {
	var mc model.MenuConfiguration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&mc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuConfiguration{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuConfiguration{}, err
	}
	return mc, nil
}
