package repository

import (
	"context"
	"errors"
	"time"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのactiveカートを行ロック付きで取得し、無ければ作成。
// ロックを取ることで同一ユーザーの並行ミューテーションを直列化し、
// totalAmountの取りこぼしを防ぐ。
func (r *CartGormRepository) GetOrCreateActiveForUpdate(ctx context.Context, userID int64, def repo.CartDefaults) (model.Cart, bool, error) {
	var cart model.Cart
	created := false

	findErr := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Order("id desc").
		First(&cart).Error

	if findErr == nil {
		return cart, false, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, false, findErr
	}

	// 無ければ作る
	now := time.Now()
	newCart := model.Cart{
		UserID:              userID,
		Status:              model.CartStatusActive,
		TotalAmount:         0,
		CanteenID:           def.CanteenID,
		MenuID:              def.MenuID,
		MenuConfigurationID: def.MenuConfigurationID,
		OrderDate:           def.OrderDate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := r.db.WithContext(ctx).Create(&newCart).Error; err != nil {
		// 並行で同じユーザーが作っていた場合はそれを拾い直す
		retryErr := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
			Order("id desc").
			First(&cart).Error
		if retryErr == nil {
			return cart, false, nil
		}
		return model.Cart{}, false, err
	}

	created = true
	return newCart, created, nil
}

func (r *CartGormRepository) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Where("id = ?", cartID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 再計算した明細合計を保存
func (r *CartGormRepository) UpdateTotal(ctx context.Context, cartID int64, total float64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", total)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) Delete(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Cart{}, cartID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
