package repository

import (
	"context"
	"errors"

	"kantocollect/internal/model"

	"gorm.io/gorm"
)

type ProductImageRepository interface {
	// FindByNormalizedName returns (nil, nil) on a miss — missing curated
	// metadata is expected steady-state, not an error.
	FindByNormalizedName(ctx context.Context, normalizedName string) (*model.ProductImage, error)
	FindByNormalizedNameTx(tx *gorm.DB, normalizedName string) (*model.ProductImage, error)
	ListAll(ctx context.Context) ([]model.ProductImage, error)
	SaveTx(tx *gorm.DB, p *model.ProductImage) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type productImageRepo struct{ db *gorm.DB }

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepo{db: db}
}

func (r *productImageRepo) FindByNormalizedName(ctx context.Context, normalizedName string) (*model.ProductImage, error) {
	var p model.ProductImage
	err := r.db.WithContext(ctx).
		Where("normalized_item_name = ?", normalizedName).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productImageRepo) FindByNormalizedNameTx(tx *gorm.DB, normalizedName string) (*model.ProductImage, error) {
	var p model.ProductImage
	err := tx.
		Where("normalized_item_name = ?", normalizedName).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productImageRepo) ListAll(ctx context.Context) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).Find(&images).Error
	return images, err
}

func (r *productImageRepo) SaveTx(tx *gorm.DB, p *model.ProductImage) error {
	return tx.Save(p).Error
}

func (r *productImageRepo) DB() *gorm.DB { return r.db }
