package repository

import (
	"context"

	"kantocollect/internal/model"

	"gorm.io/gorm"
)

type AllocationRepository interface {
	ListAll(ctx context.Context) ([]model.Allocation, error)
	// Tx variants run inside a service-level transaction; owner mutations
	// are multi-statement and must commit or roll back as one.
	FindTx(tx *gorm.DB, normalizedName, owner string) (*model.Allocation, error)
	CreateTx(tx *gorm.DB, a *model.Allocation) error
	SaveTx(tx *gorm.DB, a *model.Allocation) error
	DeleteTx(tx *gorm.DB, normalizedName, owner string) (int64, error)
	// Delete removes one (item, owner) allocation; returns rows affected so
	// callers can distinguish a miss from a hit.
	Delete(ctx context.Context, normalizedName, owner string) (int64, error)
	// ReplaceAll atomically clears the table and inserts the given rows —
	// bulk import is a full rewrite, not a merge.
	ReplaceAll(ctx context.Context, allocations []model.Allocation) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type allocationRepo struct{ db *gorm.DB }

func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) DB() *gorm.DB { return r.db }

func (r *allocationRepo) FindTx(tx *gorm.DB, normalizedName, owner string) (*model.Allocation, error) {
	var a model.Allocation
	err := tx.
		Where("normalized_item_name = ? AND owner = ?", normalizedName, owner).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *allocationRepo) ListAll(ctx context.Context) ([]model.Allocation, error) {
	var allocations []model.Allocation
	err := r.db.WithContext(ctx).Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepo) CreateTx(tx *gorm.DB, a *model.Allocation) error {
	return tx.Create(a).Error
}

func (r *allocationRepo) SaveTx(tx *gorm.DB, a *model.Allocation) error {
	return tx.Save(a).Error
}

func (r *allocationRepo) DeleteTx(tx *gorm.DB, normalizedName, owner string) (int64, error) {
	res := tx.
		Where("normalized_item_name = ? AND owner = ?", normalizedName, owner).
		Delete(&model.Allocation{})
	return res.RowsAffected, res.Error
}

func (r *allocationRepo) Delete(ctx context.Context, normalizedName, owner string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("normalized_item_name = ? AND owner = ?", normalizedName, owner).
		Delete(&model.Allocation{})
	return res.RowsAffected, res.Error
}

func (r *allocationRepo) ReplaceAll(ctx context.Context, allocations []model.Allocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Allocation{}).Error; err != nil {
			return err
		}
		if len(allocations) == 0 {
			return nil
		}
		return tx.Create(&allocations).Error
	})
}
