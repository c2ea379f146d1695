package repository

import (
	"context"

	"minimercado/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	List(ctx context.Context, limit int) ([]model.Venta, error)
	// UpdateEstadoTx moves a venta from one estado to another and reports
	// false when the venta was not in the expected estado.
	UpdateEstadoTx(tx *gorm.DB, id uint, desde, hacia string) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// CreateTx inserts the venta, then its detalles. Loaded associations such as
// Cliente or Detalles[i].Producto are never written back.
func (r *ventaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	db := tx.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(v).Error; err != nil {
		return err
	}
	if len(v.Detalles) == 0 {
		return nil
	}
	for i := range v.Detalles {
		v.Detalles[i].VentaID = v.ID
	}
	return db.Omit(clause.Associations).Create(&v.Detalles).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.preload(r.db.WithContext(ctx)).First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.preload(r.db.WithContext(ctx)).
		Order("fecha DESC, id DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uint, desde, hacia string) (bool, error) {
	res := tx.Model(&model.Venta{}).Where("id = ? AND estado = ?", id, desde).Update("estado", hacia)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ventaRepo) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Detalles.Producto").Preload("Cliente").Preload("Usuario")
}
