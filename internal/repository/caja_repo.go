package repository

import (
	"context"

	"minimercado/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindAbierta(ctx context.Context) (*model.Caja, error)
	// FindAbiertaTx reads the open caja and holds its row lock until tx ends.
	FindAbiertaTx(tx *gorm.DB) (*model.Caja, error)
	// BloquearAbiertaTx locks caja id inside tx; gorm.ErrRecordNotFound means
	// it is no longer open.
	BloquearAbiertaTx(tx *gorm.DB, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Caja, error)
	// Cerrar flips an Abierta caja to Cerrada; returns gorm.ErrRecordNotFound
	// when the caja was already closed.
	Cerrar(ctx context.Context, c *model.Caja) error
	CerrarTx(tx *gorm.DB, c *model.Caja) error
	List(ctx context.Context, limit int) ([]model.Caja, error)
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindAbierta(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("estado = ?", model.CajaAbierta).Order("id DESC").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SELECT ... FOR UPDATE on postgres and mysql; the sqlite dialector drops the
// clause and relies on its single writer.
func (r *cajaRepo) FindAbiertaTx(tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("estado = ?", model.CajaAbierta).
		Order("id DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) BloquearAbiertaTx(tx *gorm.DB, id uint) error {
	var c model.Caja
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND estado = ?", id, model.CajaAbierta).
		First(&c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uint) (*model.Caja, error) {
	var c model.Caja
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) Cerrar(ctx context.Context, c *model.Caja) error {
	return r.CerrarTx(r.db.WithContext(ctx), c)
}

func (r *cajaRepo) CerrarTx(tx *gorm.DB, c *model.Caja) error {
	res := tx.Model(&model.Caja{}).
		Where("id = ? AND estado = ?", c.ID, model.CajaAbierta).
		Updates(map[string]interface{}{
			"estado":       model.CajaCerrada,
			"fecha_cierre": c.FechaCierre,
			"monto_final":  c.MontoFinal,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	c.Estado = model.CajaCerrada
	return nil
}

func (r *cajaRepo) List(ctx context.Context, limit int) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Order("fecha_apertura DESC").Limit(limit).Find(&cajas).Error
	return cajas, err
}
