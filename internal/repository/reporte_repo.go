package repository

import (
	"context"
	"database/sql"
	"fmt"

	"minimercado/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TotalPorMetodo is one row of the per-caja sales aggregate.
type TotalPorMetodo struct {
	MetodoPago string          `db:"metodo_pago"`
	Cantidad   int             `db:"cantidad"`
	Total      decimal.Decimal `db:"total"`
}

// ReporteRepository runs read-only aggregate queries with plain SQL.
type ReporteRepository interface {
	TotalesPorMetodo(ctx context.Context, cajaID uint) ([]TotalPorMetodo, error)
	// TotalesPorMetodoTx runs the same aggregate on the connection of a gorm
	// transaction, so it sees the rows locked and written by tx.
	TotalesPorMetodoTx(ctx context.Context, tx *gorm.DB, cajaID uint) ([]TotalPorMetodo, error)
	ContarAnuladas(ctx context.Context, cajaID uint) (int, error)
}

type reporteRepo struct{ db *sqlx.DB }

// NewReporteRepository wraps the pool already opened by gorm so both layers
// share connections.
func NewReporteRepository(gdb *gorm.DB) (ReporteRepository, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("reporte: obtener *sql.DB: %w", err)
	}
	return &reporteRepo{db: sqlx.NewDb(sqlDB, sqlxDriverName(gdb.Dialector.Name()))}, nil
}

// sqlxDriverName maps a gorm dialector name to the driver name sqlx uses to
// pick a bind style.
func sqlxDriverName(dialector string) string {
	switch dialector {
	case "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	default:
		return "sqlite3"
	}
}

const totalesPorMetodoQuery = `
	SELECT metodo_pago, COUNT(*) AS cantidad, COALESCE(SUM(total), 0) AS total
	FROM ventas
	WHERE caja_id = ? AND estado = ?
	GROUP BY metodo_pago
	ORDER BY metodo_pago`

func (r *reporteRepo) TotalesPorMetodo(ctx context.Context, cajaID uint) ([]TotalPorMetodo, error) {
	return r.totalesPorMetodo(ctx, r.db, cajaID)
}

func (r *reporteRepo) TotalesPorMetodoTx(ctx context.Context, tx *gorm.DB, cajaID uint) ([]TotalPorMetodo, error) {
	return r.totalesPorMetodo(ctx, r.queryer(tx), cajaID)
}

func (r *reporteRepo) totalesPorMetodo(ctx context.Context, q sqlx.QueryerContext, cajaID uint) ([]TotalPorMetodo, error) {
	var rows []TotalPorMetodo
	if err := sqlx.SelectContext(ctx, q, &rows, r.db.Rebind(totalesPorMetodoQuery), cajaID, model.VentaCompletada); err != nil {
		return nil, fmt.Errorf("TotalesPorMetodo (caja %d) failed: %w", cajaID, err)
	}
	return rows, nil
}

// queryer wraps the *sql.Tx behind a gorm transaction; anything else falls
// back to the pool.
func (r *reporteRepo) queryer(tx *gorm.DB) sqlx.QueryerContext {
	if tx != nil {
		if sqlTx, ok := tx.Statement.ConnPool.(*sql.Tx); ok {
			return &sqlx.Tx{Tx: sqlTx, Mapper: r.db.Mapper}
		}
	}
	return r.db
}

func (r *reporteRepo) ContarAnuladas(ctx context.Context, cajaID uint) (int, error) {
	const q = `SELECT COUNT(*) FROM ventas WHERE caja_id = ? AND estado = ?`
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(q), cajaID, model.VentaAnulada); err != nil {
		return 0, fmt.Errorf("ContarAnuladas (caja %d) failed: %w", cajaID, err)
	}
	return n, nil
}
