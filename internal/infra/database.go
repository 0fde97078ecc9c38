package infra

import (
	"fmt"

	"integrafacturacion/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, migrates every table and applies the
// SQL that AutoMigrate cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Integration tests call it on a
// fresh container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("extension pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.Rol{},
		&model.Usuario{},
		&model.Licencia{},
		&model.DispositivoLicencia{},
		&model.Categoria{},
		&model.Proveedor{},
		&model.Cliente{},
		&model.Producto{},
		&model.ProductoComponente{},
		&model.HistorialPrecio{},
		&model.MovimientoInventario{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Proforma{},
		&model.ProformaDetalle{},
		&model.Factura{},
		&model.FacturaDetalle{},
		&model.CuentaPorCobrar{},
		&model.PagoCuentaCobrar{},
		&model.Compra{},
		&model.CompraDetalle{},
		&model.CuentaPorPagar{},
		&model.PagoCuentaPagar{},
		&model.EquivalenciaProducto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"invoice sequence",
			`CREATE SEQUENCE IF NOT EXISTS facturas_secuencial_seq START 1`},
		{"proforma sequence",
			`CREATE SEQUENCE IF NOT EXISTS proformas_numero_seq START 1`},
		// At most one open cash session per branch; Abrir relies on the
		// unique violation when two terminals race.
		{"one open cash session per branch", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_sesiones_caja_abierta
    ON sesiones_caja (sucursal_id)
    WHERE estado = 'abierta'`},
		{"open receivables lookup", `
CREATE INDEX IF NOT EXISTS idx_cuentas_por_cobrar_pendientes
    ON cuentas_por_cobrar (cliente_id)
    WHERE estado = 'pendiente'`},
		{"kardex by product and date", `
CREATE INDEX IF NOT EXISTS idx_movimientos_inventario_producto_fecha
    ON movimientos_inventario (producto_id, created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
