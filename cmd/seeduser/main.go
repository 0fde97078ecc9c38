// cmd/seeduser crea o actualiza el administrador de demo junto con su rol y
// la sucursal matriz.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"os"
	"time"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/config"
	"integrafacturacion/internal/infra"
	"integrafacturacion/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	username := "admin"
	password := "1234"
	if v := os.Getenv("SEED_PASSWORD"); v != "" {
		password = v
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("hash")
	}

	err = db.WithContext(context.Background()).Transaction(func(tx *gorm.DB) error {
		suc := model.Sucursal{Nombre: "Matriz", Establecimiento: cfg.EmisorEstablecimiento, PuntoEmision: cfg.EmisorPuntoEmision, Activo: true}
		if err := tx.Where(model.Sucursal{Nombre: suc.Nombre}).FirstOrCreate(&suc).Error; err != nil {
			return err
		}

		rol := model.Rol{Nombre: "administrador", Permisos: auth.NewPermissionSet(auth.PermAll).JSON()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nombre"}},
			DoUpdates: clause.AssignmentColumns([]string{"permisos"}),
		}).Create(&rol).Error; err != nil {
			return err
		}
		if err := tx.Where("nombre = ?", rol.Nombre).First(&rol).Error; err != nil {
			return err
		}

		usr := model.Usuario{
			Username:     username,
			Nombre:       "Administrador",
			PasswordHash: hash,
			RolID:        rol.ID,
			SucursalID:   suc.ID,
			Activo:       true,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "rol_id", "sucursal_id", "activo", "hardware_sesion"}),
		}).Create(&usr).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Str("username", username).Msg("usuario administrador creado/actualizado")
}
