package repository

import (
	"context"
	"time"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u auth.ActingUser, usr *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindRol(ctx context.Context, id uuid.UUID) (*model.Rol, error)
	List(ctx context.Context, u auth.ActingUser) ([]model.Usuario, error)

	// ReclamarSesion records hwid as the session owner only when no session is
	// open or the same device already owns it. Returns false on a conflict.
	ReclamarSesion(ctx context.Context, id uuid.UUID, hwid string, at time.Time) (bool, error)
	LiberarSesion(ctx context.Context, id uuid.UUID) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u auth.ActingUser, usr *model.Usuario) error {
	if err := autorizar(u, auth.PermUsuarios); err != nil {
		return err
	}
	usr.SucursalID = u.ScopedBranch(usr.SucursalID)
	return r.db.WithContext(ctx).Create(usr).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var usr model.Usuario
	err := r.db.WithContext(ctx).Preload("Rol").Where("username = ?", username).First(&usr).Error
	return &usr, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var usr model.Usuario
	err := r.db.WithContext(ctx).Preload("Rol").First(&usr, "id = ?", id).Error
	return &usr, err
}

func (r *usuarioRepo) FindRol(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).First(&rol, "id = ?", id).Error
	return &rol, err
}

func (r *usuarioRepo) List(ctx context.Context, u auth.ActingUser) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Rol").Order("username").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) ReclamarSesion(ctx context.Context, id uuid.UUID, hwid string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("id = ? AND (hardware_sesion IS NULL OR hardware_sesion = ?)", id, hwid).
		Updates(map[string]interface{}{"hardware_sesion": hwid, "ultimo_login": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *usuarioRepo) LiberarSesion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).
		Update("hardware_sesion", gorm.Expr("NULL")).Error
}
