package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a login credential bound to one role and, optionally, one branch.
// HardwareSesion holds the fingerprint of the device that owns the open
// session; nil means no session is open.
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Nombre         string    `gorm:"not null"`
	Email          *string
	PasswordHash   string    `gorm:"not null"`
	RolID          uuid.UUID `gorm:"type:uuid;not null;index"`
	SucursalID     uuid.UUID `gorm:"type:uuid;index"`
	Activo         bool      `gorm:"not null;default:true"`
	UltimoLogin    *time.Time
	HardwareSesion *string `gorm:"type:varchar(64)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Rol *Rol `gorm:"foreignKey:RolID"`
}

// Rol carries the permission document shared by its users, stored as JSON
// ({"ventas":true,"solo_lectura":false,...}).
type Rol struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Permisos  string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Rol) TableName() string { return "roles" }
