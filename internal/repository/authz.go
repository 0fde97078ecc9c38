package repository

import (
	"integrafacturacion/internal/auth"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// autorizar is the write gate of every entry-point mutation: solo_lectura
// veto first, then the module permission.
func autorizar(u auth.ActingUser, p auth.Permiso) error {
	return u.AuthorizeWrite(p)
}

// autorizarEscritura guards the shared transactional primitives (stock,
// balances) that run on behalf of several modules; the module check already
// happened at the entry point.
func autorizarEscritura(u auth.ActingUser) error {
	return u.RequireWrite()
}

// scopeSucursal restricts a query to the user's branch when the role is
// branch-limited. column is the qualified branch column of the queried table.
func scopeSucursal(u auth.ActingUser, column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if b, limited := u.BranchFilter(); limited {
			return db.Where(column+" = ?", b)
		}
		return db
	}
}

// forUpdate adds SELECT ... FOR UPDATE to a transactional lookup.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func paginar(page, limit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}
