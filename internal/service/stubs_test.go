package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"
	"integrafacturacion/internal/service"
	"integrafacturacion/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so services run their
// transactions as plain function calls.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func visible(u auth.ActingUser, sucursal uuid.UUID) bool {
	b, limited := u.BranchFilter()
	return !limited || b == sucursal
}

// ── Productos ─────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	componentes map[uuid.UUID][]model.ProductoComponente
	stockWrites int
	bloqueos    []uuid.UUID
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:   make(map[uuid.UUID]*model.Producto),
		componentes: make(map[uuid.UUID][]model.ProductoComponente),
	}
}

func (r *stubProductoRepo) add(p *model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Activo = true
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) stock(id uuid.UUID) decimal.Decimal { return r.productos[id].StockActual }

func (r *stubProductoRepo) Create(_ context.Context, _ auth.ActingUser, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Update(_ context.Context, _ auth.ActingUser, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, u auth.ActingUser, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || !visible(u, p.SucursalID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Componentes = r.componentes[id]
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, u auth.ActingUser, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if visible(u, p.SucursalID) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListComponentes(_ context.Context, id uuid.UUID) ([]model.ProductoComponente, error) {
	return r.componentes[id], nil
}

func (r *stubProductoRepo) ReemplazarReceta(_ context.Context, _ auth.ActingUser, id uuid.UUID, comps []model.ProductoComponente) error {
	r.componentes[id] = comps
	return nil
}

func (r *stubProductoRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	r.bloqueos = append(r.bloqueos, id)
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, _ auth.ActingUser, id uuid.UUID, stock decimal.Decimal) error {
	r.productos[id].StockActual = stock
	r.stockWrites++
	return nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, _ auth.ActingUser, id uuid.UUID, costo decimal.Decimal) error {
	r.productos[id].PrecioCosto = costo
	return nil
}

func (r *stubProductoRepo) ListComponentesTx(_ *gorm.DB, id uuid.UUID) ([]model.ProductoComponente, error) {
	return r.componentes[id], nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Kardex ────────────────────────────────────────────────────────────────────

type stubMovRepo struct{ movs []model.MovimientoInventario }

func (r *stubMovRepo) CreateTx(_ *gorm.DB, _ auth.ActingUser, m *model.MovimientoInventario) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovRepo) List(_ context.Context, _ auth.ActingUser, _ dto.KardexFilter) ([]model.MovimientoInventario, int64, error) {
	return r.movs, int64(len(r.movs)), nil
}

var _ repository.MovimientoRepository = (*stubMovRepo)(nil)

// ── Clientes ──────────────────────────────────────────────────────────────────

type stubClienteRepo struct{ clientes map[uuid.UUID]*model.Cliente }

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) add(saldo, limite string) *model.Cliente {
	c := &model.Cliente{
		ID:             uuid.New(),
		Identificacion: "0102030405",
		Nombre:         "Cliente Prueba",
		Saldo:          dec(saldo),
		LimiteCredito:  dec(limite),
		Activo:         true,
	}
	r.clientes[c.ID] = c
	return c
}

func (r *stubClienteRepo) Create(_ context.Context, _ auth.ActingUser, c *model.Cliente) error {
	for _, e := range r.clientes {
		if e.Identificacion == c.Identificacion {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Update(_ context.Context, _ auth.ActingUser, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context, buscar string, _, _ int) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if buscar == "" || strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(buscar)) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubClienteRepo) AjustarSaldoTx(_ *gorm.DB, _ auth.ActingUser, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Saldo = c.Saldo.Add(delta)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Facturas ──────────────────────────────────────────────────────────────────

type stubFacturaRepo struct {
	facturas      map[uuid.UUID]*model.Factura
	secuencial    int64
	ventasContado decimal.Decimal
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{facturas: make(map[uuid.UUID]*model.Factura)}
}

func (r *stubFacturaRepo) CreateTx(_ context.Context, _ *gorm.DB, _ auth.ActingUser, f *model.Factura) error {
	for _, otra := range r.facturas {
		if otra.Numero == f.Numero || otra.ClaveAcceso == f.ClaveAcceso {
			return gorm.ErrDuplicatedKey
		}
	}
	f.ID = uuid.New()
	cp := *f
	cp.Detalles = append([]model.FacturaDetalle(nil), f.Detalles...)
	r.facturas[f.ID] = &cp
	return nil
}

func (r *stubFacturaRepo) FindByID(_ context.Context, u auth.ActingUser, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok || !visible(u, f.SucursalID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFacturaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFacturaRepo) AnularTx(_ *gorm.DB, _ auth.ActingUser, id uuid.UUID, motivo string) error {
	r.facturas[id].Estado = "anulada"
	r.facturas[id].MotivoAnulacion = &motivo
	return nil
}

func (r *stubFacturaRepo) NextSecuencialTx(_ context.Context, _ *gorm.DB) (int64, error) {
	r.secuencial++
	return r.secuencial, nil
}

func (r *stubFacturaRepo) AvanzarSecuencialTx(_ context.Context, _ *gorm.DB, usado int64) error {
	if usado > r.secuencial {
		r.secuencial = usado
	}
	return nil
}

func (r *stubFacturaRepo) Reporte(_ context.Context, u auth.ActingUser, _ dto.ReporteVentasFilter) ([]model.Factura, int64, decimal.Decimal, error) {
	var out []model.Factura
	suma := decimal.Zero
	for _, f := range r.facturas {
		if visible(u, f.SucursalID) {
			out = append(out, *f)
			suma = suma.Add(f.Total)
		}
	}
	return out, int64(len(out)), suma, nil
}

func (r *stubFacturaRepo) SumContadoSesion(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return r.ventasContado, nil
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// ── Cuentas ───────────────────────────────────────────────────────────────────

type stubCuentaRepo struct {
	cobrar      map[uuid.UUID]*model.CuentaPorCobrar
	pagar       map[uuid.UUID]*model.CuentaPorPagar
	pagosCobrar []model.PagoCuentaCobrar
	pagosPagar  []model.PagoCuentaPagar
}

func newStubCuentaRepo() *stubCuentaRepo {
	return &stubCuentaRepo{
		cobrar: make(map[uuid.UUID]*model.CuentaPorCobrar),
		pagar:  make(map[uuid.UUID]*model.CuentaPorPagar),
	}
}

func (r *stubCuentaRepo) CreateCobrarTx(_ *gorm.DB, _ auth.ActingUser, c *model.CuentaPorCobrar) error {
	c.ID = uuid.New()
	cp := *c
	r.cobrar[c.ID] = &cp
	return nil
}

func (r *stubCuentaRepo) FindCobrarForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	c, ok := r.cobrar[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCuentaRepo) FindCobrarPorFacturaTx(_ *gorm.DB, facturaID uuid.UUID) (*model.CuentaPorCobrar, error) {
	for _, c := range r.cobrar {
		if c.FacturaID == facturaID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCuentaRepo) SaveCobrarTx(_ *gorm.DB, _ auth.ActingUser, c *model.CuentaPorCobrar) error {
	cp := *c
	r.cobrar[c.ID] = &cp
	return nil
}

func (r *stubCuentaRepo) CreatePagoCobrarTx(_ *gorm.DB, _ auth.ActingUser, p *model.PagoCuentaCobrar) error {
	p.ID = uuid.New()
	r.pagosCobrar = append(r.pagosCobrar, *p)
	return nil
}

func (r *stubCuentaRepo) ListCobrar(_ context.Context, _ auth.ActingUser, _ dto.CuentaFilter) ([]model.CuentaPorCobrar, int64, error) {
	var out []model.CuentaPorCobrar
	for _, c := range r.cobrar {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCuentaRepo) CreatePagarTx(_ *gorm.DB, _ auth.ActingUser, c *model.CuentaPorPagar) error {
	c.ID = uuid.New()
	cp := *c
	r.pagar[c.ID] = &cp
	return nil
}

func (r *stubCuentaRepo) FindPagarForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.CuentaPorPagar, error) {
	c, ok := r.pagar[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCuentaRepo) FindPagarPorCompraTx(_ *gorm.DB, compraID uuid.UUID) (*model.CuentaPorPagar, error) {
	for _, c := range r.pagar {
		if c.CompraID == compraID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCuentaRepo) SavePagarTx(_ *gorm.DB, _ auth.ActingUser, c *model.CuentaPorPagar) error {
	cp := *c
	r.pagar[c.ID] = &cp
	return nil
}

func (r *stubCuentaRepo) CreatePagoPagarTx(_ *gorm.DB, _ auth.ActingUser, p *model.PagoCuentaPagar) error {
	p.ID = uuid.New()
	r.pagosPagar = append(r.pagosPagar, *p)
	return nil
}

func (r *stubCuentaRepo) ListPagar(_ context.Context, _ auth.ActingUser, _ dto.CuentaFilter) ([]model.CuentaPorPagar, int64, error) {
	var out []model.CuentaPorPagar
	for _, c := range r.pagar {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCuentaRepo) DB() *gorm.DB { return nil }

var _ repository.CuentaRepository = (*stubCuentaRepo)(nil)

// ── Caja ──────────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

// CreateSesion mimics the partial unique index on open sessions.
func (r *stubCajaRepo) CreateSesion(_ context.Context, _ auth.ActingUser, s *model.SesionCaja) error {
	for _, e := range r.sesiones {
		if e.SucursalID == s.SucursalID && e.Estado == "abierta" {
			return gorm.ErrDuplicatedKey
		}
	}
	s.ID = uuid.New()
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *stubCajaRepo) FindAbiertaPorSucursal(_ context.Context, sucursalID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.SucursalID == sucursalID && s.Estado == "abierta" {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) FindSesionByID(_ context.Context, u auth.ActingUser, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok || !visible(u, s.SucursalID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubCajaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubCajaRepo) CerrarTx(_ *gorm.DB, _ auth.ActingUser, s *model.SesionCaja) error {
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *stubCajaRepo) CreateMovimiento(_ context.Context, _ auth.ActingUser, m *model.MovimientoCaja) error {
	m.ID = uuid.New()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) SumMovimientos(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, m := range r.movimientos {
		if m.SesionCajaID != sesionID {
			continue
		}
		if m.Tipo == "ingreso" {
			ingresos = ingresos.Add(m.Monto)
		} else {
			egresos = egresos.Add(m.Monto)
		}
	}
	return ingresos, egresos, nil
}

func (r *stubCajaRepo) Historial(_ context.Context, u auth.ActingUser, _, _ int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if visible(u, s.SucursalID) {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── Sucursales ────────────────────────────────────────────────────────────────

type stubSucursalRepo struct{}

func (stubSucursalRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Sucursal, error) {
	return nil, gorm.ErrRecordNotFound
}

var _ repository.SucursalRepository = stubSucursalRepo{}

// ── Proformas ─────────────────────────────────────────────────────────────────

type stubProformaRepo struct {
	proformas map[uuid.UUID]*model.Proforma
	numero    int64
}

func newStubProformaRepo() *stubProformaRepo {
	return &stubProformaRepo{proformas: make(map[uuid.UUID]*model.Proforma)}
}

func (r *stubProformaRepo) Create(_ context.Context, u auth.ActingUser, p *model.Proforma) error {
	r.numero++
	p.SucursalID = u.ScopedBranch(p.SucursalID)
	p.ID = uuid.New()
	p.Numero = r.numero
	p.CreatedAt = time.Now()
	cp := *p
	r.proformas[p.ID] = &cp
	return nil
}

func (r *stubProformaRepo) FindByID(_ context.Context, u auth.ActingUser, id uuid.UUID) (*model.Proforma, error) {
	p, ok := r.proformas[id]
	if !ok || !visible(u, p.SucursalID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProformaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Proforma, error) {
	p, ok := r.proformas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProformaRepo) MarcarFacturadaTx(_ *gorm.DB, _ auth.ActingUser, id, facturaID uuid.UUID) error {
	r.proformas[id].Estado = "facturada"
	r.proformas[id].FacturaID = &facturaID
	return nil
}

func (r *stubProformaRepo) List(_ context.Context, u auth.ActingUser, _ dto.ProformaFilter) ([]model.Proforma, int64, error) {
	var out []model.Proforma
	for _, p := range r.proformas {
		if visible(u, p.SucursalID) {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.ProformaRepository = (*stubProformaRepo)(nil)

// ── Compras y proveedores ─────────────────────────────────────────────────────

type stubCompraRepo struct{ compras map[uuid.UUID]*model.Compra }

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) CreateTx(_ context.Context, _ *gorm.DB, _ auth.ActingUser, c *model.Compra) error {
	c.ID = uuid.New()
	cp := *c
	cp.Detalles = append([]model.CompraDetalle(nil), c.Detalles...)
	r.compras[c.ID] = &cp
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, u auth.ActingUser, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok || !visible(u, c.SucursalID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCompraRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCompraRepo) AnularTx(_ *gorm.DB, _ auth.ActingUser, id uuid.UUID) error {
	r.compras[id].Estado = "anulada"
	return nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

type stubProveedorRepo struct{ proveedores map[uuid.UUID]*model.Proveedor }

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) add(ruc string) *model.Proveedor {
	p := &model.Proveedor{ID: uuid.New(), RUC: ruc, RazonSocial: "Distribuidora " + ruc[:4], DiasCredito: 30, Activo: true}
	r.proveedores[p.ID] = p
	return p
}

func (r *stubProveedorRepo) Create(_ context.Context, _ auth.ActingUser, p *model.Proveedor) error {
	p.ID = uuid.New()
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) Update(_ context.Context, _ auth.ActingUser, p *model.Proveedor) error {
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProveedorRepo) FindByRUC(_ context.Context, ruc string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.RUC == ruc {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProveedorRepo) List(_ context.Context, _ string) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

type stubHistorialRepo struct{ registros []model.HistorialPrecio }

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, _ auth.ActingUser, h *model.HistorialPrecio) error {
	h.ID = uuid.New()
	r.registros = append(r.registros, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, id uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.registros {
		if h.ProductoID == id {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)

type stubEquivalenciaRepo struct{ mapa map[uuid.UUID]map[string]uuid.UUID }

func (r *stubEquivalenciaRepo) Guardar(_ context.Context, _ auth.ActingUser, e *model.EquivalenciaProducto) error {
	if r.mapa == nil {
		r.mapa = make(map[uuid.UUID]map[string]uuid.UUID)
	}
	if r.mapa[e.ProveedorID] == nil {
		r.mapa[e.ProveedorID] = make(map[string]uuid.UUID)
	}
	r.mapa[e.ProveedorID][e.CodigoProveedor] = e.ProductoID
	return nil
}

func (r *stubEquivalenciaRepo) MapaPorProveedor(_ context.Context, proveedorID uuid.UUID) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID)
	for k, v := range r.mapa[proveedorID] {
		out[k] = v
	}
	return out, nil
}

var _ repository.EquivalenciaRepository = (*stubEquivalenciaRepo)(nil)

// ── Usuarios ──────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
	roles    map[uuid.UUID]*model.Rol
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario), roles: make(map[uuid.UUID]*model.Rol)}
}

func (r *stubUsuarioRepo) addRol(perms ...auth.Permiso) *model.Rol {
	rol := &model.Rol{ID: uuid.New(), Nombre: "rol", Permisos: auth.NewPermissionSet(perms...).JSON()}
	r.roles[rol.ID] = rol
	return rol
}

func (r *stubUsuarioRepo) Create(_ context.Context, u auth.ActingUser, usr *model.Usuario) error {
	usr.ID = uuid.New()
	usr.SucursalID = u.ScopedBranch(usr.SucursalID)
	cp := *usr
	r.usuarios[usr.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			cp := *u
			cp.Rol = r.roles[u.RolID]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	cp.Rol = r.roles[u.RolID]
	return &cp, nil
}

func (r *stubUsuarioRepo) FindRol(_ context.Context, id uuid.UUID) (*model.Rol, error) {
	rol, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rol, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, _ auth.ActingUser) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		cp := *u
		cp.Rol = r.roles[u.RolID]
		out = append(out, cp)
	}
	return out, nil
}

func (r *stubUsuarioRepo) ReclamarSesion(_ context.Context, id uuid.UUID, hwid string, at time.Time) (bool, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if u.HardwareSesion != nil && *u.HardwareSesion != hwid {
		return false, nil
	}
	u.HardwareSesion = &hwid
	u.UltimoLogin = &at
	return true, nil
}

func (r *stubUsuarioRepo) LiberarSesion(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.HardwareSesion = nil
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubCategoriaRepo struct{ categorias []model.Categoria }

func (r *stubCategoriaRepo) Create(_ context.Context, _ auth.ActingUser, c *model.Categoria) error {
	c.ID = uuid.New()
	r.categorias = append(r.categorias, *c)
	return nil
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	return r.categorias, nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── Cola de correo ────────────────────────────────────────────────────────────

type stubEncolador struct{ jobs []worker.EmailJobPayload }

func (e *stubEncolador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	e.jobs = append(e.jobs, p)
	return nil
}

var _ service.Encolador = (*stubEncolador)(nil)

// ── Usuarios de prueba ────────────────────────────────────────────────────────

var sucursalMatriz = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func admin() auth.ActingUser {
	return auth.ActingUser{
		ID:         uuid.New(),
		Username:   "admin",
		SucursalID: sucursalMatriz,
		Permisos:   auth.NewPermissionSet(auth.PermAll),
	}
}

func usuarioCon(sucursal uuid.UUID, perms ...auth.Permiso) auth.ActingUser {
	return auth.ActingUser{
		ID:         uuid.New(),
		Username:   "operador",
		SucursalID: sucursal,
		Permisos:   auth.NewPermissionSet(perms...),
	}
}
