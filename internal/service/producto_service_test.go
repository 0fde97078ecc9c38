package service_test

import (
	"context"
	"testing"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto_BranchLimitedUserIsPinned(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo, &stubHistorialRepo{})

	propia := uuid.New()
	pedida := uuid.New()
	u := usuarioCon(propia, auth.PermProductos, auth.PermSucursalLimit)

	resp, err := svc.Crear(context.Background(), u, dto.CrearProductoRequest{
		Codigo: "LECHE-1L", Nombre: "Leche 1L", PrecioVenta: dec("0.95"), TarifaIVA: dec("0"),
		SucursalID: pedida.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, propia.String(), resp.SucursalID)
	assert.True(t, resp.StockActual.IsZero())
	assert.Equal(t, "unidad", resp.UnidadMedida)

	resp, err = svc.Crear(context.Background(), admin(), dto.CrearProductoRequest{
		Codigo: "LECHE-2L", Nombre: "Leche 2L", SucursalID: pedida.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, pedida.String(), resp.SucursalID)
}

func TestCrearProducto_ReadOnlyCheckedBeforeModule(t *testing.T) {
	svc := service.NewProductoService(newStubProductoRepo(), &stubHistorialRepo{})

	// No productos permission either: the read-only veto still wins.
	u := usuarioCon(sucursalMatriz, auth.PermSoloLectura)
	_, err := svc.Crear(context.Background(), u, dto.CrearProductoRequest{Codigo: "X", Nombre: "X"})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeReadOnlyRole))
}

func TestListarProductos_BranchFilter(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo, &stubHistorialRepo{})
	otra := uuid.New()
	repo.add(&model.Producto{SucursalID: sucursalMatriz, Codigo: "A", Nombre: "A"})
	repo.add(&model.Producto{SucursalID: otra, Codigo: "B", Nombre: "B"})

	all, err := svc.Listar(context.Background(), admin(), dto.ProductoFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	limitado := usuarioCon(otra, auth.PermProductos, auth.PermSucursalLimit)
	solo, err := svc.Listar(context.Background(), limitado, dto.ProductoFilter{})
	require.NoError(t, err)
	require.Len(t, solo.Data, 1)
	assert.Equal(t, "B", solo.Data[0].Codigo)
}

func TestDefinirReceta(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo, &stubHistorialRepo{})
	pan := repo.add(&model.Producto{SucursalID: sucursalMatriz, Codigo: "PAN", Nombre: "Pan"})
	harina := repo.add(&model.Producto{SucursalID: sucursalMatriz, Codigo: "HAR", Nombre: "Harina"})
	ctx := context.Background()

	resp, err := svc.DefinirReceta(ctx, admin(), pan.ID, dto.RecetaRequest{Componentes: []dto.ComponenteRequest{
		{ComponenteID: harina.ID.String(), Cantidad: dec("0.25")},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Componentes, 1)
	assert.Equal(t, "Harina", resp.Componentes[0].Nombre)
	assert.Len(t, repo.componentes[pan.ID], 1)

	_, err = svc.DefinirReceta(ctx, admin(), pan.ID, dto.RecetaRequest{Componentes: []dto.ComponenteRequest{
		{ComponenteID: pan.ID.String(), Cantidad: dec("1")},
	}})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = svc.DefinirReceta(ctx, admin(), pan.ID, dto.RecetaRequest{Componentes: []dto.ComponenteRequest{
		{ComponenteID: harina.ID.String(), Cantidad: dec("1")},
		{ComponenteID: harina.ID.String(), Cantidad: dec("2")},
	}})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = svc.DefinirReceta(ctx, admin(), pan.ID, dto.RecetaRequest{Componentes: []dto.ComponenteRequest{
		{ComponenteID: uuid.NewString(), Cantidad: dec("1")},
	}})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
	assert.Len(t, repo.componentes[pan.ID], 1)
}

func TestActualizarProducto_ValidatesRates(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo, &stubHistorialRepo{})
	p := repo.add(&model.Producto{SucursalID: sucursalMatriz, Codigo: "A", Nombre: "A", TarifaIVA: dec("15")})

	mala := dec("120")
	_, err := svc.Actualizar(context.Background(), admin(), p.ID, dto.ActualizarProductoRequest{TarifaIVA: &mala})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	nombre := "Arroz Premium"
	precio := dec("1.25")
	resp, err := svc.Actualizar(context.Background(), admin(), p.ID, dto.ActualizarProductoRequest{Nombre: &nombre, PrecioVenta: &precio})
	require.NoError(t, err)
	assert.Equal(t, nombre, resp.Nombre)
	assert.True(t, repo.productos[p.ID].PrecioVenta.Equal(precio))
	assert.True(t, repo.productos[p.ID].TarifaIVA.Equal(dec("15")))
}
