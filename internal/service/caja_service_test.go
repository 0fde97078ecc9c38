package service_test

import (
	"context"
	"testing"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaja_Lifecycle(t *testing.T) {
	cajas := newStubCajaRepo()
	facturas := newStubFacturaRepo()
	facturas.ventasContado = dec("250.00")
	svc := service.NewCajaService(cajas, facturas)
	ctx := context.Background()

	sesion, err := svc.Abrir(ctx, admin(), dto.AbrirCajaRequest{MontoApertura: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, "abierta", sesion.Estado)
	assert.Equal(t, sucursalMatriz.String(), sesion.SucursalID)

	_, err = svc.Abrir(ctx, admin(), dto.AbrirCajaRequest{MontoApertura: dec("50")})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))

	_, err = svc.RegistrarMovimiento(ctx, admin(), dto.MovimientoCajaRequest{
		SesionCajaID: sesion.ID, Tipo: "ingreso", Monto: dec("20"), Descripcion: "Cambio",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarMovimiento(ctx, admin(), dto.MovimientoCajaRequest{
		SesionCajaID: sesion.ID, Tipo: "egreso", Monto: dec("35.50"), Descripcion: "Pago de flete",
	})
	require.NoError(t, err)

	activa, err := svc.Activa(ctx, admin(), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, sesion.ID, activa.ID)

	cerrada, err := svc.Cerrar(ctx, admin(), dto.CerrarCajaRequest{SesionCajaID: sesion.ID, MontoContado: dec("330")})
	require.NoError(t, err)
	assert.Equal(t, "cerrada", cerrada.Estado)
	// 100 + 250 + 20 - 35.50
	require.NotNil(t, cerrada.MontoEsperado)
	assert.True(t, cerrada.MontoEsperado.Equal(dec("334.50")))
	assert.True(t, cerrada.Diferencia.Equal(dec("-4.50")))
	assert.NotNil(t, cerrada.ClosedAt)

	_, err = svc.Cerrar(ctx, admin(), dto.CerrarCajaRequest{SesionCajaID: sesion.ID, MontoContado: dec("330")})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))

	_, err = svc.RegistrarMovimiento(ctx, admin(), dto.MovimientoCajaRequest{
		SesionCajaID: sesion.ID, Tipo: "ingreso", Monto: dec("1"), Descripcion: "Tarde",
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))

	_, err = svc.Abrir(ctx, admin(), dto.AbrirCajaRequest{MontoApertura: dec("0")})
	assert.NoError(t, err)
}

func TestCaja_BranchLimitedUserOpensOwnBranch(t *testing.T) {
	svc := service.NewCajaService(newStubCajaRepo(), newStubFacturaRepo())
	propia := uuid.New()
	u := usuarioCon(propia, auth.PermCaja, auth.PermSucursalLimit)

	sesion, err := svc.Abrir(context.Background(), u, dto.AbrirCajaRequest{SucursalID: sucursalMatriz.String()})
	require.NoError(t, err)
	assert.Equal(t, propia.String(), sesion.SucursalID)
}

func TestCaja_RequiresPermission(t *testing.T) {
	svc := service.NewCajaService(newStubCajaRepo(), newStubFacturaRepo())

	_, err := svc.Abrir(context.Background(), usuarioCon(sucursalMatriz, auth.PermVentas), dto.AbrirCajaRequest{})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthorized))

	_, err = svc.Activa(context.Background(), admin(), uuid.Nil)
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}
