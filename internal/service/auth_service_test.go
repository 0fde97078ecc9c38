package service_test

import (
	"context"
	"testing"
	"time"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claveCajero = "cajero-2024"

func newAuthFixture(t *testing.T) (*stubUsuarioRepo, *model.Usuario, service.AuthService) {
	t.Helper()
	repo := newStubUsuarioRepo()
	rol := repo.addRol(auth.PermVentas, auth.PermCaja)
	hash, err := auth.HashPassword(claveCajero)
	require.NoError(t, err)
	usr := &model.Usuario{Username: "cajero", Nombre: "Cajero Uno", PasswordHash: hash, RolID: rol.ID, SucursalID: sucursalMatriz, Activo: true}
	require.NoError(t, repo.Create(context.Background(), admin(), usr))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return repo, usr, service.NewAuthService(repo, tokens, nil, false)
}

func TestLogin_SessionExclusivity(t *testing.T) {
	repo, usr, svc := newAuthFixture(t)
	ctx := context.Background()
	cred := dto.LoginRequest{Username: "cajero", Password: claveCajero}

	resp, err := svc.Login(ctx, cred, "equipo-A")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.True(t, resp.User.Permisos["ventas"])

	// Same machine may log in again.
	_, err = svc.Login(ctx, cred, "equipo-A")
	require.NoError(t, err)

	_, err = svc.Login(ctx, cred, "equipo-B")
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeSessionConflict))

	require.NoError(t, svc.ForzarCierre(ctx, dto.ForzarCierreRequest{Username: "cajero", Password: claveCajero}))
	assert.Nil(t, repo.usuarios[usr.ID].HardwareSesion)

	_, err = svc.Login(ctx, cred, "equipo-B")
	require.NoError(t, err)
	assert.Equal(t, "equipo-B", *repo.usuarios[usr.ID].HardwareSesion)
}

func TestLogin_RejectsBadCredentialsAndMissingDevice(t *testing.T) {
	_, _, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "cajero", Password: "otra-clave"}, "equipo-A")
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: claveCajero}, "equipo-A")
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "cajero", Password: claveCajero}, "")
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	err = svc.ForzarCierre(ctx, dto.ForzarCierreRequest{Username: "cajero", Password: "otra-clave"})
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))
}

func TestValidarSesion(t *testing.T) {
	_, usr, svc := newAuthFixture(t)
	ctx := context.Background()
	u := auth.ActingUser{ID: usr.ID, Username: usr.Username}

	err := svc.ValidarSesion(ctx, u, "equipo-A")
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "cajero", Password: claveCajero}, "equipo-A")
	require.NoError(t, err)
	assert.NoError(t, svc.ValidarSesion(ctx, u, "equipo-A"))

	err = svc.ValidarSesion(ctx, u, "equipo-B")
	assert.True(t, apierror.IsCode(err, apierror.CodeSessionConflict))

	require.NoError(t, svc.Logout(ctx, u))
	err = svc.ValidarSesion(ctx, u, "equipo-A")
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))
}

func TestRegistrarUsuario(t *testing.T) {
	repo, _, svc := newAuthFixture(t)
	rol := repo.addRol(auth.PermReportes, auth.PermSoloLectura)

	resp, err := svc.Registrar(context.Background(), admin(), dto.RegistrarUsuarioRequest{
		Username: "auditor", Nombre: "Auditor Externo", Password: "auditoria-2024", RolID: rol.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Permisos["solo_lectura"])
	assert.Equal(t, sucursalMatriz.String(), resp.SucursalID)

	_, err = svc.Registrar(context.Background(), admin(), dto.RegistrarUsuarioRequest{
		Username: "auditor", Nombre: "Duplicado", Password: "auditoria-2024", RolID: rol.ID.String(),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))

	_, err = svc.Registrar(context.Background(), usuarioCon(sucursalMatriz, auth.PermVentas), dto.RegistrarUsuarioRequest{
		Username: "otro", Nombre: "Otro", Password: "auditoria-2024", RolID: rol.ID.String(),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthorized))
}
