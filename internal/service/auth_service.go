package service

import (
	"context"
	"errors"
	"time"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, hwid string) (*dto.LoginResponse, error)
	ForzarCierre(ctx context.Context, req dto.ForzarCierreRequest) error
	Logout(ctx context.Context, u auth.ActingUser) error
	Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, u auth.ActingUser) ([]dto.UsuarioResponse, error)
	// ValidarSesion runs on every authenticated request: the machine must hold
	// a usable license and the user's open session must belong to hwid.
	ValidarSesion(ctx context.Context, u auth.ActingUser, hwid string) error
}

type authService struct {
	repo      repository.UsuarioRepository
	tokens    *auth.TokenIssuer
	licencias LicenciaService
	enforce   bool
}

// NewAuthService wires login and session checks. licencias may be nil when
// license enforcement is off.
func NewAuthService(repo repository.UsuarioRepository, tokens *auth.TokenIssuer, licencias LicenciaService, enforce bool) AuthService {
	return &authService{repo: repo, tokens: tokens, licencias: licencias, enforce: enforce && licencias != nil}
}

var errCredenciales = apierror.Unauthenticated("Credenciales invalidas")

func (s *authService) verificarCredenciales(ctx context.Context, username, password string) (*model.Usuario, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCredenciales
		}
		return nil, apierror.Internal(err)
	}
	if !user.Activo || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, errCredenciales
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, hwid string) (*dto.LoginResponse, error) {
	if hwid == "" {
		return nil, apierror.ValidationFields(map[string]string{"hardware_id": "required"})
	}
	user, err := s.verificarCredenciales(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.ReclamarSesion(ctx, user.ID, hwid, time.Now())
	if err != nil {
		return nil, apierror.Internal(err)
	}
	if !ok {
		log.Warn().Str("username", user.Username).Str("hardware_id", hwid).Msg("login rechazado: sesion abierta en otro equipo")
		return nil, apierror.SessionConflict()
	}

	acting := actingUser(user)
	token, _, err := s.tokens.Issue(acting, hwid)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	log.Info().Str("username", user.Username).Str("hardware_id", hwid).Msg("login")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		User:        usuarioToResponse(user, acting.Permisos),
	}, nil
}

// ForzarCierre clears a session left open on another machine. The password is
// checked again since the caller has no token.
func (s *authService) ForzarCierre(ctx context.Context, req dto.ForzarCierreRequest) error {
	user, err := s.verificarCredenciales(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	if err := s.repo.LiberarSesion(ctx, user.ID); err != nil {
		return apierror.Internal(err)
	}
	log.Info().Str("username", user.Username).Msg("sesion cerrada forzosamente")
	return nil
}

func (s *authService) Logout(ctx context.Context, u auth.ActingUser) error {
	if err := s.repo.LiberarSesion(ctx, u.ID); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *authService) Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := u.AuthorizeWrite(auth.PermUsuarios); err != nil {
		return nil, err
	}
	rolID, err := parseID("rol_id", req.RolID)
	if err != nil {
		return nil, err
	}
	sucursalID, err := parseOptionalID("sucursal_id", req.SucursalID)
	if err != nil {
		return nil, err
	}
	rol, err := s.repo.FindRol(ctx, rolID)
	if err != nil {
		return nil, buscarErr(err, "Rol")
	}
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, apierror.Conflict("El usuario " + req.Username + " ya existe")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: hash,
		RolID:        rolID,
		SucursalID:   sucursalID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, u, user); err != nil {
		return nil, txErr(err)
	}
	user.Rol = rol
	resp := usuarioToResponse(user, auth.ParsePermisos(rol.Permisos))
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, u auth.ActingUser) ([]dto.UsuarioResponse, error) {
	if err := u.RequireAccess(auth.PermUsuarios); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, u)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		perms := auth.PermissionSet{}
		if users[i].Rol != nil {
			perms = auth.ParsePermisos(users[i].Rol.Permisos)
		}
		resp = append(resp, usuarioToResponse(&users[i], perms))
	}
	return resp, nil
}

func (s *authService) ValidarSesion(ctx context.Context, u auth.ActingUser, hwid string) error {
	if s.enforce {
		st, err := s.licencias.ValidarEstado(ctx, "", hwid)
		if err != nil {
			return err
		}
		if !st.Permitido {
			return apierror.LicenseDenied("Licencia no valida para este equipo: " + st.Estado)
		}
	}

	user, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Unauthenticated("Usuario no encontrado")
		}
		return apierror.Internal(err)
	}
	if !user.Activo {
		return apierror.Unauthenticated("Usuario inactivo")
	}
	if user.HardwareSesion == nil {
		return apierror.Unauthenticated("La sesion fue cerrada")
	}
	if *user.HardwareSesion != hwid {
		return apierror.SessionConflict()
	}
	return nil
}

func actingUser(user *model.Usuario) auth.ActingUser {
	perms := auth.PermissionSet{}
	if user.Rol != nil {
		perms = auth.ParsePermisos(user.Rol.Permisos)
	}
	return auth.ActingUser{
		ID:         user.ID,
		Username:   user.Username,
		RolID:      user.RolID,
		SucursalID: user.SucursalID,
		Permisos:   perms,
	}
}

func usuarioToResponse(user *model.Usuario, perms auth.PermissionSet) dto.UsuarioResponse {
	permisos := make(map[string]bool)
	for _, n := range perms.Names() {
		permisos[n] = true
	}
	return dto.UsuarioResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Nombre:     user.Nombre,
		Email:      user.Email,
		RolID:      user.RolID.String(),
		SucursalID: user.SucursalID.String(),
		Permisos:   permisos,
		Activo:     user.Activo,
	}
}
