package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/licencia"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VerificadorRevocacion is satisfied by *infra.RevocacionClient.
type VerificadorRevocacion interface {
	Revocada(ctx context.Context, ruc string) bool
}

type LicenciaService interface {
	MiHardwareID(ctx context.Context) (*dto.HardwareIDResponse, error)
	Activar(ctx context.Context, req dto.ActivarLicenciaRequest) (*dto.EstadoLicenciaResponse, error)
	AutoActivar(ctx context.Context, req dto.AutoActivarRequest) (*dto.EstadoLicenciaResponse, error)
	ValidarEstado(ctx context.Context, ruc, hwid string) (*dto.EstadoLicenciaResponse, error)
	// HardwareID returns the caller's fingerprint, or this machine's when the
	// caller sent none.
	HardwareID(explicito string) (string, error)
}

type licenciaService struct {
	repo       repository.LicenciaRepository
	identidad  licencia.IdentityProvider
	revocacion VerificadorRevocacion
	secreto    string
}

func NewLicenciaService(repo repository.LicenciaRepository, identidad licencia.IdentityProvider, revocacion VerificadorRevocacion, secreto string) LicenciaService {
	return &licenciaService{repo: repo, identidad: identidad, revocacion: revocacion, secreto: secreto}
}

func (s *licenciaService) HardwareID(explicito string) (string, error) {
	if hw := strings.ToUpper(strings.TrimSpace(explicito)); hw != "" {
		return hw, nil
	}
	hw, err := s.identidad.MachineID()
	if err != nil {
		return "", apierror.LicenseDenied("No se pudo identificar el equipo").WithCause(err)
	}
	return hw, nil
}

func (s *licenciaService) MiHardwareID(ctx context.Context) (*dto.HardwareIDResponse, error) {
	hw, err := s.HardwareID("")
	if err != nil {
		return nil, err
	}
	return &dto.HardwareIDResponse{HardwareID: hw}, nil
}

// Activar stores a license after checking its key was derived for this
// RUC, machine and device limit.
func (s *licenciaService) Activar(ctx context.Context, req dto.ActivarLicenciaRequest) (*dto.EstadoLicenciaResponse, error) {
	hw, err := s.HardwareID(req.HardwareID)
	if err != nil {
		return nil, err
	}
	if !licencia.ClaveValida(req.Clave, req.RUC, hw, req.MaxDispositivos, s.secreto) {
		log.Warn().Str("ruc", req.RUC).Str("hardware_id", hw).Msg("licencia: clave invalida")
		return nil, apierror.LicenseDenied("Clave de licencia invalida")
	}

	lic, err := s.repo.FindByRUC(ctx, req.RUC)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		lic = &model.Licencia{RUC: req.RUC, ActivadaAt: time.Now()}
	case err != nil:
		return nil, apierror.Internal(err)
	}
	lic.RazonSocial = req.RazonSocial
	lic.Clave = strings.ToUpper(strings.TrimSpace(req.Clave))
	lic.MaxDispositivos = req.MaxDispositivos
	lic.Estado = "activa"
	if err := s.repo.Guardar(ctx, lic); err != nil {
		return nil, apierror.Internal(err)
	}
	log.Info().Str("ruc", lic.RUC).Int("max_dispositivos", lic.MaxDispositivos).Msg("licencia activada")
	return s.validar(ctx, lic.RUC, hw, nil)
}

// AutoActivar registers this machine against an existing license.
func (s *licenciaService) AutoActivar(ctx context.Context, req dto.AutoActivarRequest) (*dto.EstadoLicenciaResponse, error) {
	hw, err := s.HardwareID(req.HardwareID)
	if err != nil {
		return nil, err
	}
	var nombre *string
	if req.Nombre != "" {
		nombre = &req.Nombre
	}
	return s.validar(ctx, req.RUC, hw, nombre)
}

func (s *licenciaService) ValidarEstado(ctx context.Context, ruc, hwid string) (*dto.EstadoLicenciaResponse, error) {
	hw, err := s.HardwareID(hwid)
	if err != nil {
		return nil, err
	}
	return s.validar(ctx, ruc, hw, nil)
}

// validar resolves the license (given RUC, or the only one on record) and
// classifies the machine, registering it while under the device limit.
func (s *licenciaService) validar(ctx context.Context, ruc, hw string, nombre *string) (*dto.EstadoLicenciaResponse, error) {
	resp := &dto.EstadoLicenciaResponse{HardwareID: hw}
	lic, err := s.resolver(ctx, ruc)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return estado(resp, licencia.EstadoNoActivada), nil
	}
	resp.RUC = lic.RUC
	resp.RazonSocial = lic.RazonSocial
	resp.MaxDispositivos = lic.MaxDispositivos

	if lic.Estado == "revocada" {
		return estado(resp, licencia.EstadoDenegado), nil
	}
	if s.revocacion != nil && s.revocacion.Revocada(ctx, lic.RUC) {
		if err := s.repo.MarcarRevocada(ctx, lic.ID); err != nil {
			return nil, apierror.Internal(err)
		}
		log.Warn().Str("ruc", lic.RUC).Msg("licencia revocada remotamente")
		return estado(resp, licencia.EstadoDenegado), nil
	}

	var result licencia.Estado
	d, err := s.repo.FindDispositivo(ctx, lic.ID, hw)
	switch {
	case err == nil:
		if err := s.repo.TocarDispositivo(ctx, d.ID, time.Now()); err != nil {
			log.Warn().Err(err).Str("hardware_id", hw).Msg("licencia: no se pudo registrar el ultimo acceso")
		}
		result = licencia.EstadoAutorizado
	case errors.Is(err, gorm.ErrRecordNotFound):
		ok, err := s.repo.RegistrarDispositivo(ctx, lic.ID, hw, nombre, lic.MaxDispositivos)
		if err != nil {
			return nil, apierror.Internal(err)
		}
		result = licencia.EstadoLimiteAlcanzado
		if ok {
			result = licencia.EstadoNuevoDispositivo
			log.Info().Str("ruc", lic.RUC).Str("hardware_id", hw).Msg("licencia: nuevo dispositivo registrado")
		}
	default:
		return nil, apierror.Internal(err)
	}

	n, err := s.repo.CountDispositivos(ctx, lic.ID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp.Dispositivos = int(n)
	return estado(resp, result), nil
}

func (s *licenciaService) resolver(ctx context.Context, ruc string) (*model.Licencia, error) {
	if ruc != "" {
		lic, err := s.repo.FindByRUC(ctx, ruc)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, apierror.Internal(err)
		}
		return lic, nil
	}
	todas, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	if len(todas) != 1 {
		return nil, nil
	}
	return &todas[0], nil
}

func estado(resp *dto.EstadoLicenciaResponse, e licencia.Estado) *dto.EstadoLicenciaResponse {
	resp.Estado = string(e)
	resp.Permitido = e.Permitido()
	return resp
}
