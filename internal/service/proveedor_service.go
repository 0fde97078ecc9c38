package service

import (
	"context"
	"errors"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorService interface {
	Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, u auth.ActingUser, buscar string) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProveedores); err != nil {
		return nil, err
	}
	switch _, err := s.repo.FindByRUC(ctx, req.RUC); {
	case err == nil:
		return nil, apierror.Conflict("Ya existe un proveedor con RUC " + req.RUC)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apierror.Internal(err)
	}

	p := &model.Proveedor{
		RUC:             req.RUC,
		RazonSocial:     req.RazonSocial,
		NombreComercial: req.NombreComercial,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Direccion:       req.Direccion,
		DiasCredito:     req.DiasCredito,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, u, p); err != nil {
		return nil, guardarErr(err, "Ya existe un proveedor con RUC "+req.RUC)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProveedorResponse, error) {
	if err := u.RequireAccess(auth.PermProveedores); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscarErr(err, "Proveedor")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, u auth.ActingUser, buscar string) ([]dto.ProveedorResponse, error) {
	if err := u.RequireAccess(auth.PermProveedores); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, buscar)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *proveedorToResponse(&list[i]))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProveedores); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscarErr(err, "Proveedor")
	}
	if req.RazonSocial != nil {
		p.RazonSocial = *req.RazonSocial
	}
	if req.NombreComercial != nil {
		p.NombreComercial = req.NombreComercial
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if req.DiasCredito != nil {
		p.DiasCredito = *req.DiasCredito
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, u, p); err != nil {
		return nil, txErr(err)
	}
	return proveedorToResponse(p), nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:              p.ID.String(),
		RUC:             p.RUC,
		RazonSocial:     p.RazonSocial,
		NombreComercial: p.NombreComercial,
		Telefono:        p.Telefono,
		Email:           p.Email,
		Direccion:       p.Direccion,
		DiasCredito:     p.DiasCredito,
		Activo:          p.Activo,
	}
}
