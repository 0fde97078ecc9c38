package service

import (
	"context"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClienteService interface {
	Crear(ctx context.Context, u auth.ActingUser, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, u auth.ActingUser, buscar string, page, limit int) ([]dto.ClienteResponse, int64, error)
	// Actualizar never touches Saldo; the balance moves only with sales,
	// cancellations and payments.
	Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, u auth.ActingUser, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if err := u.AuthorizeWrite(auth.PermClientes); err != nil {
		return nil, err
	}
	if req.LimiteCredito.IsNegative() {
		return nil, apierror.ValidationFields(map[string]string{"limite_credito": "min"})
	}
	c := &model.Cliente{
		Identificacion:     req.Identificacion,
		TipoIdentificacion: req.TipoIdentificacion,
		Nombre:             req.Nombre,
		Email:              req.Email,
		Telefono:           req.Telefono,
		Direccion:          req.Direccion,
		LimiteCredito:      req.LimiteCredito,
		Saldo:              decimal.Zero,
		Activo:             true,
	}
	if c.TipoIdentificacion == "" {
		c.TipoIdentificacion = "cedula"
	}
	if err := s.repo.Create(ctx, u, c); err != nil {
		return nil, guardarErr(err, "Ya existe un cliente con identificacion "+req.Identificacion)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, u auth.ActingUser, buscar string, page, limit int) ([]dto.ClienteResponse, int64, error) {
	if err := u.RequireAccess(auth.PermClientes); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.List(ctx, buscar, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.ClienteResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *clienteToResponse(&list[i]))
	}
	return resp, total, nil
}

func (s *clienteService) Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	if err := u.AuthorizeWrite(auth.PermClientes); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscarErr(err, "Cliente")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.LimiteCredito != nil {
		if req.LimiteCredito.IsNegative() {
			return nil, apierror.ValidationFields(map[string]string{"limite_credito": "min"})
		}
		c.LimiteCredito = *req.LimiteCredito
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, u, c); err != nil {
		return nil, txErr(err)
	}
	return clienteToResponse(c), nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                 c.ID.String(),
		Identificacion:     c.Identificacion,
		TipoIdentificacion: c.TipoIdentificacion,
		Nombre:             c.Nombre,
		Email:              c.Email,
		Telefono:           c.Telefono,
		Direccion:          c.Direccion,
		LimiteCredito:      c.LimiteCredito,
		Saldo:              c.Saldo,
		Activo:             c.Activo,
	}
}
