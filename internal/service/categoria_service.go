package service

import (
	"context"
	"strings"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, u auth.ActingUser, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, u auth.ActingUser) ([]dto.CategoriaResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func (s *categoriaService) Crear(ctx context.Context, u auth.ActingUser, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProductos); err != nil {
		return dto.CategoriaResponse{}, err
	}
	nombre := strings.TrimSpace(req.Nombre)

	existentes, err := s.repo.List(ctx)
	if err != nil {
		return dto.CategoriaResponse{}, apierror.Internal(err)
	}
	for _, c := range existentes {
		if strings.EqualFold(c.Nombre, nombre) {
			return dto.CategoriaResponse{}, apierror.Conflict("Ya existe una categoria con ese nombre")
		}
	}

	c := &model.Categoria{Nombre: nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.repo.Create(ctx, u, c); err != nil {
		return dto.CategoriaResponse{}, guardarErr(err, "Ya existe una categoria con ese nombre")
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, u auth.ActingUser) ([]dto.CategoriaResponse, error) {
	if err := u.RequireAccess(auth.PermProductos); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}
