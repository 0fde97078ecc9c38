package dto

// PaginaFilter is the query binding of plain paginated listings.
type PaginaFilter struct {
	Buscar string `form:"buscar"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// Pagina is the envelope of paginated listings without a dedicated type.
type Pagina[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type MensajeResponse struct {
	Message string `json:"message"`
}
