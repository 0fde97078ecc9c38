package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// listaRevocados is the body served by the revocation endpoint.
type listaRevocados struct {
	Revocados []string `json:"revocados"`
}

// cacheRevocados bounds how often the deny-list is fetched; the session
// guard asks on every request.
const cacheRevocados = 10 * time.Minute

// RevocacionClient queries the remote license deny-list.
type RevocacionClient struct {
	url        string
	httpClient *http.Client
	breaker    *Breaker

	mu         sync.Mutex
	lista      listaRevocados
	obtenidaAt time.Time
}

func NewRevocacionClient(url string, timeout time.Duration) *RevocacionClient {
	return &RevocacionClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    NewBreaker("revocacion", 3, 5*time.Minute),
	}
}

// Revocada reports whether ruc is on the deny-list. It fails open: an unset
// URL, a timeout, an open breaker or a malformed answer all return false.
func (c *RevocacionClient) Revocada(ctx context.Context, ruc string) bool {
	if c == nil || c.url == "" {
		return false
	}
	lista, err := c.obtener(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", c.url).Msg("revocacion: consulta fallida, se permite el acceso")
		return false
	}
	ruc = strings.TrimSpace(ruc)
	for _, r := range lista.Revocados {
		if strings.TrimSpace(r) == ruc {
			return true
		}
	}
	return false
}

func (c *RevocacionClient) obtener(ctx context.Context) (listaRevocados, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.obtenidaAt.IsZero() && time.Since(c.obtenidaAt) < cacheRevocados {
		return c.lista, nil
	}
	var lista listaRevocados
	if err := c.breaker.Ejecutar(func() error { return c.consultar(ctx, &lista) }); err != nil {
		return listaRevocados{}, err
	}
	c.lista, c.obtenidaAt = lista, time.Now()
	return lista, nil
}

func (c *RevocacionClient) consultar(ctx context.Context, out *listaRevocados) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("revocacion: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revocacion: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocacion: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("revocacion: decode: %w", err)
	}
	return nil
}

// EstadoBreaker exposes the breaker state for the health endpoint.
func (c *RevocacionClient) EstadoBreaker() string {
	if c == nil || c.url == "" {
		return "deshabilitado"
	}
	return c.breaker.Estado()
}
