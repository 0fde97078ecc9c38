package infra

import (
	"errors"
	"sync"
	"time"

	"integrafacturacion/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Breaker guards calls to a remote dependency: after Umbral consecutive
// failures it rejects calls for Pausa, then lets a single trial call through.
// A successful trial closes it again; a failed one re-opens it.
type Breaker struct {
	nombre string
	umbral int
	pausa  time.Duration
	now    func() time.Time

	mu        sync.Mutex
	fallos    int
	abiertoAt time.Time
	sondeando bool
}

// ErrBreakerAbierto is returned while the breaker rejects calls.
var ErrBreakerAbierto = errors.New("breaker abierto")

func NewBreaker(nombre string, umbral int, pausa time.Duration) *Breaker {
	if umbral <= 0 {
		umbral = 5
	}
	if pausa <= 0 {
		pausa = time.Minute
	}
	return &Breaker{nombre: nombre, umbral: umbral, pausa: pausa, now: time.Now}
}

// Estado is "cerrado", "abierto" or "sondeo", for health output and logs.
func (b *Breaker) Estado() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.fallos < b.umbral:
		return "cerrado"
	case b.now().Sub(b.abiertoAt) >= b.pausa:
		return "sondeo"
	default:
		return "abierto"
	}
}

func (b *Breaker) permitir() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fallos < b.umbral {
		return true
	}
	if b.sondeando || b.now().Sub(b.abiertoAt) < b.pausa {
		return false
	}
	b.sondeando = true
	return true
}

func (b *Breaker) registrar(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sondeando = false
	if err == nil {
		if b.fallos >= b.umbral {
			log.Info().Str("breaker", b.nombre).Msg("breaker cerrado")
			metrics.BreakerState.WithLabelValues(b.nombre).Set(0)
		}
		b.fallos = 0
		return
	}
	b.fallos++
	if b.fallos >= b.umbral {
		if b.fallos == b.umbral {
			log.Warn().Str("breaker", b.nombre).Err(err).Msg("breaker abierto")
			metrics.BreakerState.WithLabelValues(b.nombre).Set(1)
		}
		b.abiertoAt = b.now()
	}
}

// Ejecutar runs fn unless the breaker is open.
func (b *Breaker) Ejecutar(fn func() error) error {
	if !b.permitir() {
		return ErrBreakerAbierto
	}
	err := fn()
	b.registrar(err)
	return err
}
