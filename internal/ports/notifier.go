package ports

import (
	"context"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// Notifier presenta las rondas liquidadas al usuario.
type Notifier interface {
	// RoundSettled muestra el desenlace de una ronda.
	// En la implementación de consola, imprime una tabla formateada.
	RoundSettled(ctx context.Context, report domain.RoundReport) error
}
