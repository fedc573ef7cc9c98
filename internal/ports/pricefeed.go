package ports

import "context"

// PriceFeed entrega precios de referencia al driver de rondas. El
// engine nunca consulta precios por sí mismo: recibe el precio de
// entrada al abrir y el de liquidación al resolver.
type PriceFeed interface {
	// Current devuelve el precio actual en unidades enteras del feed.
	Current(ctx context.Context) (uint64, error)
}
