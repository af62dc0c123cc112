package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// Consultas expone las lecturas del kardex: saldo actual, saldo a un corte por
// replay de movimientos y el listado kardex. Son lecturas concurrentes que no
// bloquean escritores más allá del aislamiento estándar de la transacción.
type Consultas struct {
	insumos     repository.InsumoRepository
	movimientos repository.MovimientoRepository
	saldos      repository.SaldoRepository
}

// NewConsultas construye las consultas de kardex con repositorios atados al pool.
func NewConsultas(insumos repository.InsumoRepository, movimientos repository.MovimientoRepository, saldos repository.SaldoRepository) *Consultas {
	return &Consultas{insumos: insumos, movimientos: movimientos, saldos: saldos}
}

// Saldo devuelve el saldo materializado (cantidad y costo promedio) del insumo.
func (c *Consultas) Saldo(insumoID string) (*entity.Saldo, error) {
	if insumo, err := c.insumos.GetByID(insumoID); err != nil || insumo == nil {
		return nil, domain.ErrNoEncontrado
	}
	return c.saldos.Get(insumoID)
}

// SaldoAlCorte reconstruye el saldo del insumo a la fecha de corte sumando los
// movimientos hasta ese instante en orden (fecha, secuencia). Es la consulta
// determinista "saldo a la fecha T" que consume el kardex histórico.
func (c *Consultas) SaldoAlCorte(insumoID string, corte time.Time) (decimal.Decimal, error) {
	if insumo, err := c.insumos.GetByID(insumoID); err != nil || insumo == nil {
		return decimal.Zero, domain.ErrNoEncontrado
	}
	return c.movimientos.SumByInsumo(insumoID, &corte)
}

// Kardex lista los movimientos del insumo en el rango dado, en orden estable
// (fecha, secuencia).
func (c *Consultas) Kardex(insumoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	if insumo, err := c.insumos.GetByID(insumoID); err != nil || insumo == nil {
		return nil, domain.ErrNoEncontrado
	}
	return c.movimientos.ListByInsumo(insumoID, desde, hasta, limit, offset)
}

// VerificacionSaldo es el resultado de contrastar la caché de saldo contra el
// replay completo del kardex.
type VerificacionSaldo struct {
	InsumoPresentacionID string
	SaldoCache           decimal.Decimal
	SaldoReplay          decimal.Decimal
	Consistente          bool
}

// VerificarSaldo recalcula el saldo desde el log de movimientos y lo compara
// con la caché materializada (auditoría: la caché nunca es autoritativa).
func (c *Consultas) VerificarSaldo(insumoID string) (*VerificacionSaldo, error) {
	saldo, err := c.Saldo(insumoID)
	if err != nil {
		return nil, err
	}
	replay, err := c.movimientos.SumByInsumo(insumoID, nil)
	if err != nil {
		return nil, err
	}
	return &VerificacionSaldo{
		InsumoPresentacionID: insumoID,
		SaldoCache:           saldo.Cantidad,
		SaldoReplay:          replay,
		Consistente:          saldo.Cantidad.Equal(replay),
	}, nil
}
