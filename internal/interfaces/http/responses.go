package http

import (
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
)

// Mapeos entity -> DTO para respuestas HTTP.

func toInsumoResponse(i *entity.InsumoPresentacion) dto.InsumoResponse {
	return dto.InsumoResponse{
		ID:             i.ID,
		Nombre:         i.Nombre,
		Presentacion:   i.Presentacion,
		UnidadMedida:   i.UnidadMedida,
		PrecioUnitario: i.PrecioUnitario,
		Activo:         i.Activo,
	}
}

func toLoteResponse(l *entity.Lote) dto.LoteResponse {
	return dto.LoteResponse{
		ID:               l.ID,
		NumeroLote:       l.NumeroLote,
		Cantidad:         l.Cantidad,
		CostoUnitario:    l.CostoUnitario,
		FechaVencimiento: l.FechaVencimiento,
		Estado:           l.Estado,
	}
}

func toServicioResponse(s *entity.Servicio) dto.ServicioResponse {
	return dto.ServicioResponse{
		ID:     s.ID,
		Nombre: s.Nombre,
		Camas:  s.Camas,
		Activo: s.Activo,
	}
}

func toSaldoResponse(s *entity.Saldo) dto.SaldoResponse {
	return dto.SaldoResponse{
		InsumoPresentacionID: s.InsumoPresentacionID,
		Cantidad:             s.Cantidad,
		CostoPromedio:        s.CostoPromedio,
	}
}

func toMovimientoResponse(m *entity.Movimiento) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:            m.ID,
		Secuencia:     m.Secuencia,
		Tipo:          m.Tipo,
		LoteID:        m.LoteID,
		Cantidad:      m.Cantidad,
		CostoUnitario: m.CostoUnitario,
		CostoTotal:    m.CostoTotal,
		Fecha:         m.Fecha,
		DocTipo:       m.DocTipo,
		DocID:         m.DocID,
	}
}

func toRequisicionResponse(r *entity.Requisicion) dto.RequisicionResponse {
	out := dto.RequisicionResponse{
		ID:            r.ID,
		ServicioID:    r.ServicioID,
		Prioridad:     r.Prioridad,
		Estado:        r.Estado,
		MotivoAnula:   r.MotivoAnula,
		SolicitadoPor: r.SolicitadoPor,
		SolicitadoEn:  r.SolicitadoEn,
		AutorizadoPor: r.AutorizadoPor,
		AutorizadoEn:  r.AutorizadoEn,
		EntregadoPor:  r.EntregadoPor,
		EntregadoEn:   r.EntregadoEn,
		Detalles:      make([]dto.RequisicionDetalleResponse, 0, len(r.Detalles)),
	}
	for _, d := range r.Detalles {
		out.Detalles = append(out.Detalles, dto.RequisicionDetalleResponse{
			ID:                   d.ID,
			InsumoPresentacionID: d.InsumoPresentacionID,
			CantidadSolicitada:   d.CantidadSolicitada,
			CantidadAutorizada:   d.CantidadAutorizada,
			CantidadEntregada:    d.CantidadEntregada,
			PrecioUnitario:       d.PrecioUnitario,
		})
	}
	return out
}

func toConsolidadoResponse(co *entity.Consolidado) dto.ConsolidadoResponse {
	out := dto.ConsolidadoResponse{
		ID:          co.ID,
		ServicioID:  co.ServicioID,
		Fecha:       co.Fecha,
		Turno:       co.Turno,
		Estado:      co.Estado,
		MotivoAnula: co.MotivoAnula,
		CerradoPor:  co.CerradoPor,
		CerradoEn:   co.CerradoEn,
		Detalles:    make([]dto.ConsolidadoDetalleResponse, 0, len(co.Detalles)),
	}
	for _, d := range co.Detalles {
		out.Detalles = append(out.Detalles, dto.ConsolidadoDetalleResponse{
			ID:                   d.ID,
			Cama:                 d.Cama,
			PacienteRef:          d.PacienteRef,
			InsumoPresentacionID: d.InsumoPresentacionID,
			Cantidad:             d.Cantidad,
		})
	}
	return out
}

func toCuadreResponse(cu *entity.Cuadre) dto.CuadreResponse {
	out := dto.CuadreResponse{
		ID:            cu.ID,
		Fecha:         cu.Fecha,
		Turnista:      cu.Turnista,
		Bodeguero:     cu.Bodeguero,
		Observaciones: cu.Observaciones,
		Estado:        cu.Estado,
		Detalles:      make([]dto.CuadreDetalleResponse, 0, len(cu.Detalles)),
	}
	for _, d := range cu.Detalles {
		line := dto.CuadreDetalleResponse{
			ID:                   d.ID,
			InsumoPresentacionID: d.InsumoPresentacionID,
			Teorico:              d.Teorico,
		}
		if d.Conteo.Contado {
			fisica := d.Conteo.Fisica
			diferencia := d.Diferencia
			line.CantidadFisica = &fisica
			line.Diferencia = &diferencia
		}
		out.Detalles = append(out.Detalles, line)
	}
	return out
}
