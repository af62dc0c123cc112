package catalogo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// UseCase es el mantenimiento básico del catálogo: insumos-presentación,
// sus lotes y servicios/salas. Plomería ligera sobre los repositorios; la
// lógica de inventario vive en kardex.
type UseCase struct {
	insumos   repository.InsumoRepository
	lotes     repository.LoteRepository
	servicios repository.ServicioRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(insumos repository.InsumoRepository, lotes repository.LoteRepository, servicios repository.ServicioRepository) *UseCase {
	return &UseCase{insumos: insumos, lotes: lotes, servicios: servicios}
}

// CrearInsumo registra un insumo-presentación activo.
func (uc *UseCase) CrearInsumo(ctx context.Context, in dto.CreateInsumoRequest) (*entity.InsumoPresentacion, error) {
	if in.Nombre == "" || in.Presentacion == "" || in.UnidadMedida == "" {
		return nil, domain.ErrEntradaInvalida
	}
	now := time.Now()
	insumo := &entity.InsumoPresentacion{
		ID:             uuid.New().String(),
		Nombre:         in.Nombre,
		Presentacion:   in.Presentacion,
		UnidadMedida:   in.UnidadMedida,
		PrecioUnitario: in.PrecioUnitario,
		Activo:         true,
		CreadoEn:       now,
		ActualizadoEn:  now,
	}
	if err := uc.insumos.Create(insumo); err != nil {
		return nil, err
	}
	return insumo, nil
}

// GetInsumo devuelve un insumo por id.
func (uc *UseCase) GetInsumo(ctx context.Context, id string) (*entity.InsumoPresentacion, error) {
	insumo, err := uc.insumos.GetByID(id)
	if err != nil {
		return nil, err
	}
	if insumo == nil {
		return nil, domain.ErrNoEncontrado
	}
	return insumo, nil
}

// ListInsumos lista insumos del catálogo.
func (uc *UseCase) ListInsumos(ctx context.Context, soloActivos bool, limit, offset int) ([]*entity.InsumoPresentacion, error) {
	return uc.insumos.List(soloActivos, limit, offset)
}

// ListLotes lista los lotes de un insumo.
func (uc *UseCase) ListLotes(ctx context.Context, insumoID string) ([]*entity.Lote, error) {
	if insumo, err := uc.insumos.GetByID(insumoID); err != nil || insumo == nil {
		return nil, domain.ErrNoEncontrado
	}
	return uc.lotes.ListByInsumo(insumoID)
}

// CrearServicio registra un servicio/sala.
func (uc *UseCase) CrearServicio(ctx context.Context, nombre string, camas int) (*entity.Servicio, error) {
	if nombre == "" || camas <= 0 {
		return nil, domain.ErrEntradaInvalida
	}
	servicio := &entity.Servicio{
		ID:       uuid.New().String(),
		Nombre:   nombre,
		Camas:    camas,
		Activo:   true,
		CreadoEn: time.Now(),
	}
	if err := uc.servicios.Create(servicio); err != nil {
		return nil, err
	}
	return servicio, nil
}

// ListServicios lista los servicios/salas.
func (uc *UseCase) ListServicios(ctx context.Context, limit, offset int) ([]*entity.Servicio, error) {
	return uc.servicios.List(limit, offset)
}
