// Package testutil provee implementaciones en memoria de los repositorios y
// del TxRunner para los tests de casos de uso. El TxRunner toma una foto del
// estado antes de ejecutar y la restaura si la función falla, reproduciendo la
// semántica todo-o-nada de una transacción de BD real.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
)

// Store es el estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	insumos      map[string]*entity.InsumoPresentacion
	lotes        map[string]*entity.Lote
	movimientos  []*entity.Movimiento
	secuencia    int64
	saldos       map[string]*entity.Saldo
	requis       map[string]*entity.Requisicion
	consolidados map[string]*entity.Consolidado
	cuadres      map[string]*entity.Cuadre
	vigilados    map[string]*entity.CuadreInsumo
	servicios    map[string]*entity.Servicio
	users        map[string]*entity.User
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		insumos:      map[string]*entity.InsumoPresentacion{},
		lotes:        map[string]*entity.Lote{},
		saldos:       map[string]*entity.Saldo{},
		requis:       map[string]*entity.Requisicion{},
		consolidados: map[string]*entity.Consolidado{},
		cuadres:      map[string]*entity.Cuadre{},
		vigilados:    map[string]*entity.CuadreInsumo{},
		servicios:    map[string]*entity.Servicio{},
		users:        map[string]*entity.User{},
	}
}

// RepoSet devuelve los repositorios sobre este store, en la forma que esperan
// los casos de uso fuera de transacción.
func (s *Store) RepoSet() kardex.RepoSet {
	return kardex.RepoSet{
		Insumos:       &InsumoRepo{s: s},
		Lotes:         &LoteRepo{s: s},
		Movimientos:   &MovimientoRepo{s: s},
		Saldos:        &SaldoRepo{s: s},
		Requisiciones: &RequisicionRepo{s: s},
		Consolidados:  &ConsolidadoRepo{s: s},
		Cuadres:       &CuadreRepo{s: s},
	}
}

// Servicios devuelve el repositorio de servicios en memoria.
func (s *Store) Servicios() *ServicioRepo { return &ServicioRepo{s: s} }

// Users devuelve el repositorio de usuarios en memoria.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// ── clones ───────────────────────────────────────────────────────────────────

func cloneInsumo(i *entity.InsumoPresentacion) *entity.InsumoPresentacion {
	c := *i
	return &c
}

func cloneLote(l *entity.Lote) *entity.Lote {
	c := *l
	return &c
}

func cloneMovimiento(m *entity.Movimiento) *entity.Movimiento {
	c := *m
	if m.LoteID != nil {
		id := *m.LoteID
		c.LoteID = &id
	}
	return &c
}

func cloneSaldo(s *entity.Saldo) *entity.Saldo {
	c := *s
	return &c
}

func cloneRequisicion(r *entity.Requisicion) *entity.Requisicion {
	c := *r
	if r.AutorizadoEn != nil {
		t := *r.AutorizadoEn
		c.AutorizadoEn = &t
	}
	if r.EntregadoEn != nil {
		t := *r.EntregadoEn
		c.EntregadoEn = &t
	}
	c.Detalles = make([]*entity.RequisicionDetalle, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		dc := *d
		c.Detalles = append(c.Detalles, &dc)
	}
	return &c
}

func cloneConsolidado(co *entity.Consolidado) *entity.Consolidado {
	c := *co
	if co.CerradoEn != nil {
		t := *co.CerradoEn
		c.CerradoEn = &t
	}
	c.Detalles = make([]*entity.ConsolidadoDetalle, 0, len(co.Detalles))
	for _, d := range co.Detalles {
		dc := *d
		c.Detalles = append(c.Detalles, &dc)
	}
	return &c
}

func cloneCuadre(cu *entity.Cuadre) *entity.Cuadre {
	c := *cu
	c.Detalles = make([]*entity.CuadreDetalle, 0, len(cu.Detalles))
	for _, d := range cu.Detalles {
		dc := *d
		c.Detalles = append(c.Detalles, &dc)
	}
	return &c
}

func cloneCuadreInsumo(ci *entity.CuadreInsumo) *entity.CuadreInsumo {
	c := *ci
	return &c
}

func cloneServicio(sv *entity.Servicio) *entity.Servicio {
	c := *sv
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

// snapshot copia profunda de todo el estado, para el rollback del TxRunner.
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.insumos {
		snap.insumos[k] = cloneInsumo(v)
	}
	for k, v := range s.lotes {
		snap.lotes[k] = cloneLote(v)
	}
	for _, m := range s.movimientos {
		snap.movimientos = append(snap.movimientos, cloneMovimiento(m))
	}
	snap.secuencia = s.secuencia
	for k, v := range s.saldos {
		snap.saldos[k] = cloneSaldo(v)
	}
	for k, v := range s.requis {
		snap.requis[k] = cloneRequisicion(v)
	}
	for k, v := range s.consolidados {
		snap.consolidados[k] = cloneConsolidado(v)
	}
	for k, v := range s.cuadres {
		snap.cuadres[k] = cloneCuadre(v)
	}
	for k, v := range s.vigilados {
		snap.vigilados[k] = cloneCuadreInsumo(v)
	}
	for k, v := range s.servicios {
		snap.servicios[k] = cloneServicio(v)
	}
	for k, v := range s.users {
		snap.users[k] = cloneUser(v)
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.insumos = snap.insumos
	s.lotes = snap.lotes
	s.movimientos = snap.movimientos
	s.secuencia = snap.secuencia
	s.saldos = snap.saldos
	s.requis = snap.requis
	s.consolidados = snap.consolidados
	s.cuadres = snap.cuadres
	s.vigilados = snap.vigilados
	s.servicios = snap.servicios
	s.users = snap.users
}

// TxRunner ejecuta fn contra el store y revierte todo el estado si falla.
type TxRunner struct {
	s *Store
}

var _ kardex.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner en memoria sobre el store dado.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run toma una foto, ejecuta fn y restaura la foto si fn devuelve error.
func (t *TxRunner) Run(_ context.Context, fn func(r kardex.RepoSet) error) error {
	snap := t.s.snapshot()
	if err := fn(t.s.RepoSet()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ── InsumoRepo ───────────────────────────────────────────────────────────────

type InsumoRepo struct{ s *Store }

func (r *InsumoRepo) Create(i *entity.InsumoPresentacion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.insumos[i.ID]; ok {
		return domain.ErrDuplicado
	}
	r.s.insumos[i.ID] = cloneInsumo(i)
	return nil
}

func (r *InsumoRepo) GetByID(id string) (*entity.InsumoPresentacion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.insumos[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneInsumo(i), nil
}

func (r *InsumoRepo) List(soloActivos bool, limit, offset int) ([]*entity.InsumoPresentacion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InsumoPresentacion
	for _, i := range r.s.insumos {
		if soloActivos && !i.Activo {
			continue
		}
		out = append(out, cloneInsumo(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return paginate(out, limit, offset), nil
}

func (r *InsumoRepo) Update(i *entity.InsumoPresentacion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.insumos[i.ID]; !ok {
		return domain.ErrNoEncontrado
	}
	r.s.insumos[i.ID] = cloneInsumo(i)
	return nil
}

// ── LoteRepo ─────────────────────────────────────────────────────────────────

type LoteRepo struct{ s *Store }

func (r *LoteRepo) Create(l *entity.Lote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lotes[l.ID]; ok {
		return domain.ErrDuplicado
	}
	if l.CreadoEn.IsZero() {
		l.CreadoEn = time.Now()
	}
	r.s.lotes[l.ID] = cloneLote(l)
	return nil
}

func (r *LoteRepo) GetByID(id string) (*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lotes[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneLote(l), nil
}

func (r *LoteRepo) GetForUpdate(id string) (*entity.Lote, error) {
	return r.GetByID(id)
}

func (r *LoteRepo) ListByInsumo(insumoID string) ([]*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Lote
	for _, l := range r.s.lotes {
		if l.InsumoPresentacionID == insumoID {
			out = append(out, cloneLote(l))
		}
	}
	sortFEFO(out)
	return out, nil
}

func (r *LoteRepo) ListDisponiblesForUpdate(insumoID string) ([]*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Lote
	for _, l := range r.s.lotes {
		if l.InsumoPresentacionID != insumoID || l.Estado != entity.LoteDisponible {
			continue
		}
		if !l.Cantidad.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, cloneLote(l))
	}
	sortFEFO(out)
	return out, nil
}

func (r *LoteRepo) Update(l *entity.Lote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lotes[l.ID]; !ok {
		return domain.ErrNoEncontrado
	}
	r.s.lotes[l.ID] = cloneLote(l)
	return nil
}

func sortFEFO(lotes []*entity.Lote) {
	sort.SliceStable(lotes, func(i, j int) bool {
		if !lotes[i].FechaVencimiento.Equal(lotes[j].FechaVencimiento) {
			return lotes[i].FechaVencimiento.Before(lotes[j].FechaVencimiento)
		}
		return lotes[i].CreadoEn.Before(lotes[j].CreadoEn)
	})
}

// ── MovimientoRepo ───────────────────────────────────────────────────────────

type MovimientoRepo struct{ s *Store }

func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.secuencia++
	m.Secuencia = r.s.secuencia
	if m.CreadoEn.IsZero() {
		m.CreadoEn = time.Now()
	}
	r.s.movimientos = append(r.s.movimientos, cloneMovimiento(m))
	return nil
}

func (r *MovimientoRepo) ListByInsumo(insumoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movimiento
	for _, m := range r.s.movimientos {
		if m.InsumoPresentacionID != insumoID {
			continue
		}
		if desde != nil && m.Fecha.Before(*desde) {
			continue
		}
		if hasta != nil && m.Fecha.After(*hasta) {
			continue
		}
		out = append(out, cloneMovimiento(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.Before(out[j].Fecha)
		}
		return out[i].Secuencia < out[j].Secuencia
	})
	return paginate(out, limit, offset), nil
}

func (r *MovimientoRepo) SumByInsumo(insumoID string, corte *time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.s.movimientos {
		if m.InsumoPresentacionID != insumoID {
			continue
		}
		if corte != nil && m.Fecha.After(*corte) {
			continue
		}
		total = total.Add(m.Cantidad)
	}
	return total, nil
}

// ── SaldoRepo ────────────────────────────────────────────────────────────────

type SaldoRepo struct{ s *Store }

// Get devuelve saldo en cero si aún no hay fila, igual que postgres.
func (r *SaldoRepo) Get(insumoID string) (*entity.Saldo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sd, ok := r.s.saldos[insumoID]
	if !ok {
		return &entity.Saldo{
			InsumoPresentacionID: insumoID,
			Cantidad:             decimal.Zero,
			CostoPromedio:        decimal.Zero,
		}, nil
	}
	return cloneSaldo(sd), nil
}

// GetForUpdate crea la fila en cero si no existe, igual que la implementación
// de postgres (siempre hay fila que bloquear).
func (r *SaldoRepo) GetForUpdate(insumoID string) (*entity.Saldo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sd, ok := r.s.saldos[insumoID]
	if !ok {
		sd = &entity.Saldo{
			InsumoPresentacionID: insumoID,
			Cantidad:             decimal.Zero,
			CostoPromedio:        decimal.Zero,
			ActualizadoEn:        time.Now(),
		}
		r.s.saldos[insumoID] = sd
	}
	return cloneSaldo(sd), nil
}

func (r *SaldoRepo) Upsert(sd *entity.Saldo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saldos[sd.InsumoPresentacionID] = cloneSaldo(sd)
	return nil
}

// ── RequisicionRepo ──────────────────────────────────────────────────────────

type RequisicionRepo struct{ s *Store }

func (r *RequisicionRepo) Create(req *entity.Requisicion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requis[req.ID]; ok {
		return domain.ErrDuplicado
	}
	r.s.requis[req.ID] = cloneRequisicion(req)
	return nil
}

func (r *RequisicionRepo) GetByID(id string) (*entity.Requisicion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requis[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneRequisicion(req), nil
}

func (r *RequisicionRepo) List(estado string, limit, offset int) ([]*entity.Requisicion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Requisicion
	for _, req := range r.s.requis {
		if estado != "" && req.Estado != estado {
			continue
		}
		out = append(out, cloneRequisicion(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolicitadoEn.After(out[j].SolicitadoEn) })
	return paginate(out, limit, offset), nil
}

func (r *RequisicionRepo) UpdateEstado(req *entity.Requisicion, esperado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actual, ok := r.s.requis[req.ID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	if actual.Estado != esperado {
		return domain.ErrTransicionInvalida
	}
	actual.Estado = req.Estado
	actual.MotivoAnula = req.MotivoAnula
	actual.AutorizadoPor = req.AutorizadoPor
	actual.EntregadoPor = req.EntregadoPor
	if req.AutorizadoEn != nil {
		t := *req.AutorizadoEn
		actual.AutorizadoEn = &t
	}
	if req.EntregadoEn != nil {
		t := *req.EntregadoEn
		actual.EntregadoEn = &t
	}
	return nil
}

func (r *RequisicionRepo) UpdateDetalle(d *entity.RequisicionDetalle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requis[d.RequisicionID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	for i, existing := range req.Detalles {
		if existing.ID == d.ID {
			dc := *d
			req.Detalles[i] = &dc
			return nil
		}
	}
	return domain.ErrNoEncontrado
}

// ── ConsolidadoRepo ──────────────────────────────────────────────────────────

type ConsolidadoRepo struct{ s *Store }

func (r *ConsolidadoRepo) Create(co *entity.Consolidado) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consolidados[co.ID]; ok {
		return domain.ErrDuplicado
	}
	r.s.consolidados[co.ID] = cloneConsolidado(co)
	return nil
}

func (r *ConsolidadoRepo) GetByID(id string) (*entity.Consolidado, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	co, ok := r.s.consolidados[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneConsolidado(co), nil
}

func (r *ConsolidadoRepo) List(servicioID string, limit, offset int) ([]*entity.Consolidado, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Consolidado
	for _, co := range r.s.consolidados {
		if servicioID != "" && co.ServicioID != servicioID {
			continue
		}
		out = append(out, cloneConsolidado(co))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return paginate(out, limit, offset), nil
}

func (r *ConsolidadoRepo) UpdateEstado(co *entity.Consolidado, esperado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actual, ok := r.s.consolidados[co.ID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	if actual.Estado != esperado {
		return domain.ErrTransicionInvalida
	}
	actual.Estado = co.Estado
	actual.MotivoAnula = co.MotivoAnula
	actual.CerradoPor = co.CerradoPor
	if co.CerradoEn != nil {
		t := *co.CerradoEn
		actual.CerradoEn = &t
	}
	return nil
}

// ── CuadreRepo ───────────────────────────────────────────────────────────────

type CuadreRepo struct{ s *Store }

func (r *CuadreRepo) Create(cu *entity.Cuadre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cuadres[cu.ID]; ok {
		return domain.ErrDuplicado
	}
	r.s.cuadres[cu.ID] = cloneCuadre(cu)
	return nil
}

func (r *CuadreRepo) GetByID(id string) (*entity.Cuadre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cu, ok := r.s.cuadres[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneCuadre(cu), nil
}

func (r *CuadreRepo) List(limit, offset int) ([]*entity.Cuadre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Cuadre
	for _, cu := range r.s.cuadres {
		out = append(out, cloneCuadre(cu))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return paginate(out, limit, offset), nil
}

func (r *CuadreRepo) UpdateEstado(cu *entity.Cuadre, esperado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actual, ok := r.s.cuadres[cu.ID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	if actual.Estado != esperado {
		return domain.ErrTransicionInvalida
	}
	actual.Estado = cu.Estado
	actual.Observaciones = cu.Observaciones
	return nil
}

func (r *CuadreRepo) UpdateDetalle(d *entity.CuadreDetalle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cu, ok := r.s.cuadres[d.CuadreID]
	if !ok {
		return domain.ErrNoEncontrado
	}
	for i, existing := range cu.Detalles {
		if existing.ID == d.ID {
			dc := *d
			cu.Detalles[i] = &dc
			return nil
		}
	}
	return domain.ErrNoEncontrado
}

func (r *CuadreRepo) ListInsumosVigilados() ([]*entity.CuadreInsumo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CuadreInsumo
	for _, ci := range r.s.vigilados {
		out = append(out, cloneCuadreInsumo(ci))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InsumoPresentacionID < out[j].InsumoPresentacionID
	})
	return out, nil
}

func (r *CuadreRepo) EnrolarInsumo(ci *entity.CuadreInsumo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vigilados[ci.InsumoPresentacionID] = cloneCuadreInsumo(ci)
	return nil
}

// ── ServicioRepo ─────────────────────────────────────────────────────────────

type ServicioRepo struct{ s *Store }

func (r *ServicioRepo) Create(sv *entity.Servicio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.servicios[sv.ID]; ok {
		return domain.ErrDuplicado
	}
	r.s.servicios[sv.ID] = cloneServicio(sv)
	return nil
}

func (r *ServicioRepo) GetByID(id string) (*entity.Servicio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sv, ok := r.s.servicios[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneServicio(sv), nil
}

func (r *ServicioRepo) List(limit, offset int) ([]*entity.Servicio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Servicio
	for _, sv := range r.s.servicios {
		out = append(out, cloneServicio(sv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return paginate(out, limit, offset), nil
}

// ── UserRepo ─────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicado
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNoEncontrado
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNoEncontrado
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
