package entity

import "time"

// Servicio representa un servicio o sala del hospital (pediatría, urgencias,
// etc.) que solicita medicamentos y reporta consumos por cama.
type Servicio struct {
	ID       string
	Nombre   string
	Camas    int // capacidad fija de camas de la sala
	Activo   bool
	CreadoEn time.Time
}
