package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// UserRepository es el contrato de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
