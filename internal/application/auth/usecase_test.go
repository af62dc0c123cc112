package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalsr/farmacia-api/internal/application/auth"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/testutil"
	"github.com/hospitalsr/farmacia-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func setup(t *testing.T) (*testutil.Store, *auth.UseCase) {
	t.Helper()
	store := testutil.NewStore()
	uc := auth.NewUseCase(store.Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "farmacia-api",
	})
	return store, uc
}

func TestRegisterUser_CreaConHashYRolPorDefecto(t *testing.T) {
	store, uc := setup(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "enfermera@hospital.sr",
		Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "enfermeria", resp.Role, "rol por defecto")
	assert.Equal(t, "enfermera@hospital.sr", resp.Name, "sin nombre usa el email")
	assert.Equal(t, "active", resp.Status)

	guardado, err := store.Users().FindByEmail("enfermera@hospital.sr")
	require.NoError(t, err)
	require.NotNil(t, guardado)
	assert.NotEqual(t, "clave-segura", guardado.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("clave-segura")))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	_, uc := setup(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "b@hospital.sr", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "b@hospital.sr", Password: "otra-clave-89"})
	assert.ErrorIs(t, err, domain.ErrDuplicado)
}

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	_, uc := setup(t)

	reg, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "bodega@hospital.sr",
		Password: "clave-segura",
		Name:     "Bodeguero Central",
		Role:     "bodeguero",
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "bodega@hospital.sr", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, "bodeguero", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	_, uc := setup(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "c@hospital.sr", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "c@hospital.sr", Password: "clave-mala!"})
	assert.ErrorIs(t, err, domain.ErrNoAutorizado, "password incorrecto")

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@hospital.sr", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrNoAutorizado, "usuario inexistente")
}
