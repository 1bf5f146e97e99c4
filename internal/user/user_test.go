package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/keys"
)

// mockUserRepository for testing
type mockUserRepository struct {
	users map[string]*User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*User)}
}

func (m *mockUserRepository) CreateUser(u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetUserByID(id string) (*User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepository) GetUserByEmail(email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func newTestUserService(t *testing.T) *Service {
	privateKey, publicKey, err := keys.DeriveRSAKeyPair("test-signing-secret", "https://recordings.test")
	assert.NoError(t, err)

	return NewService(newMockUserRepository(), Config{JWTExpirationHours: 1}, privateKey, publicKey)
}

func TestRegister_ShouldCreateUserWithHashedPassword(t *testing.T) {
	// given
	service := newTestUserService(t)

	// when
	u, err := service.Register(RegisterRequest{Email: "Alice@Example.com", Name: "Alice", Password: "correct horse"})

	// then
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
}

func TestRegister_ShouldRejectDuplicateEmail(t *testing.T) {
	// given
	service := newTestUserService(t)
	_, err := service.Register(RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	assert.NoError(t, err)

	// when
	_, err = service.Register(RegisterRequest{Email: "alice@example.com", Name: "Other", Password: "other password"})

	// then
	assert.Equal(t, api.CodeInvalidInput, api.CodeOf(err))
}

func TestRegister_ShouldRejectShortPassword(t *testing.T) {
	// given
	service := newTestUserService(t)

	// when
	_, err := service.Register(RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "short"})

	// then
	assert.Equal(t, api.CodeInvalidInput, api.CodeOf(err))
}

func TestLogin_ShouldReturnVerifiableToken(t *testing.T) {
	// given
	service := newTestUserService(t)
	registered, err := service.Register(RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	assert.NoError(t, err)

	// when
	resp, err := service.Login(LoginRequest{Email: "alice@example.com", Password: "correct horse"})

	// then
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	validated, err := service.ValidateJWT(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, validated.ID)
}

func TestLogin_ShouldRejectWrongPassword(t *testing.T) {
	// given
	service := newTestUserService(t)
	_, err := service.Register(RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	assert.NoError(t, err)

	// when
	_, err = service.Login(LoginRequest{Email: "alice@example.com", Password: "wrong password"})

	// then
	assert.Equal(t, api.CodeUnauthorized, api.CodeOf(err))
}

func TestLogin_ShouldRejectUnknownEmail(t *testing.T) {
	// given
	service := newTestUserService(t)

	// when
	_, err := service.Login(LoginRequest{Email: "nobody@example.com", Password: "whatever password"})

	// then
	assert.Equal(t, api.CodeUnauthorized, api.CodeOf(err))
}

func TestExtractJWTFromAuthorizationHeader_ShouldExtractValidly(t *testing.T) {
	// given
	authHeader := "Bearer eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."

	// when
	token, err := extractJWTFromAuthorizationHeader(authHeader)

	// then
	assert.NoError(t, err)
	assert.Contains(t, token, "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9")
}

func TestExtractJWTFromAuthorizationHeader_ShouldFailWithInvalidFormat(t *testing.T) {
	// given
	authHeader := "InvalidFormat"

	// when
	token, err := extractJWTFromAuthorizationHeader(authHeader)

	// then
	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestValidateJWT_ShouldRejectTokenForDeletedUser(t *testing.T) {
	// given
	repo := newMockUserRepository()
	privateKey, publicKey, err := keys.DeriveRSAKeyPair("test-signing-secret", "https://recordings.test")
	assert.NoError(t, err)
	service := NewService(repo, Config{JWTExpirationHours: 1}, privateKey, publicKey)

	registered, err := service.Register(RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	assert.NoError(t, err)
	token, _, err := service.GenerateJWT(registered)
	assert.NoError(t, err)
	delete(repo.users, registered.ID)

	// when
	_, err = service.ValidateJWT(token)

	// then
	assert.Error(t, err)
}
