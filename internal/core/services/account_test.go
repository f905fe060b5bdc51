package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/testutil"
)

func TestAccountService_Register(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

	account, err := svc.Register(context.Background(), "Alice", "Alice@Test.com", "Sunset99pass")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", account.Name)
	assert.Equal(t, "alice@test.com", account.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte("Sunset99pass")))
	repo.AssertExpectations(t)
}

func TestAccountService_Register_InvalidName(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	for _, name := range []string{"", "Alice99", "Alice Smith", "a-b"} {
		_, err := svc.Register(context.Background(), name, "a@test.com", "Sunset99pass")
		assert.ErrorIs(t, err, domain.ErrInvalidAccountName, "name %q", name)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	for _, password := range []string{"short1A", "lowercase99", "Nodigitshere", "Ab1"} {
		_, err := svc.Register(context.Background(), "Alice", "a@test.com", password)
		assert.ErrorIs(t, err, domain.ErrWeakPassword, "password %q", password)
	}
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := svc.Register(context.Background(), "Alice", "dup@test.com", "Sunset99pass")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAccountService_Login(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sunset99pass"), bcrypt.MinCost)
	assert.NoError(t, err)
	repo.On("GetByEmail", mock.Anything, "alice@test.com").
		Return(&domain.Account{Email: "alice@test.com", Name: "Alice", CredentialHash: string(hash)}, nil)

	account, err := svc.Login(context.Background(), "Alice@Test.com", "Sunset99pass")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", account.Name)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sunset99pass"), bcrypt.MinCost)
	assert.NoError(t, err)
	repo.On("GetByEmail", mock.Anything, "alice@test.com").
		Return(&domain.Account{Email: "alice@test.com", CredentialHash: string(hash)}, nil)

	_, err = svc.Login(context.Background(), "alice@test.com", "WrongPass99")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	repo := new(testutil.MockAccountRepo)
	svc := NewAccountService(repo)

	repo.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, domain.ErrAccountNotFound)

	_, err := svc.Login(context.Background(), "ghost@test.com", "Sunset99pass")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
