package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

type AccountService struct {
	repo ports.AccountRepository
}

func NewAccountService(repo ports.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Register creates an account. Name must be letters only; the password must
// be at least 8 characters, contain a digit and start with an uppercase
// letter.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if !validName(name) {
		return nil, domain.ErrInvalidAccountName
	}
	if !validPassword(password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		CredentialHash: string(hash),
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies the credentials and returns the account profile.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongPassword
	}
	return account, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	runes := []rune(password)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
