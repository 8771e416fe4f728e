package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	users        repository.UserRepository
	tokenManager *TokenManager
	hashCost     int
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *entity.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
		hashCost:     bcrypt.DefaultCost,
	}
}

// WithHashCost меняет стоимость bcrypt (в тестах используется bcrypt.MinCost).
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register создаёт нового пользователя и выдаёт токены.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user, err := entity.NewUser(in.Name, in.Email, string(passHash))
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperror.Conflict("email уже зарегистрирован")
		}
		return nil, err
	}

	return s.issue(ctx, user)
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh выпускает новую пару токенов. Старый refresh токен перестаёт действовать.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*AuthResult, error) {
	userID, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh токен невалиден")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "refresh токен невалиден")
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != oldToken {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "refresh токен отозван")
	}

	return s.issue(ctx, user)
}

// Logout отзывает текущий refresh токен пользователя.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.UpdateRefreshToken(ctx, userID, nil)
}

// Me возвращает текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, user *entity.User) (*AuthResult, error) {
	pair, err := s.tokenManager.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, err
	}
	token := pair.RefreshToken
	user.RefreshToken = &token

	return &AuthResult{User: user, TokenPair: pair}, nil
}
