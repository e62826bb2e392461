package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService registers users and issues session tokens. Registration also
// provisions the profile and an empty recovery wallet so every user has one
// from day one.
type AuthService struct {
	store       QueryStore
	email       *EmailService
	jwtSecret   []byte
	jwtIssuer   string
	jwtAudience string
	tokenTTL    time.Duration
}

func NewAuthService(store QueryStore, email *EmailService, jwtSecret []byte, issuer, audience string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:       store,
		email:       email,
		jwtSecret:   jwtSecret,
		jwtIssuer:   issuer,
		jwtAudience: audience,
		tokenTTL:    tokenTTL,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Country  string
	Currency string
}

func (in *RegisterInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" {
		return models.NewValidationError("username", "username is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return models.NewValidationError("email", "invalid email address")
	}
	if len(in.Password) < 8 {
		return models.NewValidationError("password", "password must be at least 8 characters")
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if len(in.Currency) != 3 {
		return models.NewValidationError("currency", "currency must be a 3-letter ISO code")
	}
	return nil
}

// Register creates the user, profile, and wallet in one transaction and sends
// the welcome email after commit.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	err = s.store.RunInTx(ctx, func(q *repository.Queries) error {
		if err := q.CreateUser(ctx, user); err != nil {
			return err
		}
		profile := &models.UserProfile{
			UserID:   user.ID,
			FullName: in.FullName,
			Phone:    in.Phone,
			Country:  in.Country,
		}
		if err := q.UpsertUserProfile(ctx, profile); err != nil {
			return err
		}
		wallet := &models.UserWallet{
			UserID:         user.ID,
			Balance:        decimal.Zero,
			PendingBalance: decimal.Zero,
			TotalRecovered: decimal.Zero,
			TotalWithdrawn: decimal.Zero,
			Currency:       in.Currency,
		}
		return q.CreateWallet(ctx, wallet)
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, user.ID, domain.EmailRegistration, user.Email,
		"Welcome to the recovery portal",
		fmt.Sprintf("Hello %s,\n\nYour account is ready. Submit a case to get started.\n", user.Username))
	return user, nil
}

// Login verifies credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.Queries().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"sub":     user.ID.String(),
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	if s.jwtIssuer != "" {
		claims["iss"] = s.jwtIssuer
	}
	if s.jwtAudience != "" {
		claims["aud"] = s.jwtAudience
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Profile returns the user's account and profile details.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, *models.UserProfile, error) {
	user, err := s.store.Queries().GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, models.ErrUserNotFound
		}
		return nil, nil, err
	}
	profile, err := s.store.Queries().GetUserProfile(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}
	if profile == nil {
		profile = &models.UserProfile{UserID: userID}
	}
	return user, profile, nil
}
