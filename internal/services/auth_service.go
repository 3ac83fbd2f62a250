package services

import (
	"fmt"
	"time"

	"lockedin/internal/models"
	"lockedin/internal/repositories"
	"lockedin/pkg/logger"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, sign-in, token issuance and verification,
// and self-service account updates. It is the only component that touches
// password hashes or the signing secret.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// AccountUpdate carries the optional fields of a self-service account update.
// Empty strings mean "leave unchanged".
type AccountUpdate struct {
	Username string
	Email    string
	Password string
}

// NewAuthService creates a new AuthService. Tokens are valid for one hour
// from issuance.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Hour,
	}
}

// Register creates a new account with a bcrypt-hashed password. The plaintext
// is never stored. No token is issued here: the caller signs in separately.
func (s *AuthService) Register(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return err
	}
	return nil
}

// Login verifies the credentials and returns a signed token embedding the
// user's id and email. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.signToken(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// ValidateToken parses and verifies a token, returning its claims. Signature
// and expiry are checked together and every failure collapses to
// ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		logger.Get().Debug().Err(err).Msg("token validation failed")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Profile looks up the account behind the authenticated email claim.
func (s *AuthService) Profile(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(email)
}

// UpdateAccount applies the provided subset of username/email/password to the
// caller's own row and re-issues a token reflecting the new claims. Clients
// are expected to replace their held token; the guard trusts signed claims
// without a store lookup, so the old token stays usable until it expires.
func (s *AuthService) UpdateAccount(userID uint, currentEmail string, upd AccountUpdate) (string, error) {
	fields := make(map[string]any)
	if upd.Username != "" {
		fields["username"] = upd.Username
	}
	if upd.Email != "" {
		fields["email"] = upd.Email
	}
	if upd.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hashed)
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: no fields provided to update", ErrValidation)
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   currentEmail,
	}
	if upd.Email != "" {
		claims["email"] = upd.Email
	}
	if upd.Username != "" {
		claims["username"] = upd.Username
	}
	return s.signToken(claims)
}

// signToken stamps exp/iat onto the claims and signs with the single
// configured secret.
func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["exp"] = now.Add(s.tokenTTL).Unix()
	claims["iat"] = now.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
