package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService registers users and issues HS256 tokens carrying user_id.
type AuthService struct {
	Users     UserStore
	Secret    []byte
	RequestID string
	Now       func() time.Time
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the login response.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "tidak valid"}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "minimal 8 karakter"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "gagal meng-hash password", Err: err}
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         utils.NormalizeSpace(in.Name),
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+u.ID)
	return u, nil
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	bad := domain.UnauthorizedError{Msg: "email atau password salah"}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return Session{}, bad
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, bad
	}

	exp := s.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return Session{}, domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+u.ID)
	return Session{Token: signed, ExpiresAt: exp, User: u}, nil
}

// ParseToken validates a bearer token and returns its user_id claim.
func (s AuthService) ParseToken(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	uid, _ := claims["user_id"].(string)
	if uid == "" {
		return "", domain.UnauthorizedError{Msg: "token tanpa user_id"}
	}
	return uid, nil
}

var errNoSecret = errors.New("jwt secret kosong")

// Ready reports whether tokens can be signed.
func (s AuthService) Ready() error {
	if len(s.Secret) == 0 {
		return errNoSecret
	}
	return nil
}
