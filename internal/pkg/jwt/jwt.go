package jwt

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimSubject = "sub"
	ClaimIsAdmin = "is_admin"
	ClaimType    = "type"

	TokenTypeAccess = "access"
)

type Service interface {
	// GenerateAccessToken signs a token for subject. Admin tokens may export
	// reports and refresh the cache.
	GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", 0, auth.ErrInvalidSubject
	}
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimSubject: subject,
		ClaimIsAdmin: isAdmin,
		ClaimType:    TokenTypeAccess,
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}
