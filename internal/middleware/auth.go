package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/techforum-dev/techforum/internal/domain"
	jwt_internal "github.com/techforum-dev/techforum/internal/jwt"
	"github.com/techforum-dev/techforum/internal/logger"
	"github.com/techforum-dev/techforum/internal/utils"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, secureCookies bool) *Auth {
	return &Auth{jwtService: jwtService, secureCookies: secureCookies}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// ModeratorOnly returns middleware that requires a moderator account
func (a *Auth) ModeratorOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the user context if a valid token is present but
// never rejects the request
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := a.extractUser(r)
			if user != nil {
				ctx := context.WithValue(r.Context(), UserClaimsKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractUser extracts and validates the user from the JWT token.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	// Cookie first (browser clients), Authorization header as fallback
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	name, ok := claims["name"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	username, ok := claims["username"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	isModerator, ok := claims["moderator"].(bool)
	if !ok {
		return nil, errInvalidClaims
	}

	return &domain.User{
		Id:          uid,
		Name:        name,
		Username:    username,
		IsModerator: isModerator,
	}, nil
}

var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) auth(moderatorOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if moderatorOnly && !user.IsModerator {
				http.Error(w, "Access denied. Only for moderators", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
