package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/auth"
	"github.com/adbook/backend/internal/infrastructure/logger"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig configures JWTAuthMiddlewareWithConfig. Only
// JWTService is required.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths match exactly, SkipPathPrefixes by prefix
	SkipPaths        []string
	SkipPathPrefixes []string
	// OnError replaces the default 401 body
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig leaves open the probes, the docs and the payment
// gateway callback, which authenticates with its own signature.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/payments/callback",
		},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

func (cfg JWTMiddlewareConfig) skips(path string) bool {
	if slices.Contains(cfg.SkipPaths, path) {
		return true
	}
	return slices.ContainsFunc(cfg.SkipPathPrefixes, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// bearerToken extracts the token, or explains why there is none
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "Invalid authorization header format"
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

// JWTAuthMiddlewareWithConfig validates the bearer token and places the
// caller's identity.Actor on the gin context. Everything downstream trusts it.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, problem := bearerToken(c)
		if problem != "" {
			rejectToken(c, cfg, auth.ErrInvalidToken, problem)
			return
		}
		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			rejectToken(c, cfg, err, "Token validation failed")
			return
		}
		actor, err := claims.Actor()
		if err != nil {
			rejectToken(c, cfg, err, "Token carries no usable identity")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)

		ctx, log := logger.WithActor(c.Request.Context(), logger.GetGinLogger(c), claims.UserID, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, log)

		c.Next()
	}
}

// tokenFailures maps validation errors to the code and message the client
// sees; anything unmatched is a plain ERR_UNAUTHORIZED.
var tokenFailures = []struct {
	errs    []error
	code    string
	message string
}{
	{[]error{auth.ErrExpiredToken}, dto.ErrCodeTokenExpired, "Token has expired"},
	{[]error{auth.ErrTokenNotYetValid}, dto.ErrCodeTokenInvalid, "Token is not yet valid"},
	{[]error{auth.ErrInvalidRole, auth.ErrMissingUserID, auth.ErrInvalidClaims}, dto.ErrCodeTokenInvalid, "Token claims are invalid"},
	{[]error{auth.ErrInvalidToken}, dto.ErrCodeTokenInvalid, "Invalid token"},
}

func classifyTokenError(err error) (string, string) {
	for _, f := range tokenFailures {
		for _, target := range f.errs {
			if errors.Is(err, target) {
				return f.code, f.message
			}
		}
	}
	return dto.ErrCodeUnauthorized, "Authentication required"
}

func rejectToken(c *gin.Context, cfg JWTMiddlewareConfig, err error, reason string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		c.Abort()
		return
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("Request rejected by JWT middleware",
			zap.Error(err),
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
		)
	}
	code, message := classifyTokenError(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, logger.GetRequestIDFromGin(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActor returns the authenticated caller set by the JWT middleware
func GetActor(c *gin.Context) (identity.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(identity.Actor); ok {
			return actor, true
		}
	}
	return identity.Actor{}, false
}

// RequireRole rejects callers whose role may not perform action.
// Services enforce the same rule; this only fails fast for whole route groups.
func RequireRole(action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", logger.GetRequestIDFromGin(c)))
			return
		}
		if err := actor.Require(action); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(shared.CodeForbidden, err.Error(), logger.GetRequestIDFromGin(c)))
			return
		}
		c.Next()
	}
}
