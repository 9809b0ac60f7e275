package middleware

import (
	"outward-wms/config"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Locals keys set by AuthMiddleware and InjectDBMiddleware.
const (
	LocalUserID  = "userID"
	LocalCompany = "company"
	LocalClaims  = "userData"
	LocalDB      = "db"
)

// AuthMiddleware accepts a bearer token signed with JWT_SECRET carrying user_id and
// company claims. Token issuance lives outside this service.
func AuthMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Missing Authorization header",
		})
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Authorization header format",
		})
	}

	claims, err := ParseToken(tokenParts[1])
	if err != nil {
		zap.L().Debug("rejected token", zap.Error(err))
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid token",
			"error":   err.Error(),
		})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid user ID",
		})
	}

	company, ok := claims["company"].(string)
	if !ok || company == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid company",
		})
	}

	ctx.Locals(LocalUserID, int(userID))
	ctx.Locals(LocalCompany, company)
	ctx.Locals(LocalClaims, claims)

	return ctx.Next()
}

// ParseToken verifies an HMAC signed token and returns its claims. Tokens without
// an exp claim are rejected.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// SignToken issues a token for userID and company expiring at the unix time expiresAt.
func SignToken(userID int, company string, expiresAt int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"company": company,
		"exp":     expiresAt,
	})
	return token.SignedString([]byte(config.JWTSecret))
}
