package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/pkg/jwt"
)

// Locals keys para VendorID y VendorName en Fiber.
const (
	LocalVendorID   = "vendor_id"
	LocalVendorName = "vendor_name"
)

// HeaderSessionID identifica la sesión de kiosco. Si el cliente no la manda,
// el handler de carrito emite una nueva y la devuelve en la respuesta.
const HeaderSessionID = "X-Session-ID"

// AuthMiddleware valida el Bearer Token JWT y extrae VendorID y VendorName a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		vendorID, vendorName, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalVendorID, vendorID)
		c.Locals(LocalVendorName, vendorName)
		return c.Next()
	}
}

// GetVendorID devuelve el VendorID del contexto (después del middleware de auth).
func GetVendorID(c *fiber.Ctx) string {
	v := c.Locals(LocalVendorID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetVendorName devuelve el VendorName del contexto (después del middleware de auth).
func GetVendorName(c *fiber.Ctx) string {
	v := c.Locals(LocalVendorName)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
