package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"hotelchain/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, 24*time.Hour)
	logger := zap.NewNop()

	app := fiber.New()
	app.Get("/staff",
		AuthMiddleware(jwtManager, logger),
		RequireRole(logger, "staff", "admin"),
		func(c *fiber.Ctx) error {
			return c.SendString(c.Locals("userID").(string))
		},
	)

	staff, _ := jwtManager.GenerateToken("u1", "asha", "a@example.com", "staff")
	guest, _ := jwtManager.GenerateToken("u2", "ravi", "r@example.com", "guest")
	refresh, _ := jwtManager.GenerateRefreshToken("u1")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", fiber.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + guest, fiber.StatusForbidden},
		{"allowed role", "Bearer " + staff, fiber.StatusOK},
		{"no bearer prefix", staff, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
