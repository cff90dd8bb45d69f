package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"librahub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Route maps a path prefix to an upstream base URL.
type Route struct {
	Prefix   string `json:"prefix"`
	Upstream string `json:"upstream"`
}

// Config holds the gateway configuration
type Config struct {
	Port           string
	AllowedOrigins string
	Routes         []Route
}

// LoadConfig reads gateway configuration from the environment. When
// GATEWAY_ROUTES points at a JSON file the route table is read from
// it; otherwise a single-backend default is used.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("GATEWAY_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		Routes: []Route{
			{Prefix: "/api", Upstream: getEnv("BACKEND_URL", "http://localhost:3000")},
		},
	}

	if path := os.Getenv("GATEWAY_ROUTES"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read route table %s: %w", path, err)
		}
		var routes []Route
		if err := json.Unmarshal(data, &routes); err != nil {
			return nil, fmt.Errorf("failed to parse route table %s: %w", path, err)
		}
		if len(routes) == 0 {
			return nil, fmt.Errorf("route table %s is empty", path)
		}
		cfg.Routes = routes
	}

	for _, r := range cfg.Routes {
		if r.Prefix == "" || !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("invalid route prefix %q", r.Prefix)
		}
		if r.Upstream == "" {
			return nil, fmt.Errorf("route %s has no upstream", r.Prefix)
		}
	}

	return cfg, nil
}

// New builds the gateway Fiber app from the configuration.
func New(cfg *Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "LibraHub Gateway v1.0",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Cookie",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return response.Success(c, "Gateway is healthy", fiber.Map{
			"service": "gateway",
			"routes":  len(cfg.Routes),
		})
	})

	for _, route := range cfg.Routes {
		app.All(route.Prefix+"/*", forwardTo(route))
	}

	return app
}

// forwardTo proxies a request to the route's upstream, preserving the
// original path, query string and headers. Cookie and Authorization
// pass through untouched so both session styles survive the hop.
func forwardTo(route Route) fiber.Handler {
	upstream := strings.TrimSuffix(route.Upstream, "/")

	return func(c *fiber.Ctx) error {
		target := upstream + c.OriginalURL()

		if err := proxy.Do(c, target); err != nil {
			log.Printf("❌ Upstream %s unreachable: %v", route.Upstream, err)
			return response.BadGateway(c, "Upstream service unavailable")
		}

		// Strip hop identity so clients only ever see the gateway
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
