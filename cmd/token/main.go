// Command token emite un token de acceso firmado con JWT_SECRET, para pruebas y integraciones.
//
//	token <tenant_id> <user_id> [admin | bodeguero | consulta]
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: token <tenant_id> <user_id> [rol]")
		os.Exit(2)
	}
	tenantID, userID := os.Args[1], os.Args[2]
	role := "consulta"
	if len(os.Args) > 3 {
		role = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	switch role {
	case "admin", "bodeguero", "consulta":
	default:
		log.Error().Str("role", role).Msg("rol desconocido")
		os.Exit(2)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, tenantID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Error().Err(err).Msg("emitir token")
		os.Exit(1)
	}
	log.Info().Str("tenant_id", tenantID).Str("role", role).Int("exp_min", cfg.JWT.Expiration).Msg("token emitido")
	fmt.Println(tok)
}
