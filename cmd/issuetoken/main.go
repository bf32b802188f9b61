// Command issuetoken emite tokens JWT firmados con el secreto configurado.
// Sirve para dispositivos de tienda (rol staff atado a store_id) e integraciones (rol system).
//
//	issuetoken -user kiosk-bee -role staff -store <store-id> -minutes 720
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/pkg/config"
	"github.com/jhoicas/Conteo-api/pkg/jwt"
	"github.com/jhoicas/Conteo-api/pkg/logger"
)

func main() {
	user := flag.String("user", "", "identificador del actor (obligatorio)")
	role := flag.String("role", access.RoleStaff, "rol: staff, supervisor, admin o system")
	store := flag.String("store", "", "ID de tienda a la que queda atado el token (opcional)")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name})

	if *user == "" {
		log.Fatal().Msg("-user es obligatorio")
	}
	if !access.Known(*role) {
		log.Fatal().Str("role", *role).Msg("rol desconocido")
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: *user, StoreID: *store, Role: *role}, cfg.JWT.Issuer, exp)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	log.Info().
		Str("user_id", *user).
		Str("role", *role).
		Str("store_id", *store).
		Int("minutes", exp).
		Msg("token emitido")
	fmt.Fprintln(os.Stdout, tok)
}
