// Command token emite un Bearer Token de desarrollo firmado con JWT_SECRET.
//
//	go run ./cmd/token -user 11111111-1111-1111-1111-111111111111 -role produccion
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "dev-user", "ID del usuario (claim user_id)")
	role := flag.String("role", "admin", "rol: admin, produccion, bodeguero o vendedor")
	ttl := flag.Duration("ttl", 0, "vigencia; 0 usa JWT_EXPIRATION_MINUTES")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	validity := *ttl
	if validity <= 0 {
		validity = time.Duration(cfg.JWT.Expiration) * time.Minute
	}

	token, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, *userID, *role, validity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
