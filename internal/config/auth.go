package config

import "time"

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"perfume-inventory"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}
