package config

import (
	"strings"

	"paybridge/internal/gateway"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env  gateway.Environment
	Port string
}

type DBCfg struct{ DSN string }

type RedisCfg struct {
	Addr              string
	IdempotencyTTLMin int
}

type SecurityCfg struct {
	// APIToken guards the transaction APIs.
	APIToken string
}

type GetnetCfg struct {
	Username string
	Password string
	SellerID string
}

type NuveiCfg struct {
	MerchantID     string
	MerchantSiteID string
	Secret         string
}

type PagaditoCfg struct {
	Username string
	WSK      string
}

type Cfg struct {
	App      AppCfg
	DB       DBCfg
	Redis    RedisCfg
	Sec      SecurityCfg
	Getnet   GetnetCfg
	Nuvei    NuveiCfg
	Pagadito PagaditoCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists)
	_ = godotenv.Load()

	// 2) Read from env via viper
	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("IDEMPOTENCY_TTL_MIN", 60)

	cfg := Cfg{
		App: AppCfg{
			Env:  gateway.Environment(viper.GetString("APP_ENV")),
			Port: viper.GetString("APP_PORT"),
		},
		DB: DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{
			Addr:              viper.GetString("REDIS_ADDR"),
			IdempotencyTTLMin: viper.GetInt("IDEMPOTENCY_TTL_MIN"),
		},
		Sec: SecurityCfg{
			APIToken: strings.TrimSpace(viper.GetString("API_TOKEN")),
		},
		Getnet: GetnetCfg{
			Username: viper.GetString("GETNET_USERNAME"),
			Password: viper.GetString("GETNET_PASSWORD"),
			SellerID: viper.GetString("GETNET_SELLER_ID"),
		},
		Nuvei: NuveiCfg{
			MerchantID:     viper.GetString("NUVEI_MERCHANT_ID"),
			MerchantSiteID: viper.GetString("NUVEI_MERCHANT_SITE_ID"),
			Secret:         viper.GetString("NUVEI_SECRET"),
		},
		Pagadito: PagaditoCfg{
			Username: viper.GetString("PAGADITO_USERNAME"),
			WSK:      viper.GetString("PAGADITO_WSK"),
		},
	}

	// 3) Fail fast on required settings
	if cfg.App.Env != gateway.EnvironmentSandbox && cfg.App.Env != gateway.EnvironmentProduction {
		log.Fatal().Str("env", string(cfg.App.Env)).Msg("APP_ENV must be sandbox or production")
	}
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.Sec.APIToken == "" {
		log.Fatal().Msg("API_TOKEN is required")
	}

	return cfg
}
