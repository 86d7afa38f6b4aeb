package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string `env:"JWT_SECRET"`

	EvaluatorBaseURL string `env:"EVALUATOR_BASE_URL,required"`
	EvaluatorAPIKey  string `env:"EVALUATOR_API_KEY"`

	SportsFeedBaseURL string `env:"SPORTS_FEED_BASE_URL,required"`
	SportsFeedAPIKey  string `env:"SPORTS_FEED_API_KEY"`

	EntitlementBaseURL string `env:"ENTITLEMENT_BASE_URL"`
	EntitlementAPIKey  string `env:"ENTITLEMENT_API_KEY"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Políticas de generación de picks.
	ReportingTimezone string  `env:"REPORTING_TZ" envDefault:"America/New_York"`
	ConfidenceBase    float64 `env:"CONFIDENCE_BASE" envDefault:"0.5"`
	ConfidenceStep    float64 `env:"CONFIDENCE_STEP" envDefault:"0.05"`
	MinSlateGames     int     `env:"MIN_SLATE_GAMES" envDefault:"3"`
	MaxPicksPerRun    int     `env:"MAX_PICKS_PER_RUN" envDefault:"5"`

	// Políticas de liquidación y jobs programados.
	SettlementGraceHours int    `env:"SETTLEMENT_GRACE_HOURS" envDefault:"72"`
	SweepCronSpec        string `env:"SWEEP_CRON" envDefault:"*/5 * * * *"`
	GenerateCronSpec     string `env:"GENERATE_CRON" envDefault:"0 9 * * *"`

	LeaderboardCacheTTLSeconds int `env:"LEADERBOARD_CACHE_TTL_SECONDS" envDefault:"30"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
