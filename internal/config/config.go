package config

import (
	"flag"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config — процессная конфигурация. Устанавливается на старте
// и дальше не мутируется: ключ подписи, список корней и публичные
// маршруты разделяются всеми запросами без блокировок.
type Config struct {
	RunAddr     string `env:"RUN_ADDRESS"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`

	// Файловое хранилище
	StorageDir   string   `env:"STORAGE_DIR"`
	AllowedRoots []string `env:"ALLOWED_ROOTS" envSeparator:","`
	ElevatedRole string   `env:"ELEVATED_ROLE"`

	// Публичные маршруты — единственный обход шлюза аутентификации
	PublicPaths []string `env:"PUBLIC_PATHS" envSeparator:","`

	// Кеш результатов (выключен, если адрес пуст)
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "адрес и порт сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни токена")
	flag.StringVar(&cfg.StorageDir, "storage-dir", cfg.StorageDir, "корневой каталог файлового хранилища")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "адрес Redis для кеша результатов (пусто = без кеша)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS")
	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// hostPortRe: RunAddr должен быть "host:port" без схемы и пути.
var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if !hostPortRe.MatchString(cfg.RunAddr) {
		cfg.RunAddr = "localhost:8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "."
	}
	if len(cfg.AllowedRoots) == 0 {
		cfg.AllowedRoots = []string{"data", "reports", "output"}
	}
	if cfg.ElevatedRole == "" {
		cfg.ElevatedRole = "norm_controller"
	}
	if len(cfg.PublicPaths) == 0 {
		cfg.PublicPaths = []string{"/auth/login", "/auth/register"}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
}

// PublicPathSet отдаёт публичные маршруты в форме для мидлвари.
func (cfg *Config) PublicPathSet() map[string]struct{} {
	set := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		p = strings.TrimSpace(p)
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}
