package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		CardTTL  time.Duration `mapstructure:"card_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		EnforceWrites bool          `mapstructure:"enforce_writes"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string        `mapstructure:"cloud_name"`
		ApiKey    string        `mapstructure:"api_key"`
		ApiSecret string        `mapstructure:"api_secret"`
		Folder    string        `mapstructure:"folder"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
	Viewer struct {
		APIURL       string        `mapstructure:"api_url"`
		StateDir     string        `mapstructure:"state_dir"`
		ReservedIDs  []string      `mapstructure:"reserved_ids"`
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	} `mapstructure:"viewer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("redis.card_ttl", 10*time.Minute)
	v.SetDefault("kafka.group_id", "card-cache-warmer")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("cloudinary.folder", "cardify")
	v.SetDefault("cloudinary.timeout", 15*time.Second)
	v.SetDefault("viewer.api_url", "http://localhost:8080")
	v.SetDefault("viewer.fetch_timeout", 10*time.Second)
}

// LoadConfig reads .env, then config.yaml from the given paths (default "."), then
// the environment. Later sources win.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, strings.TrimSuffix(p, "/")+"/.env")
	}
	if err = godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("auth.enforce_writes", "ENFORCE_WRITES")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")
	v.BindEnv("viewer.api_url", "CARDIFY_API_URL")
	v.BindEnv("viewer.state_dir", "CARDIFY_STATE_DIR")
	v.BindEnv("viewer.reserved_ids", "CARDIFY_RESERVED_IDS")

	err = v.Unmarshal(&cfg)
	return
}
