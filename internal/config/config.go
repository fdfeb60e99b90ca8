// Package config define las estructuras de configuración del servicio y
// la función de carga desde el fichero apuntado por CONFIG_PATH.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config agrupa toda la configuración de los binarios de Pulso Azul.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	JWTToken                `yaml:"jwttoken"`
	Billing                 `yaml:"billing"`
	Push                    `yaml:"push"`
	Assistant               `yaml:"assistant"`
	Gate                    `yaml:"gate"`
}

// HTTPServer configura el servidor HTTP del API.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection configura la conexión al cache redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ configura la conexión al broker de notificaciones.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"10"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// JWTToken configura la firma y vigencia de los tokens de sesión.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Billing configura el cliente del procesador de pagos y el webhook.
type Billing struct {
	APIURL        string `yaml:"api_url"`
	AccountID     string `yaml:"account_id" env:"BILLING_ACCOUNT_ID"`
	SecretKey     string `yaml:"secret_key" env:"BILLING_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"BILLING_WEBHOOK_SECRET"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
	ReturnURL     string `yaml:"return_url"`
}

// Push configura el emisor de notificaciones web push.
type Push struct {
	VAPIDSubject    string        `yaml:"vapid_subject"`
	VAPIDPublicKey  string        `yaml:"vapid_public_key" env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string        `yaml:"vapid_private_key" env:"VAPID_PRIVATE_KEY"`
	SendTimeout     time.Duration `yaml:"send_timeout" env-default:"10s"`
}

// Assistant configura el proxy del asistente de chat.
type Assistant struct {
	APIKey string `yaml:"api_key" env:"ASSISTANT_API_KEY"`
	Model  string `yaml:"model" env-default:"gemini-1.5-flash"`
}

// Gate configura las rutas de redirección del control de acceso.
type Gate struct {
	LoginPath   string `yaml:"login_path" env-default:"/login"`
	PricingPath string `yaml:"pricing_path" env-default:"/pricing"`
}

// MustLoad carga la configuración desde CONFIG_PATH y termina el proceso
// si el fichero no existe o no se puede parsear.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
