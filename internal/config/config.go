package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Sheets     Sheets     `mapstructure:",squash"`
	SheetsSync SheetsSync `mapstructure:",squash"`
	Seed       Seed       `mapstructure:",squash"`
	SecretKey  string     `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	Password string `mapstructure:"database_password"`
	Path     string `mapstructure:"database_path"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Sheets aponta para a planilha de destino do espelhamento
type Sheets struct {
	CredentialsPath string `mapstructure:"sheets_credentials_path"`
	SpreadsheetID   string `mapstructure:"sheets_spreadsheet_id"`
}

type SheetsSync struct {
	CronSchedule string `mapstructure:"sheets_sync_cron"`
	Enabled      bool   `mapstructure:"sheets_sync_enabled"`
}

type Seed struct {
	SeedOnStartup bool `mapstructure:"seed_on_startup"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/tracker?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_PATH", "data/tracker.db")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("SHEETS_CREDENTIALS_PATH", "credentials.json")
	viper.SetDefault("SHEETS_SPREADSHEET_ID", "")

	// Sincronização automática com a planilha
	viper.SetDefault("SHEETS_SYNC_CRON", "0 18 * * *") // Todos os dias às 18h
	viper.SetDefault("SHEETS_SYNC_ENABLED", false)

	viper.SetDefault("SEED_ON_STARTUP", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	switch config.Database.Driver {
	case "sqlite3":
		config.Database.DSN = config.Database.Path
	default:
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
