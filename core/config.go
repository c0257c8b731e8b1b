package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		SecretKey        string
		PasswordHashCost int
		FixturesPath     string // empty: use the embedded seed
		RollbarToken     string

		Server ServerConfig
		Log    LogConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	LogConfig struct {
		Level  string // debug, info, warn, error
		Format string // console, json
		File   string // empty: stdout only
	}
)

func setDefaults(conf *viper.Viper) {
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "Campus")
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("secretKey", "s5b!x9-k2q$e7=vt@w)1h*zj+u8(3gn^4mrc6pd&fyl0")
	conf.SetDefault("passwordHashCost", 10)
	conf.SetDefault("fixturesPath", "")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("log.level", "info")
	conf.SetDefault("log.format", "console")
	conf.SetDefault("log.file", "")
}

// NewConfig reads the configuration for the current ENV (DEV by default).
// Values come from, in order of precedence: environment variables prefixed with the ENV name
// (e.g. DEV_SERVER_ADDRESS), config/.env.<env> at the project root, then defaults.
func NewConfig() *Config {
	conf := viper.New()
	setDefaults(conf)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
		conf.SetDefault("passwordHashCost", 4)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:          conf.GetString("appName"),
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		SecretKey:        conf.GetString("secretKey"),
		PasswordHashCost: conf.GetInt("passwordHashCost"),
		FixturesPath:     conf.GetString("fixturesPath"),
		RollbarToken:     conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               conf.GetString("server.host"),
			Address:            conf.GetString("server.address"),
			ShutdownTimeout:    conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     conf.GetBool("server.disableReqLogs"),
		},
		Log: LogConfig{
			Level:  conf.GetString("log.level"),
			Format: conf.GetString("log.format"),
			File:   conf.GetString("log.file"),
		},
	}
}
