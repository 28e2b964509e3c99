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

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string
	Build    string

	SecretKey    string
	RollbarToken string

	Server struct {
		Host         string
		Addr         string
		SessionName  string
		SessionTTL   time.Duration
		TemplatesDir string
	}

	API struct {
		BaseURL string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Uploads struct {
		MaxSubmissionSize int64
		MaxRubricSize     int64
	}
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Grade Gator")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "h2(h!x)#*c2(#yg4h^$cegm2emypoq5-wer)enb$+57=dz&uox")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":3000")
	v.SetDefault("sessionName", "gator_session")
	v.SetDefault("sessionTTL", 7*24*time.Hour)
	v.SetDefault("templatesDir", filepath.Join("apps", "web", "templates"))
	v.SetDefault("apiBaseURL", "http://localhost:8000/api")
	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("maxSubmissionSize", int64(50<<20))
	v.SetDefault("maxRubricSize", int64(10<<20))

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.SessionName = v.GetString("sessionName")
	conf.Server.SessionTTL = v.GetDuration("sessionTTL")
	conf.Server.TemplatesDir = v.GetString("templatesDir")
	conf.API.BaseURL = strings.TrimRight(v.GetString("apiBaseURL"), "/")
	conf.Redis.Addr = v.GetString("redisAddr")
	conf.Redis.Password = v.GetString("redisPassword")
	conf.Redis.DB = v.GetInt("redisDB")
	conf.Uploads.MaxSubmissionSize = v.GetInt64("maxSubmissionSize")
	conf.Uploads.MaxRubricSize = v.GetInt64("maxRubricSize")
	return conf
}
