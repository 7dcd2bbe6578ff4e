package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Auth struct {
		JWTSecret        string
		TokenTTLSeconds  int
		DefaultRole      string
		LockoutThreshold int
		LockoutMinutes   int
	}
	Cache struct {
		TTLSeconds int
	}
	Password struct {
		MinLength        int
		RequireDigit     bool
		RequireLowercase bool
		RequireUppercase bool
		RequireSymbol    bool
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("VIDEOAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/videoapp.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlseconds", 3600)
	v.SetDefault("auth.defaultrole", "subscriptor")
	v.SetDefault("auth.lockoutthreshold", 5)
	v.SetDefault("auth.lockoutminutes", 5)
	v.SetDefault("cache.ttlseconds", 604800)
	v.SetDefault("password.minlength", 6)
	v.SetDefault("password.requiredigit", true)
	v.SetDefault("password.requirelowercase", true)
	v.SetDefault("password.requireuppercase", true)
	v.SetDefault("password.requiresymbol", false)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
