package config

import (
  "fmt"
  "os"
  "time"

  "gopkg.in/yaml.v3"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/utils"
)

type Config struct {
  Port             string
  JWTSecretKey     string
  AccessTokenTTL   time.Duration
  RefreshTokenTTL  time.Duration
  AllowedOrigins   []string
}

// fileConfig is the optional YAML shape pointed at by CONFIG_PATH. Environment
// variables override whatever the file sets.
type fileConfig struct {
  Port            string   `yaml:"port"`
  JWTSecretKey    string   `yaml:"jwt_secret_key"`
  AccessTokenTTL  int      `yaml:"access_token_ttl"`
  RefreshTokenTTL int      `yaml:"refresh_token_ttl"`
  AllowedOrigins  []string `yaml:"allowed_origins"`
}

func Load(log *logger.Logger) (Config, error) {
  fc := fileConfig{}
  if path := os.Getenv("CONFIG_PATH"); path != "" {
    raw, err := os.ReadFile(path)
    if err != nil {
      return Config{}, fmt.Errorf("read config file %s: %w", path, err)
    }
    if err := yaml.Unmarshal(raw, &fc); err != nil {
      return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
    }
    log.Info("Loaded config file", "path", path)
  }

  port := utils.GetEnv("PORT", fallback(fc.Port, "8080"), log)
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", fallback(fc.JWTSecretKey, "defaultsecret"), log)
  accessTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", fallbackInt(fc.AccessTokenTTL, 3600), log)
  refreshTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", fallbackInt(fc.RefreshTokenTTL, 86400), log)

  origins := fc.AllowedOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5173"}
  }

  return Config{
    Port:            port,
    JWTSecretKey:    jwtSecretKey,
    AccessTokenTTL:  time.Duration(accessTTL) * time.Second,
    RefreshTokenTTL: time.Duration(refreshTTL) * time.Second,
    AllowedOrigins:  origins,
  }, nil
}

func fallback(val, def string) string {
  if val != "" {
    return val
  }
  return def
}

func fallbackInt(val, def int) int {
  if val != 0 {
    return val
  }
  return def
}
