package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                string
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	BusinessCollection  string
	QuestionCollection  string
	ReviewCollection    string
	Timezone            string
	AllowedOrigins      []string

	JWTSecret  []byte
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	AITimeout     time.Duration

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	AnalysisStream      string
	AnalysisWorkers     int
	AnalysisQueueSize   int
	AnalysisMaxAttempts int
	AnalysisSweepSpec   string
	AnalysisSweepGrace  time.Duration

	FeedbackBaseURL string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioRegion     string
	MinioUseSSL     bool

	LogLevel  string
	LogFormat string
}

// MinioEnabled reports whether QR images go to object storage.
func (c Config) MinioEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioBucket != ""
}

// RedisEnabled reports whether the analysis queue is backed by Redis Streams.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Load reads configuration. Precedence, lowest first: defaults, the YAML file named
// by CONFIG_FILE, the .env file (ENV_FILE, default ".env"), the process environment.
func Load() (Config, error) {
	src, err := newSource(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	return src.build()
}

type source struct {
	env    func(string) (string, bool)
	dotenv map[string]string
	file   map[string]string
	errs   []error
}

func newSource(env func(string) (string, bool)) (*source, error) {
	s := &source{env: env, dotenv: map[string]string{}, file: map[string]string{}}

	if path, ok := env("CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		values, err := readYAML(strings.TrimSpace(path))
		if err != nil {
			return nil, err
		}
		s.file = values
	}

	envFile := ".env"
	if path, ok := env("ENV_FILE"); ok && strings.TrimSpace(path) != "" {
		envFile = strings.TrimSpace(path)
	}
	values, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		s.dotenv = values
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	return s, nil
}

// readYAML は KEY: value 形式のフラットな YAML を読み込む。
func readYAML(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	values := make(map[string]string, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
			values[strings.ToUpper(key)] = strings.Join(parts, ",")
		default:
			values[strings.ToUpper(key)] = fmt.Sprint(v)
		}
	}
	return values, nil
}

func (s *source) build() (Config, error) {
	cfg := Config{
		Addr:                s.str("HTTP_ADDR", ":8080"),
		MongoURI:            s.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       s.str("MONGO_DB", "review"),
		MongoConnectTimeout: s.duration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		BusinessCollection:  s.str("BUSINESS_COLLECTION", "businesses"),
		QuestionCollection:  s.str("QUESTION_COLLECTION", "questions"),
		ReviewCollection:    s.str("REVIEW_COLLECTION", "reviews"),
		Timezone:            s.str("TIMEZONE", "UTC"),
		AllowedOrigins:      s.list("API_ALLOWED_ORIGINS", []string{"*"}),

		JWTSecret:  []byte(s.str("JWT_SECRET", "")),
		JWTIssuer:  s.str("JWT_ISSUER", "review-api"),
		JWTTTL:     s.duration("JWT_TTL", time.Hour),
		BcryptCost: s.integer("BCRYPT_COST", 10),

		AIProvider:    strings.ToLower(s.str("AI_PROVIDER", "gemini")),
		GeminiAPIKey:  s.str("GEMINI_API_KEY", ""),
		GeminiModel:   s.str("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: s.str("GEMINI_BASE_URL", ""),
		OpenAIAPIKey:  s.str("OPENAI_API_KEY", ""),
		OpenAIModel:   s.str("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: s.str("OPENAI_BASE_URL", ""),
		AITimeout:     s.duration("AI_TIMEOUT", 30*time.Second),

		RedisAddr:           s.str("REDIS_ADDR", ""),
		RedisPassword:       s.str("REDIS_PASSWORD", ""),
		RedisDB:             s.integer("REDIS_DB", 0),
		AnalysisStream:      s.str("ANALYSIS_STREAM", "review-analysis"),
		AnalysisWorkers:     s.integer("ANALYSIS_WORKERS", 2),
		AnalysisQueueSize:   s.integer("ANALYSIS_QUEUE_SIZE", 256),
		AnalysisMaxAttempts: s.integer("ANALYSIS_MAX_ATTEMPTS", 3),
		AnalysisSweepSpec:   s.str("ANALYSIS_SWEEP_SPEC", "@every 5m"),
		AnalysisSweepGrace:  s.duration("ANALYSIS_SWEEP_GRACE", 2*time.Minute),

		FeedbackBaseURL: strings.TrimRight(s.str("FEEDBACK_BASE_URL", "http://localhost:3000"), "/"),
		MinioEndpoint:   s.str("MINIO_ENDPOINT", ""),
		MinioAccessKey:  s.str("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  s.str("MINIO_SECRET_KEY", ""),
		MinioBucket:     s.str("MINIO_BUCKET", "review-qrcodes"),
		MinioRegion:     s.str("MINIO_REGION", ""),
		MinioUseSSL:     s.boolean("MINIO_USE_SSL", false),

		LogLevel:  strings.ToLower(s.str("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(s.str("LOG_FORMAT", "json")),
	}

	if len(cfg.JWTSecret) == 0 {
		s.errs = append(s.errs, errors.New("JWT_SECRET must be configured"))
	}
	if cfg.AnalysisWorkers < 1 {
		s.errs = append(s.errs, errors.New("ANALYSIS_WORKERS must be at least 1"))
	}
	if cfg.AnalysisMaxAttempts < 1 {
		s.errs = append(s.errs, errors.New("ANALYSIS_MAX_ATTEMPTS must be at least 1"))
	}
	if cfg.AIProvider != "gemini" && cfg.AIProvider != "openai" {
		s.errs = append(s.errs, fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", cfg.AIProvider))
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		s.errs = append(s.errs, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err))
	}
	if len(s.errs) > 0 {
		return Config{}, errors.Join(s.errs...)
	}
	return cfg, nil
}

func (s *source) lookup(key string) (string, bool) {
	if v, ok := s.env(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := s.dotenv[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := s.file[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return "", false
}

func (s *source) str(key, fallback string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return fallback
}

func (s *source) duration(key string, fallback time.Duration) time.Duration {
	v, ok := s.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return parsed
}

func (s *source) integer(key string, fallback int) int {
	v, ok := s.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return parsed
}

func (s *source) boolean(key string, fallback bool) bool {
	v, ok := s.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return parsed
}

func (s *source) list(key string, fallback []string) []string {
	raw, ok := s.lookup(key)
	if !ok {
		return fallback
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
