package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWT
	JWTSecret    string
	JWTExpiresIn time.Duration

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3BucketName       string

	// Server
	Port   string
	AppEnv string

	// School policy
	PeriodsPerDay       int          // number of teaching periods in the configured period table
	BreakPeriods        map[int]bool // fixed break positions, never assignable
	RestDay             time.Weekday // weekly rest day; sessions are ineligible regardless of period
	DefaultSubjectLabel string       // subject used when a period has no timetable binding
	ReminderCron        string       // cron spec for the morning unmarked-attendance sweep

	// Logging
	LogLevel string
	LogFile  string

	// Feature Toggles
	UseRedisNotifications bool
	SkipMigrate           bool
}

func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

// IsBreakPeriod reports whether the period number is a configured break.
func (c *Config) IsBreakPeriod(period int) bool {
	return c.BreakPeriods[period]
}

var AppConfig *Config

func LoadConfig() {
	useSSM := getEnv("USE_SSM", "false") == "true"

	var (
		ssmClient *ssm.SSM
		paramMap  map[string]string
	)

	// Stage & base path for SSM (allows multi-env without code changes)
	basePath := getEnv("SSM_BASE_PATH", "/vps-erp")
	stage := getEnv("STAGE", getEnv("APP_ENV", "production"))
	basePath = strings.TrimRight(basePath, "/")
	prefix := basePath + "/" + stage

	if useSSM {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(getEnv("AWS_REGION", "ap-south-1"))})
		if err != nil {
			log.Fatal("Failed to create AWS session:", err)
		}
		ssmClient = ssm.New(sess)
		log.Printf("Using AWS SSM Parameter Store (prefix=%s)", prefix)
		paramMap = fetchSSMParameters(ssmClient, prefix)
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using environment variables")
		}
	}

	// Helper accessor respecting map / env fallback
	getVal := func(key, def string) string {
		if useSSM {
			// map key stored uppercase
			uk := strings.ToUpper(key)
			if v, ok := paramMap[uk]; ok && v != "" {
				return v
			}
		}
		return getEnv(strings.ToUpper(key), def)
	}

	// Parse JWT_EXPIRES_IN with shorthand support
	jwtExpiresStr := getVal("JWT_EXPIRES_IN", "24h")
	jwtExpires, err := time.ParseDuration(jwtExpiresStr)
	if err != nil {
		s := strings.TrimSpace(strings.ToLower(jwtExpiresStr))
		if len(s) > 1 {
			unit := s[len(s)-1]
			numStr := s[:len(s)-1]
			if n, err2 := strconv.Atoi(numStr); err2 == nil {
				switch unit {
				case 'd':
					jwtExpires = time.Duration(n) * 24 * time.Hour
					err = nil
				case 'w':
					jwtExpires = time.Duration(n*7) * 24 * time.Hour
					err = nil
				}
			}
		}
		if err != nil {
			log.Fatal("Invalid JWT_EXPIRES_IN format:", err)
		}
	}

	periodsPerDay, err := strconv.Atoi(getVal("PERIODS_PER_DAY", "8"))
	if err != nil || periodsPerDay < 1 {
		log.Fatal("Invalid PERIODS_PER_DAY value")
	}

	breakPeriods, err := parseBreakPeriods(getVal("BREAK_PERIODS", ""), periodsPerDay)
	if err != nil {
		log.Fatal("Invalid BREAK_PERIODS format:", err)
	}

	restDay, err := parseWeekday(getVal("REST_DAY", "Sunday"))
	if err != nil {
		log.Fatal("Invalid REST_DAY value:", err)
	}

	AppConfig = &Config{
		DBHost:     getVal("DB_HOST", "localhost"),
		DBPort:     getVal("DB_PORT", "3306"),
		DBUser:     getVal("DB_USER", "root"),
		DBPassword: getVal("DB_PASSWORD", ""),
		DBName:     getVal("DB_NAME", "vps_erp"),

		RedisHost:     getVal("REDIS_HOST", "localhost"),
		RedisPort:     getVal("REDIS_PORT", "6379"),
		RedisPassword: getVal("REDIS_PASSWORD", ""),

		JWTSecret:    getVal("JWT_SECRET", "your_super_secret_jwt_key"),
		JWTExpiresIn: jwtExpires,

		AWSRegion:          getVal("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:     getVal("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getVal("AWS_SECRET_ACCESS_KEY", ""),
		S3BucketName:       getVal("S3_BUCKET_NAME", "vps-erp-storage"),

		Port:   getVal("PORT", "3000"),
		AppEnv: getVal("APP_ENV", "development"),

		PeriodsPerDay:       periodsPerDay,
		BreakPeriods:        breakPeriods,
		RestDay:             restDay,
		DefaultSubjectLabel: getVal("DEFAULT_SUBJECT_LABEL", "General Attendance"),
		ReminderCron:        getVal("REMINDER_CRON", "30 9 * * *"),

		LogLevel: getVal("LOG_LEVEL", "info"),
		LogFile:  getVal("LOG_FILE", "logs/app.log"),

		UseRedisNotifications: strings.ToLower(getVal("USE_REDIS_NOTIFICATIONS", "false")) == "true",
		SkipMigrate:           strings.ToLower(getVal("SKIP_MIGRATE", "false")) == "true",
	}

	validateConfig(AppConfig, useSSM)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBreakPeriods parses a comma-separated list of period numbers.
// Break positions must fall inside the configured period table.
func parseBreakPeriods(raw string, periodsPerDay int) (map[int]bool, error) {
	breaks := make(map[int]bool)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return breaks, nil
	}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n < 1 || n > periodsPerDay {
			return nil, strconv.ErrRange
		}
		breaks[n] = true
	}
	return breaks, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return time.Sunday, strconv.ErrSyntax
}

// fetchSSMParameters reads all parameters under prefix (non-recursive expected) and returns map with UPPERCASE keys.
func fetchSSMParameters(client *ssm.SSM, prefix string) map[string]string {
	out := make(map[string]string)
	next := aws.String("")
	for {
		in := &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			WithDecryption: aws.Bool(true),
			Recursive:      aws.Bool(true),
		}
		if *next != "" {
			in.NextToken = next
		}
		resp, err := client.GetParametersByPath(in)
		if err != nil {
			log.Printf("Warning: unable to fetch SSM parameters for prefix %s: %v", prefix, err)
			break
		}
		for _, p := range resp.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			name := *p.Name
			// last segment after '/'
			idx := strings.LastIndex(name, "/")
			key := name
			if idx >= 0 {
				key = name[idx+1:]
			}
			if key == "" {
				continue
			}
			out[strings.ToUpper(key)] = *p.Value
		}
		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		next = resp.NextToken
	}
	return out
}

func validateConfig(c *Config, usedSSM bool) {
	// Only enforce stricter rules in production
	if strings.ToLower(c.AppEnv) != "production" {
		return
	}
	// Required secrets
	required := map[string]string{
		"DB_PASSWORD": c.DBPassword,
		"JWT_SECRET":  c.JWTSecret,
	}
	for k, v := range required {
		if strings.TrimSpace(v) == "" {
			log.Fatalf("Missing required secret %s in production (SSM=%v)", k, usedSSM)
		}
	}
	if len(c.JWTSecret) < 16 {
		log.Fatal("JWT_SECRET too short (min 16 chars)")
	}
}
