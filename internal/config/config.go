package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawMailDir string
	OutputDir  string
	ConfigFile string

	LogLevel  string
	LogFormat string

	GoogleCredentialsFile string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	GoogleRefreshToken    string
	GoogleRateLimitRPS    int

	DriveInputFolder  string
	DriveOutputFolder string
	DriveFailFolder   string

	SheetsSpreadsheetID string
	SheetsTab           string
	WorkbookPath        string

	LocalInputDir  string
	LocalOutputDir string
	LocalFailDir   string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	ListenerSource      string
	ListenerIntervalSec int
	ListenerMail        bool

	MailProvider     string
	MailLabel        string
	MailFetchMax     int
	MailProcessBatch int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "edo.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		ConfigFile: getEnv("EDO_CONFIG", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GoogleRefreshToken:    getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleRateLimitRPS:    getEnvInt("GOOGLE_RATE_LIMIT_RPS", 5),

		DriveInputFolder:  getEnv("DRIVE_INPUT_FOLDER", ""),
		DriveOutputFolder: getEnv("DRIVE_OUTPUT_FOLDER", ""),
		DriveFailFolder:   getEnv("DRIVE_FAIL_FOLDER", ""),

		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsTab:           getEnv("SHEETS_TAB", "EDO"),
		WorkbookPath:        getEnv("WORKBOOK_PATH", ""),

		LocalInputDir:  getEnv("LOCAL_INPUT_DIR", filepath.Join(cwd, "input")),
		LocalOutputDir: getEnv("LOCAL_OUTPUT_DIR", filepath.Join(cwd, "output")),
		LocalFailDir:   getEnv("LOCAL_FAIL_DIR", filepath.Join(cwd, "fail")),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		ListenerSource:      getEnv("LISTENER_SOURCE", "drive"),
		ListenerIntervalSec: getEnvInt("LISTENER_INTERVAL_SEC", 60),
		ListenerMail:        getEnvBool("LISTENER_MAIL", false),

		MailProvider:     getEnv("MAIL_PROVIDER", "gmail"),
		MailLabel:        getEnv("MAIL_LABEL", "INBOX"),
		MailFetchMax:     getEnvInt("MAIL_FETCH_MAX", 20),
		MailProcessBatch: getEnvInt("MAIL_PROCESS_BATCH", 20),
	}

	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load %s: %w", cfg.ConfigFile, err)
		}
		fc.Apply(&cfg)
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// HasGoogleAuth reports whether either credential style is configured.
func (c Config) HasGoogleAuth() bool {
	if strings.TrimSpace(c.GoogleCredentialsFile) != "" {
		return true
	}
	return strings.TrimSpace(c.GoogleClientID) != "" && strings.TrimSpace(c.GoogleRefreshToken) != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
