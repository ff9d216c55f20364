package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML overlay named by EDO_CONFIG. Non-empty values
// override the environment.
type FileConfig struct {
	DBPath     string `yaml:"db"`
	RawMailDir string `yaml:"rawMailDir"`
	OutputDir  string `yaml:"outputDir"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Google struct {
		Credentials  string `yaml:"credentials"`
		ClientID     string `yaml:"clientID"`
		ClientSecret string `yaml:"clientSecret"`
		RefreshToken string `yaml:"refreshToken"`
	} `yaml:"google"`

	Drive struct {
		Input  string `yaml:"input"`
		Output string `yaml:"output"`
		Fail   string `yaml:"fail"`
	} `yaml:"drive"`

	Sheets struct {
		SpreadsheetID string `yaml:"spreadsheetID"`
		Tab           string `yaml:"tab"`
	} `yaml:"sheets"`

	Workbook string `yaml:"workbook"`

	Local struct {
		Input  string `yaml:"input"`
		Output string `yaml:"output"`
		Fail   string `yaml:"fail"`
	} `yaml:"local"`

	Listener struct {
		Source      string `yaml:"source"`
		IntervalSec int    `yaml:"intervalSec"`
		Mail        *bool  `yaml:"mail"`
	} `yaml:"listener"`

	Mail struct {
		Provider     string `yaml:"provider"`
		Label        string `yaml:"label"`
		FetchMax     int    `yaml:"fetchMax"`
		ProcessBatch int    `yaml:"processBatch"`
	} `yaml:"mail"`
}

// LoadFile parses a YAML overlay.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// Apply copies every non-empty value onto cfg.
func (fc FileConfig) Apply(cfg *Config) {
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.RawMailDir, fc.RawMailDir)
	setString(&cfg.OutputDir, fc.OutputDir)

	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)

	setString(&cfg.GoogleCredentialsFile, fc.Google.Credentials)
	setString(&cfg.GoogleClientID, fc.Google.ClientID)
	setString(&cfg.GoogleClientSecret, fc.Google.ClientSecret)
	setString(&cfg.GoogleRefreshToken, fc.Google.RefreshToken)

	setString(&cfg.DriveInputFolder, fc.Drive.Input)
	setString(&cfg.DriveOutputFolder, fc.Drive.Output)
	setString(&cfg.DriveFailFolder, fc.Drive.Fail)

	setString(&cfg.SheetsSpreadsheetID, fc.Sheets.SpreadsheetID)
	setString(&cfg.SheetsTab, fc.Sheets.Tab)
	setString(&cfg.WorkbookPath, fc.Workbook)

	setString(&cfg.LocalInputDir, fc.Local.Input)
	setString(&cfg.LocalOutputDir, fc.Local.Output)
	setString(&cfg.LocalFailDir, fc.Local.Fail)

	setString(&cfg.ListenerSource, fc.Listener.Source)
	setInt(&cfg.ListenerIntervalSec, fc.Listener.IntervalSec)
	if fc.Listener.Mail != nil {
		cfg.ListenerMail = *fc.Listener.Mail
	}

	setString(&cfg.MailProvider, fc.Mail.Provider)
	setString(&cfg.MailLabel, fc.Mail.Label)
	setInt(&cfg.MailFetchMax, fc.Mail.FetchMax)
	setInt(&cfg.MailProcessBatch, fc.Mail.ProcessBatch)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
