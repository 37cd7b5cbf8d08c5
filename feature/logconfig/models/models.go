package models

import "time"

// LogType is the parser family of a log configuration.
type LogType string

const (
	LogTypeJSON           LogType = "JSON"
	LogTypeRegex          LogType = "Regex"
	LogTypeNginx          LogType = "Nginx"
	LogTypeApache         LogType = "Apache"
	LogTypeSyslog         LogType = "Syslog"
	LogTypeSingleLineText LogType = "SingleLineText"
	LogTypeMultiLineText  LogType = "MultiLineText"
)

// LogTypes lists every supported log type.
var LogTypes = []LogType{
	LogTypeJSON,
	LogTypeRegex,
	LogTypeNginx,
	LogTypeApache,
	LogTypeSyslog,
	LogTypeSingleLineText,
	LogTypeMultiLineText,
}

// IsValid reports whether t is a supported log type.
func (t LogType) IsValid() bool {
	for _, known := range LogTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequiresRegex reports whether configs of this type are parsed by their regex.
func (t LogType) RequiresRegex() bool {
	switch t {
	case LogTypeRegex, LogTypeSingleLineText, LogTypeMultiLineText:
		return true
	default:
		return false
	}
}

// LogConfig describes how a log source is parsed.
type LogConfig struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	LogType    LogType   `gorm:"size:32;not null" json:"logType"`
	Regex      string    `gorm:"type:text" json:"regex"`
	SampleLog  string    `gorm:"type:text" json:"sampleLog"`
	TimeKey    string    `gorm:"size:128" json:"timeKey"`
	TimeFormat string    `gorm:"size:128" json:"timeFormat"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName returns the database table of log configurations.
func (LogConfig) TableName() string {
	return "log_configs"
}

// Input is the writable subset of a LogConfig.
type Input struct {
	Name       string  `json:"name"`
	LogType    LogType `json:"logType"`
	Regex      string  `json:"regex"`
	SampleLog  string  `json:"sampleLog"`
	TimeKey    string  `json:"timeKey"`
	TimeFormat string  `json:"timeFormat"`
}

// Apply copies the input onto cfg.
func (in Input) Apply(cfg *LogConfig) {
	cfg.Name = in.Name
	cfg.LogType = in.LogType
	cfg.Regex = in.Regex
	cfg.SampleLog = in.SampleLog
	cfg.TimeKey = in.TimeKey
	cfg.TimeFormat = in.TimeFormat
}

// Page is one page of log configurations.
type Page struct {
	Items []LogConfig `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}
