package logger

// Config holds logging configuration settings.
type Config struct {
	// Level is the minimum log level: DEBUG, INFO, WARNING, or ERROR.
	Level string `yaml:"level"`

	// ConsoleEnabled controls whether log output is written to stdout.
	ConsoleEnabled bool `yaml:"console_enabled"`

	// ConsoleFormat is "text" or "json".
	ConsoleFormat string `yaml:"console_format"`

	// FileEnabled controls whether log output is written to a rotating file.
	FileEnabled bool `yaml:"file_enabled"`

	// FilePath is the log file location when file logging is enabled.
	FilePath string `yaml:"file_path"`

	// FileFormat is "text" or "json".
	FileFormat string `yaml:"file_format"`

	// FileMaxSizeMB is the file size in megabytes before rotation.
	FileMaxSizeMB int `yaml:"file_max_size_mb"`

	// FileMaxBackups is the number of rotated files to keep.
	FileMaxBackups int `yaml:"file_max_backups"`

	// FileMaxAgeDays is the maximum age of rotated files in days.
	FileMaxAgeDays int `yaml:"file_max_age_days"`
}

// DefaultConfig returns a Config that logs INFO and above to the console.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/duskmud.log",
		FileFormat:     "json",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}
