package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pmtech-io/jira-gantt/internal/models"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerPort int
	ServerHost string

	// Jira configuration
	JiraBaseURL  string
	JiraUsername string
	JiraAPIToken string

	// Schedule calculation defaults, used when a request omits its own config
	WorkingHoursPerDay float64
	HoursPerPoint      float64
	StartWorkHour      string // "HH:MM"
	EndWorkHour        string // "HH:MM"
	LunchBreakMinutes  int
	IncludeWeekends    bool
}

var v = viper.New()

// init loads environment variables from .env file and registers defaults
func init() {
	// Try to load from project root first, then parent directories
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			if err := godotenv.Load("../../.env"); err != nil {
				log.Println("No .env file found or error loading it. Using environment variables or defaults.")
			}
		}
	}

	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "localhost")

	v.SetDefault("JIRA_BASE_URL", "")
	v.SetDefault("JIRA_USERNAME", "")
	v.SetDefault("JIRA_API_TOKEN", "")

	v.SetDefault("WORKING_HOURS_PER_DAY", 8.0)
	v.SetDefault("HOURS_PER_POINT", 4.0)
	v.SetDefault("START_WORK_HOUR", "09:00")
	v.SetDefault("END_WORK_HOUR", "17:30")
	v.SetDefault("LUNCH_BREAK_MINUTES", 30)
	v.SetDefault("INCLUDE_WEEKENDS", false)
}

// GetViper exposes the underlying viper instance for overrides in tests and mains
func GetViper() *viper.Viper {
	return v
}

// NewConfig creates a new configuration with values from environment variables
func NewConfig() *Config {
	return &Config{
		ServerPort: v.GetInt("SERVER_PORT"),
		ServerHost: v.GetString("SERVER_HOST"),

		JiraBaseURL:  v.GetString("JIRA_BASE_URL"),
		JiraUsername: v.GetString("JIRA_USERNAME"),
		JiraAPIToken: v.GetString("JIRA_API_TOKEN"),

		WorkingHoursPerDay: v.GetFloat64("WORKING_HOURS_PER_DAY"),
		HoursPerPoint:      v.GetFloat64("HOURS_PER_POINT"),
		StartWorkHour:      v.GetString("START_WORK_HOUR"),
		EndWorkHour:        v.GetString("END_WORK_HOUR"),
		LunchBreakMinutes:  v.GetInt("LUNCH_BREAK_MINUTES"),
		IncludeWeekends:    v.GetBool("INCLUDE_WEEKENDS"),
	}
}

// JiraConfigured reports whether Jira enrichment credentials are present
func (c *Config) JiraConfigured() bool {
	return c.JiraBaseURL != "" && c.JiraUsername != "" && c.JiraAPIToken != ""
}

// ScheduleDefaults builds the default schedule configuration. Malformed work
// hours fall back to the standard 09:00-17:30 window.
func (c *Config) ScheduleDefaults() models.ScheduleConfig {
	start, err := models.ParseTimeOfDay(c.StartWorkHour)
	if err != nil {
		log.Printf("Invalid START_WORK_HOUR %q, falling back to 09:00", c.StartWorkHour)
		start = models.TimeOfDay{Hour: 9}
	}
	end, err := models.ParseTimeOfDay(c.EndWorkHour)
	if err != nil {
		log.Printf("Invalid END_WORK_HOUR %q, falling back to 17:30", c.EndWorkHour)
		end = models.TimeOfDay{Hour: 17, Minute: 30}
	}

	return models.ScheduleConfig{
		WorkingHoursPerDay: c.WorkingHoursPerDay,
		HoursPerPoint:      c.HoursPerPoint,
		StartWorkHour:      start,
		EndWorkHour:        end,
		LunchBreakMinutes:  c.LunchBreakMinutes,
		IncludeWeekends:    c.IncludeWeekends,
	}
}
