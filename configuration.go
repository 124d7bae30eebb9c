package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/thlib/go-timezone-local/tzlocal"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("timezone", validateTimezone)
	_ = validate.RegisterValidation("isodate", validateIsoDate)
	_ = validate.RegisterValidation("category", validateCategory)
}

func validateTimezone(fl validator.FieldLevel) bool {
	timezone := fl.Field().String()
	if timezone == "" {
		return true // Empty timezone is allowed, will be replaced with system default
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

func validateIsoDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := civil.ParseDate(value)
	return err == nil
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := ParseCategory(fl.Field().String())
	return err == nil
}

type Config struct {
	Language         string `yaml:"language,omitempty" validate:"omitempty,oneof=en de"`
	StartDate        string `yaml:"startDate" validate:"required,isodate"`
	EndDate          string `yaml:"endDate,omitempty" validate:"omitempty,isodate"`
	TimeZoneLocation string `yaml:"timeZoneLocation,omitempty" validate:"timezone"`
	OutputFile       string `yaml:"outputFile,omitempty"`
	ChartFile        string `yaml:"chartFile,omitempty"`
	Workers          int    `yaml:"workers,omitempty" validate:"min=0"`
	// Platforms maps platform names to paths of downloaded statements.
	Platforms map[string]string `yaml:"platforms" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

func readConfig(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(strings.NewReader(string(buf)))
	decoder.KnownFields(true) // Disallow unknown fields
	if err = decoder.Decode(cfg); err != nil {
		if err.Error() == "EOF" {
			return nil, fmt.Errorf("can't decode YAML from configuration file '%s': %v", filename, err)
		}
		return nil, err
	}

	// Set default values.
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = RESULT_XLSX_FILE_PATH
	}
	if cfg.Workers == 0 {
		cfg.Workers = DEFAULT_WORKERS
	}
	if len(cfg.TimeZoneLocation) == 0 {
		tzname, err := tzlocal.RuntimeTZ()
		if err != nil {
			// Fallback to UTC if system timezone cannot be determined
			cfg.TimeZoneLocation = "UTC"
		} else {
			cfg.TimeZoneLocation = tzname
		}
	}

	// Verify timezone is valid
	location, err := time.LoadLocation(cfg.TimeZoneLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone location '%s': %w", cfg.TimeZoneLocation, err)
	}
	if cfg.EndDate == "" {
		cfg.EndDate = civil.DateOf(time.Now().In(location)).String()
	}

	// Validate other fields
	if err = validate.Struct(cfg); err != nil {
		return nil, err
	}
	if cfg.Workers > MAX_WORKERS {
		return nil, fmt.Errorf("workers %d is more than maximum %d", cfg.Workers, MAX_WORKERS)
	}
	if _, err = cfg.DateRange(); err != nil {
		return nil, err
	}
	if _, err = cfg.EvaluationRequests(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DateRange returns validated range of statements to evaluate.
func (cfg *Config) DateRange() (DateRange, error) {
	return ParseDateRange(cfg.StartDate, cfg.EndDate)
}

// EvaluationRequests resolves configured platforms sorted by name.
func (cfg *Config) EvaluationRequests() ([]EvaluationRequest, error) {
	names := make([]string, 0, len(cfg.Platforms))
	for name := range cfg.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	requests := make([]EvaluationRequest, 0, len(names))
	configuredAs := make(map[Platform]string, len(names))
	for _, name := range names {
		spec, err := LookupPlatform(name)
		if err != nil {
			return nil, err
		}
		if other, ok := configuredAs[spec.Platform]; ok {
			return nil, fmt.Errorf("platform '%s' is configured twice: '%s' and '%s'", spec.Name, other, name)
		}
		configuredAs[spec.Platform] = name
		requests = append(requests, EvaluationRequest{
			Spec:          spec,
			StatementPath: cfg.Platforms[name],
		})
	}
	return requests, nil
}
