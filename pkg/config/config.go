package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lerenn/verba/configs"
	"gopkg.in/yaml.v3"
)

var (
	defaultValidator = initValidator()
	repoRegex        = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

func initValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("repo", func(level validator.FieldLevel) bool {
		return repoRegex.MatchString(level.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Config is the read-only configuration handed to the revision layer.
type Config struct {
	GitHub    GitHub    `yaml:"github"`
	Repo      string    `yaml:"repo" validate:"required,repo"`
	Paths     Paths     `yaml:"paths"`
	Branches  Branches  `yaml:"branches"`
	Labels    Labels    `yaml:"labels"`
	Assignees Assignees `yaml:"assignees"`
	Cache     Cache     `yaml:"cache"`
}

// GitHub holds the hosts of the hosting service.
type GitHub struct {
	APIHost  string `yaml:"api_host" validate:"required,url"`
	HTTPHost string `yaml:"http_host" validate:"required,url"`
}

// Paths holds repository folders.
type Paths struct {
	ContentFolder      string `yaml:"content_folder" validate:"required"`
	RevisionsLogFolder string `yaml:"revisions_log_folder" validate:"required"`
}

// Branches holds the revision branch naming settings.
type Branches struct {
	Namespace string `yaml:"namespace" validate:"required,excludes=__,startsnotwith=_,endsnotwith=_"`
	Base      string `yaml:"base" validate:"required"`
}

// Labels holds the workflow labels.
type Labels struct {
	Draft              string `yaml:"draft" validate:"required"`
	TwoI               string `yaml:"two_i" validate:"required"`
	ReadyForPublishing string `yaml:"ready_for_publishing" validate:"required"`
}

// Vocabulary returns every workflow label.
func (l Labels) Vocabulary() []string {
	return []string{l.Draft, l.TwoI, l.ReadyForPublishing}
}

// Assignees holds the user pools.
type Assignees struct {
	// Allowed is the assignee vocabulary managed by verba.
	Allowed    []string `yaml:"allowed" validate:"required,min=1,dive,required"`
	Writers    []string `yaml:"writers" validate:"dive,required"`
	Developers []string `yaml:"developers" validate:"dive,required"`
}

// Cache holds the resource cache settings. Zero values select the defaults.
type Cache struct {
	TTL  time.Duration `yaml:"ttl" validate:"gte=0"`
	Size int           `yaml:"size" validate:"gte=0"`
}

// Default returns the embedded default configuration. It is not valid
// until a repository and assignees are set.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(configs.DefaultConfigYAML, &c); err != nil {
		panic(fmt.Sprintf("embedded default configuration is invalid: %v", err))
	}
	return c
}

// Validate validates the configuration values.
func (c Config) Validate() error {
	if err := defaultValidator.Struct(c); err != nil {
		var violations validator.ValidationErrors
		if errors.As(err, &violations) && len(violations) > 0 {
			v := violations[0]
			return fmt.Errorf("%w: %s fails %q", ErrInvalidConfig, v.Namespace(), v.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	labels := c.Labels.Vocabulary()
	for i, l := range labels {
		if slices.Contains(labels[i+1:], l) {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
	}

	for _, pool := range [][]string{c.Assignees.Writers, c.Assignees.Developers} {
		for _, user := range pool {
			if !slices.Contains(c.Assignees.Allowed, user) {
				return fmt.Errorf("%w: %q", ErrAssigneeNotAllowed, user)
			}
		}
	}

	return nil
}
