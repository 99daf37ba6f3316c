// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import (
	"fmt"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/schema"
	"github.com/juju/utils/v4"
	"github.com/rs/xid"
	"gopkg.in/yaml.v2"

	"github.com/canonical/superset-k8s-upgrade/internal/superset"
)

const (
	// SupersetCharm is the charm under test.
	SupersetCharm = "superset-k8s"
	// DefaultApplication is the name the charm under test is deployed as.
	DefaultApplication = "superset-k8s-ui"
	// PostgreSQLCharm is the relational store.
	PostgreSQLCharm = "postgresql-k8s"
	// RedisCharm is the cache store.
	RedisCharm = "redis-k8s"

	// ImageResource is the oci-image resource refreshed with the charm.
	ImageResource = "superset-image"
	// UIPort is the port the Superset web server listens on.
	UIPort = 8088

	// SecretKeyOption and LoadExamplesOption are Superset charm config
	// keys.
	SecretKeyOption    = "superset-secret-key"
	LoadExamplesOption = "load-examples"

	modelNamePrefix = "superset-upgrade-"
)

// Config holds everything that parameterises a run.
type Config struct {
	Application string
	Charm       string
	Channel     string

	PostgreSQLChannel string
	RedisChannel      string

	// SecretKey stays fixed for the whole run; changing it makes
	// Superset unable to read what it stored.
	SecretKey string

	ImageResource string
	Port          int
	Credentials   superset.Credentials

	DeployTimeout  time.Duration
	UpgradeTimeout time.Duration
	HTTPTimeout    time.Duration

	IdlePeriod          time.Duration
	PollDelay           time.Duration
	FastForwardInterval time.Duration

	// DestructiveMode packs the charm on the host.
	DestructiveMode bool
}

// DefaultConfig returns the configuration of the upgrade test, with a
// freshly generated secret key.
func DefaultConfig() (Config, error) {
	secret, err := utils.RandomPassword()
	if err != nil {
		return Config{}, errors.Annotate(err, "generating secret key")
	}
	return Config{
		Application:       DefaultApplication,
		Charm:             SupersetCharm,
		Channel:           "stable",
		PostgreSQLChannel: "14",
		RedisChannel:      "edge",
		SecretKey:         secret,
		ImageResource:     ImageResource,
		Port:              UIPort,
		Credentials: superset.Credentials{
			Username: "admin",
			Password: "admin",
		},
		DeployTimeout:       2000 * time.Second,
		UpgradeTimeout:      600 * time.Second,
		HTTPTimeout:         300 * time.Second,
		IdlePeriod:          15 * time.Second,
		PollDelay:           time.Second,
		FastForwardInterval: 10 * time.Second,
	}, nil
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if !names.IsValidApplication(c.Application) {
		return errors.NotValidf("application name %q", c.Application)
	}
	if c.Charm == "" {
		return errors.NotValidf("empty charm")
	}
	if c.SecretKey == "" {
		return errors.NotValidf("empty secret key")
	}
	if c.ImageResource == "" {
		return errors.NotValidf("empty image resource")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.NotValidf("port %d", c.Port)
	}
	if err := c.Credentials.Validate(); err != nil {
		return errors.Trace(err)
	}
	for name, d := range map[string]time.Duration{
		"deploy timeout":        c.DeployTimeout,
		"upgrade timeout":       c.UpgradeTimeout,
		"http timeout":          c.HTTPTimeout,
		"poll delay":            c.PollDelay,
		"fast-forward interval": c.FastForwardInterval,
	} {
		if d <= 0 {
			return errors.NotValidf("%s %v", name, d)
		}
	}
	if c.IdlePeriod < 0 {
		return errors.NotValidf("idle period %v", c.IdlePeriod)
	}
	return nil
}

var configFields = schema.Fields{
	"application":           schema.String(),
	"charm":                 schema.String(),
	"channel":               schema.String(),
	"postgresql-channel":    schema.String(),
	"redis-channel":         schema.String(),
	"superset-secret-key":   schema.String(),
	"image-resource":        schema.String(),
	"port":                  schema.ForceInt(),
	"username":              schema.String(),
	"password":              schema.String(),
	"deploy-timeout":        schema.TimeDuration(),
	"upgrade-timeout":       schema.TimeDuration(),
	"http-timeout":          schema.TimeDuration(),
	"idle-period":           schema.TimeDuration(),
	"poll-delay":            schema.TimeDuration(),
	"fast-forward-interval": schema.TimeDuration(),
	"destructive-mode":      schema.Bool(),
}

var configChecker = schema.StrictFieldMap(configFields, omitAll(configFields))

func omitAll(fields schema.Fields) schema.Defaults {
	defaults := make(schema.Defaults, len(fields))
	for name := range fields {
		defaults[name] = schema.Omit
	}
	return defaults
}

// ReadConfigFile overlays the settings in the YAML file at path on base.
func ReadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	return ParseConfig(data, base)
}

// ParseConfig overlays the settings in YAML data on base. Unknown keys
// are rejected.
func ParseConfig(data []byte, base Config) (Config, error) {
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Annotate(err, "parsing config")
	}
	v, err := configChecker.Coerce(raw, nil)
	if err != nil {
		return Config{}, errors.Annotate(err, "parsing config")
	}
	attrs := v.(map[string]interface{})

	config := base
	setString := func(key string, dst *string) {
		if value, ok := attrs[key]; ok {
			*dst = value.(string)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if value, ok := attrs[key]; ok {
			*dst = value.(time.Duration)
		}
	}
	setString("application", &config.Application)
	setString("charm", &config.Charm)
	setString("channel", &config.Channel)
	setString("postgresql-channel", &config.PostgreSQLChannel)
	setString("redis-channel", &config.RedisChannel)
	setString("superset-secret-key", &config.SecretKey)
	setString("image-resource", &config.ImageResource)
	setString("username", &config.Credentials.Username)
	setString("password", &config.Credentials.Password)
	setDuration("deploy-timeout", &config.DeployTimeout)
	setDuration("upgrade-timeout", &config.UpgradeTimeout)
	setDuration("http-timeout", &config.HTTPTimeout)
	setDuration("idle-period", &config.IdlePeriod)
	setDuration("poll-delay", &config.PollDelay)
	setDuration("fast-forward-interval", &config.FastForwardInterval)
	if value, ok := attrs["port"]; ok {
		config.Port = value.(int)
	}
	if value, ok := attrs["destructive-mode"]; ok {
		config.DestructiveMode = value.(bool)
	}
	return config, errors.Trace(config.Validate())
}

// NewModelName returns a unique name for a temporary model.
func NewModelName() string {
	return fmt.Sprintf("%s%s", modelNamePrefix, xid.New().String())
}
