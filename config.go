package collision

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings of a collision pipeline.
type Config struct {
	// MaxDepth is the depth of the bounding trees, root excluded.
	MaxDepth int `toml:"max_depth"`

	// Response is the default contact response.
	Response string `toml:"response"`

	// ResponseParams are appended to the default response after a '?'.
	ResponseParams string `toml:"response_params"`

	AlarmDistance   float64 `toml:"alarm_distance"`
	ContactDistance float64 `toml:"contact_distance"`

	// Verbose makes contacts log their updates.
	Verbose bool `toml:"verbose"`
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        6,
		Response:        DefaultResponse,
		AlarmDistance:   1,
		ContactDistance: 0.5,
	}
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return errors.New("max depth is negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_depth", c.MaxDepth)

	case c.Response == "":
		return errors.New("default response is empty").
			WithType(ErrTypeInvalidConfig)

	case c.AlarmDistance < 0 || c.ContactDistance < 0:
		return errors.New("distances must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("alarm_distance", c.AlarmDistance).
			WithTag("contact_distance", c.ContactDistance)

	case c.ContactDistance > c.AlarmDistance:
		return errors.New("contact distance exceeds alarm distance").
			WithType(ErrTypeInvalidConfig).
			WithTag("alarm_distance", c.AlarmDistance).
			WithTag("contact_distance", c.ContactDistance)

	default:
		return nil
	}
}

// ParseConfig decodes TOML settings on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	conf := DefaultConfig()
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, errors.New("decoding config failed").
			WithType(ErrTypeInvalidConfig).
			Wrap(err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// LoadConfig reads TOML settings from a file.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.New("reading config failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	return ParseConfig(data)
}
