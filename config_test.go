package collision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	conf, err := ParseConfig([]byte(`
max_depth = 4
response = "StickContactConstraint"
alarm_distance = 0.2
contact_distance = 0.1
`))
	require.NoError(t, err)
	require.Equal(t, Config{
		MaxDepth:        4,
		Response:        StickResponse,
		AlarmDistance:   0.2,
		ContactDistance: 0.1,
	}, conf)

	conf, err = ParseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), conf)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		scenario string
		data     string
	}{
		{
			scenario: "malformed",
			data:     `max_depth = `,
		},
		{
			scenario: "negative depth",
			data:     `max_depth = -1`,
		},
		{
			scenario: "empty response",
			data:     `response = ""`,
		},
		{
			scenario: "negative distance",
			data:     `alarm_distance = -1`,
		},
		{
			scenario: "contact beyond alarm",
			data:     `contact_distance = 2.0`,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := ParseConfig([]byte(test.data))
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidConfig, errors.Type(err))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "collision.toml")
	err := os.WriteFile(filename, []byte("response_params = \"stiffness=10\"\nverbose = true\n"), 0o600)
	require.NoError(t, err)

	conf, err := LoadConfig(filename)
	require.NoError(t, err)
	require.Equal(t, "stiffness=10", conf.ResponseParams)
	require.True(t, conf.Verbose)
	require.Equal(t, DefaultResponse, conf.Response)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
