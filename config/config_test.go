package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tt := []struct {
		desc     string
		env      map[string]string
		expected Config
		invalid  bool
	}{
		{
			desc: "defaults",
			expected: Config{
				WBXMLTimeout: time.Second,
				LogLevel:     "info",
			},
		},
		{
			desc: "overrides",
			env: map[string]string{
				"PDU_WBXML_URL":     "http://localhost:8080/wbxml",
				"PDU_WBXML_TIMEOUT": "250ms",
				"PDU_MODEM_PORT":    "/dev/ttyUSB2",
				"PDU_LOG_LEVEL":     "debug",
				"PDU_TRACE":         "true",
			},
			expected: Config{
				WBXMLURL:     "http://localhost:8080/wbxml",
				WBXMLTimeout: 250 * time.Millisecond,
				ModemPort:    "/dev/ttyUSB2",
				LogLevel:     "debug",
				Trace:        true,
			},
		},
		{
			desc:    "invalid duration",
			env:     map[string]string{"PDU_WBXML_TIMEOUT": "soon"},
			invalid: true,
		},
		{
			desc:    "zero timeout",
			env:     map[string]string{"PDU_WBXML_TIMEOUT": "0s"},
			invalid: true,
		},
		{
			desc:    "invalid bool",
			env:     map[string]string{"PDU_TRACE": "maybe"},
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			chdir(t, t.TempDir())

			actual, err := Load()
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	filename := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(filename, []byte("PDU_MODEM_PORT=/dev/ttyACM0\nPDU_LOG_LEVEL=warn\n"), 0o600))
	t.Setenv("PDU_LOG_LEVEL", "error")

	actual, err := Load(filename)

	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", actual.ModemPort)
	assert.Equal(t, "error", actual.LogLevel, "the environment takes precedence over the env file")
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_ImplicitEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PDU_LOG_LEVEL=debug\n"), 0o600))
	chdir(t, dir)

	actual, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", actual.LogLevel)
}

func TestConfig_NewLogger(t *testing.T) {
	tt := []struct {
		desc     string
		config   Config
		expected logrus.Level
		invalid  bool
	}{
		{desc: "info", config: Config{LogLevel: "info"}, expected: logrus.InfoLevel},
		{desc: "debug", config: Config{LogLevel: "DEBUG"}, expected: logrus.DebugLevel},
		{desc: "trace overrides level", config: Config{LogLevel: "warn", Trace: true}, expected: logrus.TraceLevel},
		{desc: "invalid", config: Config{LogLevel: "loud"}, invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			logger, err := tc.config.NewLogger()
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, logger.GetLevel())
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PDU_WBXML_URL", "PDU_WBXML_TIMEOUT", "PDU_MODEM_PORT", "PDU_LOG_LEVEL", "PDU_TRACE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
