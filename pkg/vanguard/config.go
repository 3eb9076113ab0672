// Package vanguard runs the Vanguard master server.
package vanguard

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config contains the configuration for Vanguard. The env struct tag contains
// the environment variable name and the default value if missing, or empty (if
// not ?=). All string arrays are comma-separated.
type Config struct {
	// The addresses to listen on (comma-separated).
	Addr []string `env:"ADDR?=:33998"`

	// The minimum log level (e.g., trace, debug, info, warn, error, fatal).
	//
	// Note that access logs for noisy HTTP endpoints are demoted to debug.
	LogLevel zerolog.Level `env:"LOG_LEVEL=debug"`

	// Whether to use pretty logs on stdout.
	LogPretty bool `env:"LOG_PRETTY=true"`

	// The log file to output to, if provided.
	LogFile string `env:"LOG_FILE"`

	// The minimum log level for the log file.
	LogFileLevel zerolog.Level `env:"LOG_FILE_LEVEL=info"`

	// The storage to use for accounts and pdata (required):
	//  - memory
	//  - memory:compress
	//  - sqlite:/path/to/vanguard.db
	DatabaseURL string `env:"DATABASE_URL"`

	// Minimum launcher semver to allow. Dev versions are always allowed. If
	// not provided, all versions are allowed.
	LauncherVersion string `env:"LAUNCHER_VERSION"`

	// The maximum number of gameservers to allow per IP.
	MaxServersPerHost int `env:"MAX_SERVERS_PER_HOST=10"`

	// The path to the pdata blob used for players without stored pdata.
	DefaultPdata string `env:"DEFAULT_PDATA=default.pdata"`

	// The path to the main menu promos JSON. If set to an empty string, the
	// endpoint serves an empty object.
	PromosFile string `env:"PROMOS_FILE?=mainmenupromodata.json"`

	// The timeout for game server verification and auth requests.
	GameServerTimeout time.Duration `env:"GAMESERVER_TIMEOUT=5s"`

	// Don't check player masterserver auth tokens, disable stryder auth.
	InsecureDevNoCheckPlayerAuth bool `env:"INSECURE_DEV_NO_CHECK_PLAYER_AUTH"`

	// Secret token for accessing internal metrics.
	MetricsSecret string `env:"METRICS_SECRET"`
}

// UnmarshalEnv unmarshals an array of environment variables into c, setting
// default values as appropriate.
func (c *Config) UnmarshalEnv(es []string) error {
	em := map[string]string{}
	for _, e := range es {
		if k, v, ok := strings.Cut(e, "="); ok {
			em[k] = v
		}
	}
	cv := reflect.ValueOf(c).Elem()
	for _, ctf := range reflect.VisibleFields(cv.Type()) {
		env, ok := ctf.Tag.Lookup("env")
		if !ok {
			continue
		}

		// get the default value, and check if it can be explicitly set to an
		// empty value
		var unsettable bool
		key, val, _ := strings.Cut(env, "=")
		if strings.HasSuffix(key, "?") {
			key = strings.TrimSuffix(key, "?")
			unsettable = true
		}
		if v, exists := em[key]; exists {
			// if the value is non-empty or we are allowed to set it to an
			// empty value, set it, otherwise simply keep the default
			if unsettable || v != "" {
				val = v
			}
		}

		switch cvf := cv.FieldByName(ctf.Name); cvf.Interface().(type) {
		case string:
			cvf.SetString(val)
		case int, int8, int16, int32, int64:
			if val == "" {
				cvf.SetInt(0)
			} else if v, err := strconv.ParseInt(val, 10, 64); err == nil {
				cvf.SetInt(v)
			} else {
				return fmt.Errorf("env %s (%T): parse %q: %w", key, cvf.Interface(), val, err)
			}
		case bool:
			if val == "" {
				cvf.SetBool(false)
			} else if v, err := strconv.ParseBool(val); err == nil {
				cvf.SetBool(v)
			} else {
				return fmt.Errorf("env %s (%T): parse %q: %w", key, cvf.Interface(), val, err)
			}
		case []string:
			if val == "" {
				cvf.Set(reflect.ValueOf([]string{}))
			} else {
				cvf.Set(reflect.ValueOf(strings.Split(val, ",")))
			}
		case zerolog.Level:
			if v, err := zerolog.ParseLevel(val); err == nil {
				cvf.Set(reflect.ValueOf(v))
			} else {
				return fmt.Errorf("env %s (%T): parse %q: %w", key, cvf.Interface(), val, err)
			}
		case time.Duration:
			if v, err := time.ParseDuration(val); err == nil {
				cvf.Set(reflect.ValueOf(v))
			} else {
				return fmt.Errorf("env %s (%T): parse %q: %w", key, cvf.Interface(), val, err)
			}
		default:
			return fmt.Errorf("unhandled type %T (%s)", cvf.Interface(), env)
		}
	}
	return nil
}
