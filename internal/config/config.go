// Package config resolves client settings from layered sources.
//
// Precedence, lowest first: built-in defaults, the TOML config store,
// a .env file, then RAGDESK_* environment variables. Command-line flags
// are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RAGDESK_"

// Setting keys.
const (
	KeyBackendURL       = "backend.url"
	KeyBackendTimeout   = "backend.timeout"
	KeyRateLimit        = "backend.rate_limit"
	KeyRateBurst        = "backend.rate_burst"
	KeyAllMarker        = "query.all_marker"
	KeyStatusTTL        = "ui.status_ttl"
	KeyUploadResetDelay = "ui.upload_reset_delay"
)

// ErrUnknownKey is returned by Set for keys Load does not read.
var ErrUnknownKey = errors.New("unknown config key")

type kind int

const (
	kindString kind = iota
	kindDuration
	kindFloat
	kindInt
)

type keySpec struct {
	kind kind
	help string
}

var specs = map[string]keySpec{
	KeyBackendURL:       {kindString, "base URL of the document backend"},
	KeyBackendTimeout:   {kindDuration, "per-request timeout"},
	KeyRateLimit:        {kindFloat, "max requests per second, 0 disables"},
	KeyRateBurst:        {kindInt, "request burst size"},
	KeyAllMarker:        {kindString, "collections value meaning all collections"},
	KeyStatusTTL:        {kindDuration, "how long status messages stay visible"},
	KeyUploadResetDelay: {kindDuration, "pause before leaving a finished upload"},
}

// Keys returns every recognised key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Help returns the one-line description of key.
func Help(key string) string {
	return specs[key].help
}

// EnvName returns the environment variable for key,
// e.g. backend.url becomes RAGDESK_BACKEND_URL.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load resolves settings. store may be nil. envFile may be empty; a
// missing env file is not an error.
func Load(store driven.ConfigStore, envFile string) (domain.ClientSettings, error) {
	s := domain.DefaultClientSettings()

	if store != nil {
		applyStore(&s, store)
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return s, err
	}

	lookup := func(key string) (string, bool) {
		name := EnvName(key)
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok && v != ""
	}

	for _, key := range Keys() {
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		if err := apply(&s, key, raw); err != nil {
			return s, fmt.Errorf("reading %s: %w", EnvName(key), err)
		}
	}

	if err := s.Validate(); err != nil {
		return s, err
	}

	logger.Debug("Backend: %s (timeout %s, %.1f req/s)", s.BackendURL, s.Timeout, s.RateLimit)
	return s, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading env file %s: %w", path, err)
	}
	logger.Debug("Loaded %d values from %s", len(values), path)
	return values, nil
}

func applyStore(s *domain.ClientSettings, store driven.ConfigStore) {
	if v := store.GetString(KeyBackendURL); v != "" {
		s.BackendURL = v
	}
	if v := store.GetDuration(KeyBackendTimeout); v > 0 {
		s.Timeout = v
	}
	if _, ok := store.Get(KeyRateLimit); ok {
		s.RateLimit = store.GetFloat(KeyRateLimit)
	}
	if v := store.GetInt(KeyRateBurst); v > 0 {
		s.RateBurst = v
	}
	if v := store.GetString(KeyAllMarker); v != "" {
		s.AllMarker = v
	}
	if v := store.GetDuration(KeyStatusTTL); v > 0 {
		s.StatusTTL = v
	}
	if _, ok := store.Get(KeyUploadResetDelay); ok {
		s.UploadResetDelay = store.GetDuration(KeyUploadResetDelay)
	}
}

// apply parses raw for key and stores it in s.
func apply(s *domain.ClientSettings, key, raw string) error {
	value, err := parse(key, raw)
	if err != nil {
		return err
	}
	switch key {
	case KeyBackendURL:
		s.BackendURL = value.(string)
	case KeyBackendTimeout:
		s.Timeout = value.(time.Duration)
	case KeyRateLimit:
		s.RateLimit = value.(float64)
	case KeyRateBurst:
		s.RateBurst = value.(int)
	case KeyAllMarker:
		s.AllMarker = value.(string)
	case KeyStatusTTL:
		s.StatusTTL = value.(time.Duration)
	case KeyUploadResetDelay:
		s.UploadResetDelay = value.(time.Duration)
	}
	return nil
}

func parse(key, raw string) (any, error) {
	spec, ok := specs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	raw = strings.TrimSpace(raw)
	switch spec.kind {
	case kindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Message: fmt.Sprintf("%s: %q is not a duration", key, raw)}
		}
		return d, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Message: fmt.Sprintf("%s: %q is not a number", key, raw)}
		}
		return f, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Message: fmt.Sprintf("%s: %q is not an integer", key, raw)}
		}
		return n, nil
	default:
		return raw, nil
	}
}

// Set parses value for key, checks the resulting settings are valid and
// persists it to store. Durations are stored as strings.
func Set(store driven.ConfigStore, key, value string) error {
	parsed, err := parse(key, value)
	if err != nil {
		return err
	}

	current := domain.DefaultClientSettings()
	applyStore(&current, store)
	if err := apply(&current, key, value); err != nil {
		return err
	}
	if err := current.Validate(); err != nil {
		return err
	}

	if d, ok := parsed.(time.Duration); ok {
		parsed = d.String()
	}
	if err := store.Set(key, parsed); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key in s, formatted for display.
func Value(s domain.ClientSettings, key string) string {
	switch key {
	case KeyBackendURL:
		return s.BackendURL
	case KeyBackendTimeout:
		return s.Timeout.String()
	case KeyRateLimit:
		return strconv.FormatFloat(s.RateLimit, 'g', -1, 64)
	case KeyRateBurst:
		return strconv.Itoa(s.RateBurst)
	case KeyAllMarker:
		return s.AllMarker
	case KeyStatusTTL:
		return s.StatusTTL.String()
	case KeyUploadResetDelay:
		return s.UploadResetDelay.String()
	default:
		return ""
	}
}
