package services

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyGarminUsername   = "garmin.username"
	keyGarminPassword   = "garmin.password"
	keyGarminBaseURL    = "garmin.base_url"
	keyGarminSSOURL     = "garmin.sso_url"
	keyConsumerKey      = "garmin.consumer_key"
	keyConsumerSecret   = "garmin.consumer_secret"
	keyConsumerURL      = "garmin.consumer_url"
	keyUploadsPerMinute = "garmin.uploads_per_minute"
	keyManufacturer     = "device.manufacturer"
	keyProduct          = "device.product"
	keyThirdParty       = "device.third_party"
	keyDropMessages     = "rewrite.drop_messages"
	keyWatchDebounce    = "watch.debounce"
	keyWatchInitialScan = "watch.initial_scan"
	keyDataDir          = "paths.data_dir"
	keyTempDir          = "paths.temp_dir"
	keyMetricsAddr      = "metrics.addr"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindDuration
	kindIntList
)

// settingKeys lists every settable key with its value kind, in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{keyGarminUsername, kindString},
	{keyGarminPassword, kindString},
	{keyGarminBaseURL, kindString},
	{keyGarminSSOURL, kindString},
	{keyConsumerKey, kindString},
	{keyConsumerSecret, kindString},
	{keyConsumerURL, kindString},
	{keyUploadsPerMinute, kindInt},
	{keyManufacturer, kindInt},
	{keyProduct, kindInt},
	{keyThirdParty, kindIntList},
	{keyDropMessages, kindIntList},
	{keyWatchDebounce, kindDuration},
	{keyWatchInitialScan, kindBool},
	{keyDataDir, kindString},
	{keyTempDir, kindString},
	{keyMetricsAddr, kindString},
}

// SettingsService maps the config store onto domain.Config.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Load builds the effective configuration. Keys that are absent keep their
// defaults; keys that are present but malformed are an error.
func (s *SettingsService) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	cfg.Garmin.Username = s.getString(keyGarminUsername, cfg.Garmin.Username)
	cfg.Garmin.Password = s.getString(keyGarminPassword, cfg.Garmin.Password)
	cfg.Garmin.BaseURL = s.getString(keyGarminBaseURL, cfg.Garmin.BaseURL)
	cfg.Garmin.SSOURL = s.getString(keyGarminSSOURL, cfg.Garmin.SSOURL)
	cfg.Garmin.ConsumerKey = s.getString(keyConsumerKey, cfg.Garmin.ConsumerKey)
	cfg.Garmin.ConsumerSecret = s.getString(keyConsumerSecret, cfg.Garmin.ConsumerSecret)
	cfg.Garmin.ConsumerURL = s.getString(keyConsumerURL, cfg.Garmin.ConsumerURL)
	cfg.Garmin.UploadsPerMinute = s.getInt(keyUploadsPerMinute, cfg.Garmin.UploadsPerMinute)

	manufacturer, err := s.getUint16(keyManufacturer, uint16(cfg.Device.Manufacturer))
	if err != nil {
		return nil, err
	}
	cfg.Device.Manufacturer = domain.Manufacturer(manufacturer)

	if cfg.Device.Product, err = s.getUint16(keyProduct, cfg.Device.Product); err != nil {
		return nil, err
	}

	if _, ok := s.configStore.Get(keyThirdParty); ok {
		ids, err := s.getUint16Slice(keyThirdParty)
		if err != nil {
			return nil, err
		}
		cfg.Device.ThirdParty = make([]domain.Manufacturer, len(ids))
		for i, id := range ids {
			cfg.Device.ThirdParty[i] = domain.Manufacturer(id)
		}
	}

	if cfg.Rewrite.DropMessages, err = s.getUint16Slice(keyDropMessages); err != nil {
		return nil, err
	}

	if str := s.configStore.GetString(keyWatchDebounce); str != "" {
		d, err := parseDuration(keyWatchDebounce, str)
		if err != nil {
			return nil, err
		}
		cfg.Watch.Debounce = d
	}
	cfg.Watch.InitialScan = s.getBool(keyWatchInitialScan, cfg.Watch.InitialScan)

	cfg.Paths.DataDir = expandHome(s.configStore.GetString(keyDataDir))
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = filepath.Dir(s.configStore.Path())
	}
	cfg.Paths.TempDir = expandHome(s.configStore.GetString(keyTempDir))
	cfg.Metrics.Addr = s.configStore.GetString(keyMetricsAddr)

	return &cfg, nil
}

// Set validates value for key and persists it with the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		if (key == keyManufacturer || key == keyProduct) && !fitsUint16(n) {
			return fmt.Errorf("%w: %s must be between 0 and %d", domain.ErrInvalidInput, key, math.MaxUint16)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindDuration:
		if _, err := parseDuration(key, value); err != nil {
			return err
		}
		parsed = strings.TrimSpace(value)
	case kindIntList:
		list, err := parseIntList(key, value)
		if err != nil {
			return err
		}
		parsed = list
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Path returns the configuration file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); exists {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

func (s *SettingsService) getUint16(key string, defaultVal uint16) (uint16, error) {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal, nil
	}
	n := s.configStore.GetInt(key)
	if !fitsUint16(n) {
		return 0, fmt.Errorf("%w: %s out of range: %d", domain.ErrInvalidInput, key, n)
	}
	return uint16(n), nil
}

func (s *SettingsService) getUint16Slice(key string) ([]uint16, error) {
	ints := s.configStore.GetIntSlice(key)
	if len(ints) == 0 {
		return nil, nil
	}
	out := make([]uint16, len(ints))
	for i, n := range ints {
		if !fitsUint16(n) {
			return nil, fmt.Errorf("%w: %s out of range: %d", domain.ErrInvalidInput, key, n)
		}
		out[i] = uint16(n)
	}
	return out, nil
}

func lookupKind(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func fitsUint16(n int) bool {
	return n >= 0 && n <= math.MaxUint16
}

func parseDuration(key, str string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(str))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration like 5s", domain.ErrInvalidInput, key)
	}
	return d, nil
}

// parseIntList parses a comma-separated list of uint16 values.
// An empty string yields an empty list.
func parseIntList(key, value string) ([]int, error) {
	list := []int{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || !fitsUint16(n) {
			return nil, fmt.Errorf("%w: %s must be a comma-separated list of ids", domain.ErrInvalidInput, key)
		}
		list = append(list, n)
	}
	return list, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
