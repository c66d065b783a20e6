package domain

import "time"

// Default configuration values.
const (
	DefaultBaseURL          = "https://connectapi.garmin.com"
	DefaultSSOURL           = "https://sso.garmin.com/sso"
	DefaultConsumerURL      = "https://thegarth.s3.amazonaws.com/oauth_consumer.json"
	DefaultUploadsPerMinute = 30
	DefaultDebounce         = 5 * time.Second
)

// Config is the explicit configuration value handed to adapters and services.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	Garmin  GarminConfig
	Device  DeviceProfile
	Rewrite RewriteConfig
	Watch   WatchConfig
	Paths   PathsConfig
	Metrics MetricsConfig
}

// GarminConfig configures the activity service client.
type GarminConfig struct {
	Username string
	Password string

	// BaseURL is the Connect API root serving the OAuth exchange and uploads.
	BaseURL string

	// SSOURL is the single sign-on root the login form is posted to.
	SSOURL string

	// ConsumerKey and ConsumerSecret identify the OAuth1 consumer. When
	// unset they are fetched from ConsumerURL.
	ConsumerKey    string
	ConsumerSecret string
	ConsumerURL    string

	UploadsPerMinute int
}

// Credentials returns the statically configured credentials.
func (g GarminConfig) Credentials() Credentials {
	return Credentials{Username: g.Username, Password: g.Password}
}

// DeviceProfile is the hardware the rewritten activity is attributed to.
type DeviceProfile struct {
	// Manufacturer is the target vendor id.
	Manufacturer Manufacturer
	// Product is the target device product id.
	Product uint16
	// ThirdParty lists manufacturers whose device_info messages are rewritten
	// in addition to DEVELOPMENT and unset.
	ThirdParty []Manufacturer
}

// RewriteConfig tunes the message rewriter.
type RewriteConfig struct {
	// DropMessages lists global message numbers removed before re-encoding.
	// Empty by default: no message is dropped.
	DropMessages []uint16
}

// WatchConfig configures monitor mode.
type WatchConfig struct {
	Debounce time.Duration
	// InitialScan runs one batch on the root before arming the watcher.
	InitialScan bool
}

// PathsConfig holds local storage locations.
type PathsConfig struct {
	// DataDir holds session.json and history.db.
	DataDir string
	// TempDir holds transient encodes; empty means os.TempDir().
	TempDir string
}

// MetricsConfig configures the metrics endpoint of monitor mode.
type MetricsConfig struct {
	Addr string
}

// DefaultDeviceProfile returns the Edge 830 profile.
func DefaultDeviceProfile() DeviceProfile {
	return DeviceProfile{
		Manufacturer: ManufacturerGarmin,
		Product:      GarminProductEdge830,
		ThirdParty:   []Manufacturer{ManufacturerWahooFitness},
	}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Garmin: GarminConfig{
			BaseURL:          DefaultBaseURL,
			SSOURL:           DefaultSSOURL,
			ConsumerURL:      DefaultConsumerURL,
			UploadsPerMinute: DefaultUploadsPerMinute,
		},
		Device: DefaultDeviceProfile(),
		Watch: WatchConfig{
			Debounce:    DefaultDebounce,
			InitialScan: true,
		},
	}
}
