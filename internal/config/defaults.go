package config

const (
	defaultDataDir           = "~/.local/share/stockbin"
	defaultLogDir            = "~/.local/share/stockbin/logs"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultDebounceMillis    = 1000
	defaultProviderTimeout   = 10
	defaultPartTypeID        = 14 // IC
	defaultQuantity          = 1
	defaultLowStockThreshold = 10
	defaultRecentParts       = 10
)

// Default returns a Config populated with repository defaults. The three
// managed suppliers are present but disabled until keys are supplied.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Lookup: Lookup{
			DebounceMillis: defaultDebounceMillis,
			ExistenceCheck: true,
		},
		Scanner: Scanner{
			MonitorEnabled: false,
		},
		Preferences: Preferences{
			DefaultPartTypeID:    defaultPartTypeID,
			DefaultQuantity:      defaultQuantity,
			DefaultLowStock:      defaultLowStockThreshold,
			RememberLast:         true,
			DefaultMountingType:  0,
			RecentPartsToDisplay: defaultRecentParts,
		},
		Providers: []Provider{
			{Name: "DigiKey", Enabled: false, BaseURL: "https://api.digikey.com", TimeoutSeconds: defaultProviderTimeout},
			{Name: "Mouser", Enabled: false, BaseURL: "https://api.mouser.com", TimeoutSeconds: defaultProviderTimeout},
			{Name: "Arrow", Enabled: false, BaseURL: "https://api.arrow.com", TimeoutSeconds: defaultProviderTimeout},
		},
	}
}
