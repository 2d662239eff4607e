package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/fundamentals/internal/peers"
	"github.com/sells-group/fundamentals/internal/warehouse"
)

// Config is the top-level configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Companies []string        `yaml:"companies" mapstructure:"companies"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Quarterly QuarterlyConfig `yaml:"quarterly" mapstructure:"quarterly"`
	Peers     PeersConfig     `yaml:"peers" mapstructure:"peers"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the per-company statement payloads.
type DataConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Lenient bool   `yaml:"lenient" mapstructure:"lenient"`
}

// WarehouseConfig holds fundamentals warehouse settings.
type WarehouseConfig struct {
	Driver           string        `yaml:"driver" mapstructure:"driver"`
	DSN              string        `yaml:"dsn" mapstructure:"dsn"`
	ProjectID        string        `yaml:"project_id" mapstructure:"project_id"`
	CredentialsFile  string        `yaml:"credentials_file" mapstructure:"credentials_file"`
	TableAll         string        `yaml:"table_all" mapstructure:"table_all"`
	TableQuarter     string        `yaml:"table_quarter" mapstructure:"table_quarter"`
	QPS              float64       `yaml:"qps" mapstructure:"qps"`
	Burst            int           `yaml:"burst" mapstructure:"burst"`
	// BreakerThreshold consecutive failures stop queries for BreakerCooldown.
	BreakerThreshold int           `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown" mapstructure:"breaker_cooldown"`
}

// QuarterlyConfig filters the quarterly trend data.
type QuarterlyConfig struct {
	// Years restricts the chart to these fiscal years; empty keeps all.
	Years []int `yaml:"years" mapstructure:"years"`
}

// PeersConfig tunes the peer comparison table.
type PeersConfig struct {
	SizeMetric  string `yaml:"size_metric" mapstructure:"size_metric"`
	Limit       int    `yaml:"limit" mapstructure:"limit"`
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// ExportConfig holds batch export settings.
type ExportConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultCompanies is the dashboard's company list when none is configured.
var DefaultCompanies = []string{"ULTJ", "MYOR", "CMRY", "UNVR", "INDF", "ICBP", "KEJU", "DMND", "GOOD"}

// Load reads .env, config.yaml and FUNDAMENTALS_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FUNDAMENTALS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment names used by earlier deployments.
	_ = v.BindEnv("warehouse.project_id", "FUNDAMENTALS_WAREHOUSE_PROJECT_ID", "GOOGLE_PROJECT_ID")
	_ = v.BindEnv("warehouse.table_all", "FUNDAMENTALS_WAREHOUSE_TABLE_ALL", "BIGQUERY_TABLE_ALL")
	_ = v.BindEnv("warehouse.table_quarter", "FUNDAMENTALS_WAREHOUSE_TABLE_QUARTER", "BIGQUERY_TABLE_QUARTER")
	_ = v.BindEnv("warehouse.credentials_file", "FUNDAMENTALS_WAREHOUSE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")

	v.SetDefault("data.dir", "output")
	v.SetDefault("data.base_url", "")
	v.SetDefault("data.lenient", true)
	v.SetDefault("companies", DefaultCompanies)
	v.SetDefault("warehouse.driver", warehouse.DriverBigQuery)
	v.SetDefault("warehouse.dsn", "")
	v.SetDefault("warehouse.project_id", "")
	v.SetDefault("warehouse.credentials_file", "")
	v.SetDefault("warehouse.table_all", warehouse.DefaultTables.All)
	v.SetDefault("warehouse.table_quarter", warehouse.DefaultTables.Quarter)
	v.SetDefault("warehouse.qps", 5)
	v.SetDefault("warehouse.burst", 5)
	v.SetDefault("warehouse.breaker_threshold", 5)
	v.SetDefault("warehouse.breaker_cooldown", 30*time.Second)
	v.SetDefault("quarterly.years", []int{})
	v.SetDefault("peers.size_metric", peers.DefaultSizeMetric)
	v.SetDefault("peers.limit", peers.DefaultLimit)
	v.SetDefault("peers.catalog_path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	companies := make([]string, 0, len(cfg.Companies))
	for _, c := range cfg.Companies {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			companies = append(companies, c)
		}
	}
	cfg.Companies = companies

	return &cfg, nil
}

// Validate checks settings the selected command depends on. The flow and
// export modes read payloads only and skip the warehouse checks.
func (c *Config) Validate(mode string) error {
	var errs []string

	if len(c.Companies) == 0 {
		errs = append(errs, "companies must list at least one code")
	}

	switch mode {
	case "serve":
		errs = append(errs, c.warehouseErrors()...)
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	case "export":
		if c.Export.Concurrency < 1 {
			errs = append(errs, "export.concurrency must be at least 1")
		}
	case "flow":
	default:
		errs = append(errs, c.warehouseErrors()...)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) warehouseErrors() []string {
	switch c.Warehouse.Driver {
	case warehouse.DriverBigQuery:
		if c.Warehouse.ProjectID == "" {
			return []string{"warehouse.project_id is required for bigquery"}
		}
	case warehouse.DriverPostgres, warehouse.DriverSQLite, warehouse.DriverMySQL:
		if c.Warehouse.DSN == "" {
			return []string{"warehouse.dsn is required for " + c.Warehouse.Driver}
		}
	case warehouse.DriverNone, "":
	default:
		return []string{"warehouse.driver " + c.Warehouse.Driver + " is not supported"}
	}
	return nil
}

// WarehouseOptions maps the warehouse section to warehouse.Options.
func (c *Config) WarehouseOptions() warehouse.Options {
	return warehouse.Options{
		Driver:          c.Warehouse.Driver,
		DSN:             c.Warehouse.DSN,
		ProjectID:       c.Warehouse.ProjectID,
		CredentialsFile: c.Warehouse.CredentialsFile,
		Tables: warehouse.Tables{
			All:     c.Warehouse.TableAll,
			Quarter: c.Warehouse.TableQuarter,
		},
	}
}

// PeerOptions maps the peers section to peers.Options, loading the catalog
// file when one is configured.
func (c *Config) PeerOptions() (peers.Options, error) {
	opts := peers.Options{
		SizeMetric: c.Peers.SizeMetric,
		Limit:      c.Peers.Limit,
	}
	if c.Peers.CatalogPath != "" {
		cat, err := peers.LoadCatalog(c.Peers.CatalogPath)
		if err != nil {
			return peers.Options{}, err
		}
		opts.Catalog = cat
	}
	return opts, nil
}

// InitLogger configures the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrapf(err, "config: parse log level %q", cfg.Level)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}

	zap.ReplaceGlobals(logger)
	return nil
}
