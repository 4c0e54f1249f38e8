package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks configuration that cannot be used. Every load and
// validation failure wraps it.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Logging struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Enabled             bool     `yaml:"enabled"`
		Addr                string   `yaml:"addr" validate:"required_if=Enabled true"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds" validate:"gte=0"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds" validate:"gte=0"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds" validate:"gte=0"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs" validate:"dive,cidr"`
	} `yaml:"server"`
	Scan      Scan `yaml:"scan"`
	Exchanges struct {
		Binance Exchange `yaml:"binance"`
		Huobi   Exchange `yaml:"huobi"`
		Kraken  Exchange `yaml:"kraken"`
	} `yaml:"exchanges"`
	Sinks struct {
		File struct {
			Enabled bool   `yaml:"enabled"`
			Path    string `yaml:"path" validate:"required_if=Enabled true"`
		} `yaml:"file"`
		Redis struct {
			Enabled    bool   `yaml:"enabled"`
			Addr       string `yaml:"addr" validate:"required_if=Enabled true"`
			Password   string `yaml:"password"`
			DB         int    `yaml:"db" validate:"gte=0"`
			Key        string `yaml:"key" validate:"required_if=Enabled true"`
			Channel    string `yaml:"channel"`
			TTLSeconds int    `yaml:"ttl_seconds" validate:"gte=0"`
		} `yaml:"redis"`
		Postgres struct {
			Enabled bool   `yaml:"enabled"`
			DSN     string `yaml:"dsn" validate:"required_if=Enabled true"`
			Table   string `yaml:"table" validate:"required_if=Enabled true"`
		} `yaml:"postgres"`
	} `yaml:"sinks"`
}

// Scan holds the detection thresholds and the pass schedule. Percent fields
// are in percent units; fee rates are fractions.
type Scan struct {
	Interval           time.Duration      `yaml:"interval" validate:"gt=0"`
	MinSpreadPercent   float64            `yaml:"min_spread_percent" validate:"gte=0"`
	MinProfitPercent   float64            `yaml:"min_profit_percent"`
	DefaultMinVolume   float64            `yaml:"default_min_volume" validate:"gte=0"`
	MinVolume          map[string]float64 `yaml:"min_volume" validate:"dive,keys,required,endkeys,gte=0"`
	DefaultFeeRate     float64            `yaml:"default_fee_rate" validate:"gte=0,lt=1"`
	FeeRates           map[string]float64 `yaml:"fee_rates" validate:"dive,keys,required,endkeys,gte=0,lt=1"`
	MaxTradeFraction   float64            `yaml:"max_trade_fraction" validate:"gt=0,lte=1"`
	MaxTradeAbsolute   float64            `yaml:"max_trade_absolute" validate:"gt=0"`
	StartAmount        float64            `yaml:"start_amount" validate:"gt=0"`
	MinRouteLiquidity  float64            `yaml:"min_route_liquidity" validate:"gte=0"`
	TopN               int                `yaml:"top_n" validate:"gte=0"`
	QuoteAssets        []string           `yaml:"quote_assets" validate:"dive,required,alphanum"`
	RoutesFile         string             `yaml:"routes_file"`
	PriceChangePercent float64            `yaml:"price_change_percent" validate:"gte=0"`
	WatchInstruments   []string           `yaml:"watch_instruments"`
	HeartbeatEvery     int                `yaml:"heartbeat_every" validate:"gte=0"`
}

// Exchange configures one REST market data source.
type Exchange struct {
	Enabled        bool     `yaml:"enabled"`
	BaseURL        string   `yaml:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Pairs          []string `yaml:"pairs"`
	RPS            float64  `yaml:"rps" validate:"gte=0"`
	TimeoutSeconds int      `yaml:"timeout_seconds" validate:"gte=0"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Enabled = true
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}

	c.Scan.Interval = 2 * time.Second
	c.Scan.MinSpreadPercent = 0.1
	c.Scan.MinProfitPercent = 0.05
	c.Scan.DefaultMinVolume = 10000
	c.Scan.DefaultFeeRate = 0.001
	c.Scan.FeeRates = map[string]float64{"binance": 0.001, "huobi": 0.002, "kraken": 0.0026}
	c.Scan.MaxTradeFraction = 0.05
	c.Scan.MaxTradeAbsolute = 50000
	c.Scan.StartAmount = 1000
	c.Scan.TopN = 10
	c.Scan.RoutesFile = "configs/routes.yaml"
	c.Scan.PriceChangePercent = 0.5
	c.Scan.WatchInstruments = []string{"BTC-USDT", "ETH-USDT", "ETH-BTC", "BNB-USDT", "XRP-USDT", "SOL-USDT"}
	c.Scan.HeartbeatEvery = 10

	c.Exchanges.Binance = Exchange{Enabled: true, BaseURL: "https://api.binance.com", RPS: 5, TimeoutSeconds: 5}
	c.Exchanges.Huobi = Exchange{Enabled: true, BaseURL: "https://api.huobi.pro", RPS: 5, TimeoutSeconds: 5}
	c.Exchanges.Kraken = Exchange{
		Enabled: true, BaseURL: "https://api.kraken.com", RPS: 1, TimeoutSeconds: 5,
		Pairs: []string{"XBTUSDT", "ETHUSDT", "ETHXBT", "XBTUSD", "ETHUSD", "SOLUSD", "XRPUSD"},
	}

	c.Sinks.File.Path = "arbitrage_opportunities.json"
	c.Sinks.Redis.Addr = "localhost:6379"
	c.Sinks.Redis.Key = "arbscan:report:latest"
	c.Sinks.Redis.Channel = "arbscan:opportunities"
	c.Sinks.Redis.TTLSeconds = 60
	c.Sinks.Postgres.Table = "arbitrage_opportunities"
	return c
}

// Load builds the configuration from defaults, the YAML file named by
// ARBSCAN_CONFIG, and ARBSCAN_* environment overrides, then validates it.
// A .env file in the working directory is read first when present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFile(os.Getenv("ARBSCAN_CONFIG"))
}

// LoadFile is Load with an explicit config path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	c := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
		}
	}
	if err := applyEnv(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func applyEnv(c *Config) error {
	setStr(&c.Logging.Level, "ARBSCAN_LOG_LEVEL")
	setBool(&c.Logging.Pretty, "ARBSCAN_LOG_PRETTY")
	setStr(&c.Server.Addr, "ARBSCAN_HTTP_ADDR")
	setBool(&c.Server.Pprof, "ARBSCAN_PPROF")
	if v := os.Getenv("ARBSCAN_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	if v := os.Getenv("ARBSCAN_SCAN_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: ARBSCAN_SCAN_INTERVAL: %v", ErrConfiguration, err)
		}
		c.Scan.Interval = d
	}
	for _, f := range []struct {
		dst *float64
		key string
	}{
		{&c.Scan.MinSpreadPercent, "ARBSCAN_MIN_SPREAD_PERCENT"},
		{&c.Scan.MinProfitPercent, "ARBSCAN_MIN_PROFIT_PERCENT"},
		{&c.Scan.DefaultMinVolume, "ARBSCAN_MIN_VOLUME"},
		{&c.Scan.DefaultFeeRate, "ARBSCAN_DEFAULT_FEE_RATE"},
		{&c.Scan.MaxTradeAbsolute, "ARBSCAN_MAX_TRADE_ABSOLUTE"},
		{&c.Scan.StartAmount, "ARBSCAN_START_AMOUNT"},
	} {
		if err := setFloat(f.dst, f.key); err != nil {
			return err
		}
	}
	setStr(&c.Scan.RoutesFile, "ARBSCAN_ROUTES_FILE")
	setStr(&c.Sinks.Redis.Addr, "ARBSCAN_REDIS_ADDR")
	// secrets only from env
	setStr(&c.Sinks.Redis.Password, "ARBSCAN_REDIS_PASSWORD")
	setStr(&c.Sinks.Postgres.DSN, "ARBSCAN_POSTGRES_DSN")
	return nil
}

// Validate checks struct constraints and the rules that span sections.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if !c.Exchanges.Binance.Enabled && !c.Exchanges.Huobi.Enabled && !c.Exchanges.Kraken.Enabled {
		return fmt.Errorf("%w: no exchange enabled", ErrConfiguration)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v == "1" || v == "true" {
		*dst = true
	}
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, key, err)
	}
	*dst = f
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
