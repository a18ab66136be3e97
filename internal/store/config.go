package store

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"angelone-connect/internal/types"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "https://apiconnect.angelone.in"
	defaultTimeoutSeconds = 30
)

type Config struct {
	AngelOne struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Identity       struct {
			UserType   string `yaml:"user_type"`
			SourceID   string `yaml:"source_id"`
			LocalIP    string `yaml:"local_ip"`
			PublicIP   string `yaml:"public_ip"`
			MACAddress string `yaml:"mac_address"`
		} `yaml:"identity"`
	} `yaml:"angelone"`
	Demo struct {
		Quotes  []types.QuoteParams `yaml:"quotes"`
		Candles struct {
			Exchange     string `yaml:"exchange"`
			SymbolToken  string `yaml:"symboltoken"`
			Interval     string `yaml:"interval"`
			FromTime     string `yaml:"from_time"`
			ToTime       string `yaml:"to_time"`
			LookbackDays int    `yaml:"lookback_days"`
		} `yaml:"candles"`
	} `yaml:"demo"`
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.AngelOne.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid angelone.base_url '%s': must be an http(s) URL", c.AngelOne.BaseURL)
	}
	if strings.HasSuffix(c.AngelOne.BaseURL, "/") {
		return fmt.Errorf("angelone.base_url '%s' must not end with '/'", c.AngelOne.BaseURL)
	}
	if c.AngelOne.TimeoutSeconds <= 0 {
		return fmt.Errorf("angelone.timeout_seconds must be positive, got %d", c.AngelOne.TimeoutSeconds)
	}
	for i, q := range c.Demo.Quotes {
		if q.Exchange == "" || q.TradingSymbol == "" || q.SymbolToken == "" {
			return fmt.Errorf("demo.quotes[%d]: exchange, tradingsymbol and symboltoken are required", i)
		}
	}
	if c.Demo.Candles.LookbackDays < 0 {
		return fmt.Errorf("demo.candles.lookback_days must not be negative, got %d", c.Demo.Candles.LookbackDays)
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.AngelOne.BaseURL == "" {
		c.AngelOne.BaseURL = defaultBaseURL
	}
	if c.AngelOne.TimeoutSeconds == 0 {
		c.AngelOne.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Demo.Candles.Interval == "" {
		c.Demo.Candles.Interval = "ONE_MINUTE"
	}
	if c.Demo.Candles.FromTime == "" {
		c.Demo.Candles.FromTime = "09:15"
	}
	if c.Demo.Candles.ToTime == "" {
		c.Demo.Candles.ToTime = "15:30"
	}
	if c.Demo.Candles.LookbackDays == 0 {
		c.Demo.Candles.LookbackDays = 1
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// LoadCredentials reads ANGEL_CLIENT_CODE, ANGEL_PASSWORD and ANGEL_API_KEY.
func LoadCredentials() (types.Credentials, error) {
	creds := types.Credentials{
		ClientCode: strings.TrimSpace(os.Getenv("ANGEL_CLIENT_CODE")),
		Password:   os.Getenv("ANGEL_PASSWORD"),
		APIKey:     strings.TrimSpace(os.Getenv("ANGEL_API_KEY")),
	}

	var missing []string
	if creds.ClientCode == "" {
		missing = append(missing, "ANGEL_CLIENT_CODE")
	}
	if creds.Password == "" {
		missing = append(missing, "ANGEL_PASSWORD")
	}
	if creds.APIKey == "" {
		missing = append(missing, "ANGEL_API_KEY")
	}
	if len(missing) > 0 {
		return types.Credentials{}, errors.New("missing credentials: " + strings.Join(missing, ", "))
	}

	return creds, nil
}
