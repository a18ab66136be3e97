package angelone

import "time"

const (
	DefaultBaseURL = "https://apiconnect.angelone.in"
	DefaultTimeout = 30 * time.Second

	loginPath   = "/rest/auth/angelbroking/user/v1/loginByPassword"
	ltpPath     = "/rest/secure/angelbroking/order/v1/getLtpData"
	candlePath  = "/rest/secure/angelbroking/historical/v1/getCandleData"
	profilePath = "/rest/secure/angelbroking/v1/getProfile"
)

// Identity holds the client-identity header values the API expects on every
// request. They are plain markers with no security function; the defaults are
// placeholders that the upstream accepts.
type Identity struct {
	UserType   string
	SourceID   string
	LocalIP    string
	PublicIP   string
	MACAddress string
}

func DefaultIdentity() Identity {
	return Identity{
		UserType:   "USER",
		SourceID:   "WEB",
		LocalIP:    "192.168.1.1",
		PublicIP:   "106.193.147.98",
		MACAddress: "fe80::216e:6507:4b90:3719",
	}
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Identity Identity
}

func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Identity: DefaultIdentity(),
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Identity.UserType == "" {
		c.Identity.UserType = d.Identity.UserType
	}
	if c.Identity.SourceID == "" {
		c.Identity.SourceID = d.Identity.SourceID
	}
	if c.Identity.LocalIP == "" {
		c.Identity.LocalIP = d.Identity.LocalIP
	}
	if c.Identity.PublicIP == "" {
		c.Identity.PublicIP = d.Identity.PublicIP
	}
	if c.Identity.MACAddress == "" {
		c.Identity.MACAddress = d.Identity.MACAddress
	}
	return c
}
