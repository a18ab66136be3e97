package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials identify one Angel One account. Passed by value and never mutated.
type Credentials struct {
	ClientCode string
	Password   string
	APIKey     string
}

// SessionTokens is the token payload returned by a successful login.
type SessionTokens struct {
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken,omitempty"`
}

type QuoteParams struct {
	Exchange      string `json:"exchange" yaml:"exchange"`
	TradingSymbol string `json:"tradingsymbol" yaml:"tradingsymbol"`
	SymbolToken   string `json:"symboltoken" yaml:"symboltoken"`
}

// CandleParams are forwarded verbatim; interval and date formats are validated upstream.
type CandleParams struct {
	Exchange    string `json:"exchange"`
	SymbolToken string `json:"symboltoken"`
	Interval    string `json:"interval"`
	FromDate    string `json:"fromdate"`
	ToDate      string `json:"todate"`
}

// CandleRecord is one element of the getCandleData payload, kept as raw JSON.
type CandleRecord = json.RawMessage

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// candleTimeLayout matches timestamps such as 2024-01-15T09:15:00+05:30.
const candleTimeLayout = time.RFC3339

// DecodeCandle parses the usual [timestamp, open, high, low, close, volume] row.
func DecodeCandle(rec CandleRecord) (Candle, error) {
	var row []json.RawMessage
	if err := json.Unmarshal(rec, &row); err != nil {
		return Candle{}, fmt.Errorf("candle is not an array: %w", err)
	}
	if len(row) < 6 {
		return Candle{}, fmt.Errorf("candle has %d fields, want 6", len(row))
	}

	var ts string
	if err := json.Unmarshal(row[0], &ts); err != nil {
		return Candle{}, fmt.Errorf("candle timestamp: %w", err)
	}
	t, err := time.Parse(candleTimeLayout, ts)
	if err != nil {
		return Candle{}, fmt.Errorf("candle timestamp %q: %w", ts, err)
	}

	vals := make([]float64, 5)
	for i := range vals {
		if err := json.Unmarshal(row[i+1], &vals[i]); err != nil {
			return Candle{}, fmt.Errorf("candle field %d: %w", i+1, err)
		}
	}

	return Candle{
		Ts:    t.Unix(),
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
		Vol:   vals[4],
	}, nil
}

// Profile is the data object of getProfile. Raw holds the full upstream object.
type Profile struct {
	ClientCode    string          `json:"clientcode"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	MobileNo      string          `json:"mobileno"`
	Exchanges     []string        `json:"exchanges"`
	Products      []string        `json:"products"`
	LastLoginTime string          `json:"lastlogintime"`
	BrokerID      string          `json:"brokerid"`
	Raw           json.RawMessage `json:"-"`
}
