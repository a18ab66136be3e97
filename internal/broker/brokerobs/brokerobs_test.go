package brokerobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"angelone-connect/internal/logger"
	"angelone-connect/internal/types"
)

type fakeBroker struct {
	tokens  types.SessionTokens
	ltp     float64
	candles []types.CandleRecord
	profile *types.Profile
	err     error
	gotTOTP string
}

func (f *fakeBroker) Login(ctx context.Context, totp string) (types.SessionTokens, error) {
	f.gotTOTP = totp
	return f.tokens, f.err
}

func (f *fakeBroker) LTP(ctx context.Context, p types.QuoteParams) (float64, error) {
	return f.ltp, f.err
}

func (f *fakeBroker) Candles(ctx context.Context, p types.CandleParams) ([]types.CandleRecord, error) {
	return f.candles, f.err
}

func (f *fakeBroker) Profile(ctx context.Context) (*types.Profile, error) {
	return f.profile, f.err
}

func (f *fakeBroker) JWTToken() string { return f.tokens.JWTToken }

func initLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := logger.InitWithConfig(logger.LogConfig{Level: "DEBUG", Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestWrapPassesResultsThrough(t *testing.T) {
	initLogs(t)
	inner := &fakeBroker{
		tokens:  types.SessionTokens{JWTToken: "eyJhbGciOiJIUzUxMiJ9.secret", RefreshToken: "R"},
		ltp:     612.5,
		candles: []types.CandleRecord{types.CandleRecord(`[]`)},
		profile: &types.Profile{ClientCode: "K123456"},
	}
	b := Wrap(inner, "K123456")
	ctx := context.Background()

	tokens, err := b.Login(ctx, "123456")
	if err != nil || tokens != inner.tokens {
		t.Errorf("Expected tokens passed through, got %+v, %v", tokens, err)
	}
	if inner.gotTOTP != "123456" {
		t.Errorf("Expected TOTP forwarded, got %q", inner.gotTOTP)
	}
	if ltp, _ := b.LTP(ctx, types.QuoteParams{TradingSymbol: "SBIN-EQ"}); ltp != 612.5 {
		t.Errorf("Expected 612.5, got %v", ltp)
	}
	if cs, _ := b.Candles(ctx, types.CandleParams{}); len(cs) != 1 {
		t.Errorf("Expected 1 candle, got %d", len(cs))
	}
	if p, _ := b.Profile(ctx); p == nil || p.ClientCode != "K123456" {
		t.Errorf("Expected profile passed through, got %+v", p)
	}
	if b.JWTToken() != inner.tokens.JWTToken {
		t.Error("Expected JWTToken to delegate")
	}
}

func TestWrapNeverLogsSecrets(t *testing.T) {
	buf := initLogs(t)
	inner := &fakeBroker{tokens: types.SessionTokens{JWTToken: "eyJhbGciOiJIUzUxMiJ9.secret-part", RefreshToken: "refresh-secret"}}

	if _, err := Wrap(inner, "K123456").Login(context.Background(), "987654"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, secret := range []string{"secret-part", "refresh-secret", "987654"} {
		if strings.Contains(out, secret) {
			t.Errorf("Log output leaked %q: %s", secret, out)
		}
	}
	if !strings.Contains(out, "login_succeeded") {
		t.Errorf("Expected auth event in logs, got %s", out)
	}
}

func TestWrapReturnsErrorsUnchanged(t *testing.T) {
	buf := initLogs(t)
	sentinel := errors.New("Invalid TOTP")
	b := Wrap(&fakeBroker{err: sentinel}, "K123456")
	ctx := context.Background()

	if _, err := b.Login(ctx, "1"); err != sentinel {
		t.Errorf("Expected sentinel from Login, got %v", err)
	}
	if _, err := b.LTP(ctx, types.QuoteParams{}); err != sentinel {
		t.Errorf("Expected sentinel from LTP, got %v", err)
	}
	if _, err := b.Candles(ctx, types.CandleParams{}); err != sentinel {
		t.Errorf("Expected sentinel from Candles, got %v", err)
	}
	if _, err := b.Profile(ctx); err != sentinel {
		t.Errorf("Expected sentinel from Profile, got %v", err)
	}
	if !strings.Contains(buf.String(), "login_rejected") {
		t.Errorf("Expected rejected login event, got %s", buf.String())
	}
}

func TestWrapProfileAbsent(t *testing.T) {
	buf := initLogs(t)

	p, err := Wrap(&fakeBroker{}, "K123456").Profile(context.Background())
	if p != nil || err != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", p, err)
	}
	if !strings.Contains(buf.String(), "Profile response carried no data") {
		t.Errorf("Expected warning for absent profile, got %s", buf.String())
	}
}

func TestWrapTimesEachCall(t *testing.T) {
	buf := initLogs(t)
	if err := logger.InitWithConfig(logger.LogConfig{Format: "json", DetailedLogging: true, Output: buf}); err != nil {
		t.Fatal(err)
	}
	b := Wrap(&fakeBroker{ltp: 612.5}, "K123456")

	if _, err := b.LTP(context.Background(), types.QuoteParams{Exchange: "NSE", TradingSymbol: "SBIN-EQ"}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"operation":"broker.LTP"`, `"msg":"Operation completed"`, `"duration_ms"`, `"price":612.5`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in logs, got %s", want, out)
		}
	}
}

func TestWrapLogsFailedOperation(t *testing.T) {
	buf := initLogs(t)
	b := Wrap(&fakeBroker{err: errors.New("Symbol not found")}, "K123456")

	b.Candles(context.Background(), types.CandleParams{SymbolToken: "3045"})

	out := buf.String()
	if !strings.Contains(out, `"msg":"Operation failed"`) || !strings.Contains(out, `"operation":"broker.Candles"`) {
		t.Errorf("Expected failed operation record, got %s", out)
	}
}
