package angelone

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"angelone-connect/internal/interfaces"
	"angelone-connect/internal/types"
)

// Session is one authenticated connection to the Angel One SmartAPI.
//
// Call Login before any other operation. Authenticated calls made without a
// token are sent without an Authorization header and fail upstream.
type Session struct {
	creds      types.Credentials
	cfg        Config
	httpClient *http.Client

	mu     sync.RWMutex
	tokens types.SessionTokens
}

var _ interfaces.Broker = (*Session)(nil)

func New(creds types.Credentials, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		creds:      creds,
		cfg:        cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// sanitizeTOTP keeps only the ASCII digits of the code.
func sanitizeTOTP(totp string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, totp)
}

// Login exchanges password and TOTP for session tokens. A later Login replaces
// the tokens of an earlier one.
func (s *Session) Login(ctx context.Context, totp string) (types.SessionTokens, error) {
	payload := map[string]string{
		"clientcode": s.creds.ClientCode,
		"password":   s.creds.Password,
		"totp":       sanitizeTOTP(totp),
	}

	body, err := s.do(ctx, requestSpec{
		url:     s.cfg.BaseURL + loginPath,
		method:  http.MethodPost,
		body:    payload,
		headers: s.loginHeaders(),
	})
	if err != nil {
		return types.SessionTokens{}, err
	}

	env, ok := decodeEnvelope(body)
	if !ok || !truthy(env.Status) {
		return types.SessionTokens{}, &AuthenticationError{Message: messageOr(env, "Login failed")}
	}

	data, ok := decodeObject(env.Data)
	if !ok {
		return types.SessionTokens{}, &AuthenticationError{Message: "Login failed"}
	}
	tokens := types.SessionTokens{
		JWTToken:     looseString(data["jwtToken"]),
		RefreshToken: looseString(data["refreshToken"]),
		FeedToken:    looseString(data["feedToken"]),
	}
	if tokens.JWTToken == "" {
		return types.SessionTokens{}, &AuthenticationError{Message: "Login failed"}
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	return tokens, nil
}

// LTP returns the last traded price of one instrument, or 0 when the upstream
// reports success without a readable price.
func (s *Session) LTP(ctx context.Context, p types.QuoteParams) (float64, error) {
	body, err := s.do(ctx, requestSpec{
		url:     s.cfg.BaseURL + ltpPath,
		method:  http.MethodPost,
		body:    p,
		headers: s.authHeaders(),
	})
	if err != nil {
		return 0, err
	}

	env, ok := decodeEnvelope(body)
	if !ok || env.Message != "SUCCESS" {
		return 0, &RequestError{Op: "getLtpData", Message: messageOr(env, "Failed to fetch LTP data")}
	}

	data, ok := decodeObject(env.Data)
	if !ok {
		return 0, nil
	}
	ltp, _ := looseFloat(data["ltp"])
	return ltp, nil
}

// Candles returns the historical candles for the requested window. The records
// are passed through untouched; see types.DecodeCandle.
func (s *Session) Candles(ctx context.Context, p types.CandleParams) ([]types.CandleRecord, error) {
	body, err := s.do(ctx, requestSpec{
		url:     s.cfg.BaseURL + candlePath,
		method:  http.MethodPost,
		body:    p,
		headers: s.authHeaders(),
	})
	if err != nil {
		return nil, err
	}

	env, ok := decodeEnvelope(body)
	if !ok || env.Message != "SUCCESS" {
		return nil, &RequestError{Op: "getCandleData", Message: messageOr(env, "Failed to fetch candle data")}
	}

	candles := []types.CandleRecord{}
	if !hasData(env.Data) {
		return candles, nil
	}
	if err := json.Unmarshal(env.Data, &candles); err != nil {
		return nil, &RequestError{Op: "getCandleData", Message: "Failed to fetch candle data"}
	}
	if candles == nil {
		candles = []types.CandleRecord{}
	}
	return candles, nil
}

// Profile returns the account profile.
//
// Unlike LTP and Candles, a response without data is not an error: Profile
// returns (nil, nil) when data is null or missing, or the body is not a JSON
// object. Present data is always returned, with typed fields filled where
// they decode and the full object in Raw. Transport failures are still returned.
func (s *Session) Profile(ctx context.Context) (*types.Profile, error) {
	body, err := s.do(ctx, requestSpec{
		url:     s.cfg.BaseURL + profilePath,
		method:  http.MethodGet,
		headers: s.authHeaders(),
	})
	if err != nil {
		return nil, err
	}

	env, ok := decodeEnvelope(body)
	if !ok || !hasData(env.Data) {
		return nil, nil
	}

	return decodeProfile(env.Data), nil
}

func (s *Session) JWTToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.JWTToken
}

// Tokens returns a copy of the tokens from the most recent successful login.
func (s *Session) Tokens() types.SessionTokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

func (s *Session) Authenticated() bool {
	return s.JWTToken() != ""
}
