package brokerobs

import (
	"context"

	"angelone-connect/internal/interfaces"
	"angelone-connect/internal/logger"
	"angelone-connect/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker     interfaces.Broker
	clientCode string
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware. clientCode only labels
// log records; credentials and tokens are never logged.
func Wrap(broker interfaces.Broker, clientCode string) interfaces.Broker {
	return &observableBroker{
		broker:     broker,
		clientCode: clientCode,
	}
}

// Login authenticates with observability
func (ob *observableBroker) Login(ctx context.Context, totp string) (types.SessionTokens, error) {
	op := logger.StartOperation(ctx, "broker.Login", "client_code", ob.clientCode)
	ctx = op.GetContext()

	logger.InfoSkip(ctx, 1, "Logging in", "client_code", ob.clientCode)

	tokens, err := ob.broker.Login(ctx, totp)
	if err != nil {
		op.EndWithError(err)
		logger.Auth(ctx, ob.clientCode, "login_rejected")
		return types.SessionTokens{}, err
	}

	op.End("feed_token", tokens.FeedToken != "")
	logger.Auth(ctx, ob.clientCode, "login_succeeded",
		"jwt", logger.MaskToken(tokens.JWTToken, 8),
		"feed_token", tokens.FeedToken != "",
	)
	return tokens, nil
}

// LTP returns the last traded price with observability
func (ob *observableBroker) LTP(ctx context.Context, p types.QuoteParams) (float64, error) {
	op := logger.StartOperation(ctx, "broker.LTP",
		"exchange", p.Exchange,
		"symbol", p.TradingSymbol,
		"token", p.SymbolToken,
	)

	price, err := ob.broker.LTP(op.GetContext(), p)
	if err != nil {
		op.EndWithError(err)
		return 0, err
	}

	op.End("price", price)
	return price, nil
}

// Candles fetches historical candles with observability
func (ob *observableBroker) Candles(ctx context.Context, p types.CandleParams) ([]types.CandleRecord, error) {
	op := logger.StartOperation(ctx, "broker.Candles",
		"exchange", p.Exchange,
		"symbol_token", p.SymbolToken,
		"interval", p.Interval,
		"from", p.FromDate,
		"to", p.ToDate,
	)

	candles, err := ob.broker.Candles(op.GetContext(), p)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	op.End("count", len(candles))
	return candles, nil
}

// Profile fetches the account profile with observability
func (ob *observableBroker) Profile(ctx context.Context) (*types.Profile, error) {
	op := logger.StartOperation(ctx, "broker.Profile", "client_code", ob.clientCode)

	profile, err := ob.broker.Profile(op.GetContext())
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	if profile == nil {
		// Not an error for Profile; surfaced so callers can tell it apart.
		logger.WarnSkip(op.GetContext(), 1, "Profile response carried no data", "client_code", ob.clientCode)
		op.End("present", false)
		return nil, nil
	}

	op.End("present", true)
	return profile, nil
}

func (ob *observableBroker) JWTToken() string {
	return ob.broker.JWTToken()
}
