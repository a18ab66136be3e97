package interfaces

import (
	"context"

	"angelone-connect/internal/types"
)

type Broker interface {
	Login(ctx context.Context, totp string) (types.SessionTokens, error)
	LTP(ctx context.Context, p types.QuoteParams) (float64, error)
	Candles(ctx context.Context, p types.CandleParams) ([]types.CandleRecord, error)
	Profile(ctx context.Context) (*types.Profile, error)
	JWTToken() string
}
