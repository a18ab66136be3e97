package main

import (
	"context"
	"encoding/json"
	"time"

	"angelone-connect/internal/calllog"
	"angelone-connect/internal/export"
	"angelone-connect/internal/interfaces"
	"angelone-connect/internal/logger"
	"angelone-connect/internal/store"
	"angelone-connect/internal/types"
)

var ist = time.FixedZone("IST", 19800)

type runOptions struct {
	TOTP        string
	CSVPath     string
	SkipCandles bool
	Now         time.Time
}

type quoteResult struct {
	Exchange string  `json:"exchange"`
	Symbol   string  `json:"tradingsymbol"`
	LTP      float64 `json:"ltp"`
}

type candleResult struct {
	SymbolToken string          `json:"symboltoken"`
	Interval    string          `json:"interval"`
	From        string          `json:"fromdate"`
	To          string          `json:"todate"`
	Count       int             `json:"count"`
	First       json.RawMessage `json:"first,omitempty"`
	Last        json.RawMessage `json:"last,omitempty"`
	CSV         string          `json:"csv,omitempty"`
	Skipped     int             `json:"skipped,omitempty"`
}

type report struct {
	JWT       string         `json:"jwt"`
	FeedToken bool           `json:"feed_token"`
	Profile   *types.Profile `json:"profile"`
	Quotes    []quoteResult  `json:"quotes"`
	Candles   *candleResult  `json:"candles,omitempty"`
}

// runDemo logs in, then reads profile, LTPs and candles. It stops at the first
// error and returns what it gathered so far.
func runDemo(ctx context.Context, brk interfaces.Broker, cfg *store.Config, opts runOptions) (*report, error) {
	start := time.Now()
	tokens, err := brk.Login(ctx, opts.TOTP)
	if err != nil {
		journal(ctx, calllog.Entry{Op: "Login", Status: calllog.StatusFailed, Message: err.Error(), DurationMs: since(start)})
		return nil, err
	}
	journal(ctx, calllog.Entry{Op: "Login", Status: calllog.StatusOK, DurationMs: since(start)})

	rep := &report{
		JWT:       logger.MaskToken(tokens.JWTToken, 20),
		FeedToken: tokens.FeedToken != "",
		Quotes:    []quoteResult{},
	}

	start = time.Now()
	profile, err := brk.Profile(ctx)
	if err != nil {
		journal(ctx, calllog.Entry{Op: "Profile", Status: calllog.StatusFailed, Message: err.Error(), DurationMs: since(start)})
		return rep, err
	}
	status := calllog.StatusOK
	if profile == nil {
		status = calllog.StatusEmpty
	}
	journal(ctx, calllog.Entry{Op: "Profile", Status: status, DurationMs: since(start)})
	rep.Profile = profile

	for _, q := range cfg.Demo.Quotes {
		start = time.Now()
		ltp, err := brk.LTP(ctx, q)
		entry := calllog.Entry{Op: "LTP", Exchange: q.Exchange, Symbol: q.TradingSymbol, DurationMs: since(start)}
		if err != nil {
			entry.Status, entry.Message = calllog.StatusFailed, err.Error()
			journal(ctx, entry)
			return rep, err
		}
		entry.Status, entry.Value = calllog.StatusOK, ltp
		journal(ctx, entry)

		logger.Info(ctx, "Last traded price", "exchange", q.Exchange, "symbol", q.TradingSymbol, "ltp", ltp)
		rep.Quotes = append(rep.Quotes, quoteResult{Exchange: q.Exchange, Symbol: q.TradingSymbol, LTP: ltp})
	}

	cc := cfg.Demo.Candles
	if opts.SkipCandles || cc.Exchange == "" || cc.SymbolToken == "" {
		return rep, nil
	}

	params := candleWindow(cfg, opts.Now)
	start = time.Now()
	records, err := brk.Candles(ctx, params)
	entry := calllog.Entry{Op: "Candles", Exchange: params.Exchange, Symbol: params.SymbolToken, DurationMs: since(start)}
	if err != nil {
		entry.Status, entry.Message = calllog.StatusFailed, err.Error()
		journal(ctx, entry)
		return rep, err
	}
	entry.Status, entry.Count = calllog.StatusOK, len(records)
	if len(records) == 0 {
		entry.Status = calllog.StatusEmpty
	}
	journal(ctx, entry)

	res := &candleResult{
		SymbolToken: params.SymbolToken,
		Interval:    params.Interval,
		From:        params.FromDate,
		To:          params.ToDate,
		Count:       len(records),
	}
	if len(records) > 0 {
		res.First = records[0]
		res.Last = records[len(records)-1]
	} else {
		logger.Warn(ctx, "No candle data available", "symboltoken", params.SymbolToken, "from", params.FromDate)
	}

	if opts.CSVPath != "" && len(records) > 0 {
		out, err := export.WriteCandlesCSV(opts.CSVPath, params.SymbolToken, records)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to write candle CSV", err, "path", opts.CSVPath)
			rep.Candles = res
			return rep, err
		}
		res.CSV, res.Skipped = out.Path, out.Skipped
		logger.Info(ctx, "Candle CSV written", "path", out.Path, "rows", out.Written, "skipped", out.Skipped)
	}

	rep.Candles = res
	return rep, nil
}

// candleWindow covers the configured session hours lookback_days before now (IST).
func candleWindow(cfg *store.Config, now time.Time) types.CandleParams {
	cc := cfg.Demo.Candles
	day := now.In(ist).AddDate(0, 0, -cc.LookbackDays).Format("2006-01-02")
	return types.CandleParams{
		Exchange:    cc.Exchange,
		SymbolToken: cc.SymbolToken,
		Interval:    cc.Interval,
		FromDate:    day + " " + cc.FromTime,
		ToDate:      day + " " + cc.ToTime,
	}
}

func journal(ctx context.Context, e calllog.Entry) {
	if _, err := calllog.Append(e); err != nil {
		logger.Warn(ctx, "Failed to journal call", "op", e.Op, "error", err)
	}
}

func since(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
