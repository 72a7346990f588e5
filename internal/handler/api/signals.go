package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	"FxSignals/internal/usecase"
	xhttp "FxSignals/pkg/http"
	applogger "FxSignals/pkg/logger"
	xutil "FxSignals/pkg/util"
)

// SignalsHandler serves signal, price, and candle lookups.
type SignalsHandler struct {
	logger    *applogger.Logger
	gen       *usecase.SignalGenerator
	batch     *usecase.BatchEngine
	market    *usecase.MarketData
	collector *usecase.QuoteCollector
	startedAt time.Time
}

func NewSignalsHandler(
	logger *applogger.Logger,
	gen *usecase.SignalGenerator,
	batch *usecase.BatchEngine,
	market *usecase.MarketData,
	collector *usecase.QuoteCollector,
) *SignalsHandler {
	return &SignalsHandler{
		logger:    logger,
		gen:       gen,
		batch:     batch,
		market:    market,
		collector: collector,
		startedAt: time.Now(),
	}
}

func (h *SignalsHandler) signal(ctx context.Context, rawPair string, refresh bool) (*models.Signal, error) {
	pair, err := models.ParsePair(rawPair)
	if err != nil {
		return nil, xhttp.BadRequestErrorf("invalid pair %q", rawPair).WithError(err)
	}
	sig, err := h.gen.Generate(ctx, pair, refresh)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return sig, nil
}

func (h *SignalsHandler) batchSignals(ctx context.Context, raw []string, refresh bool) (*models.BatchResult, error) {
	pairs := make([]models.Pair, 0, len(raw))
	for _, s := range raw {
		p, err := models.ParsePair(s)
		if err != nil {
			return nil, xhttp.BadRequestErrorf("invalid pair %q", s).WithError(err)
		}
		pairs = append(pairs, p)
	}
	res, err := h.batch.GenerateAll(ctx, pairs, refresh)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return res, nil
}

func (h *SignalsHandler) price(ctx context.Context, rawPair string) (models.ValidatedPrice, error) {
	pair, err := models.ParsePair(rawPair)
	if err != nil {
		return models.ValidatedPrice{}, xhttp.BadRequestErrorf("invalid pair %q", rawPair).WithError(err)
	}
	vp, err := h.market.ValidatedPrice(ctx, pair)
	if err != nil {
		return models.ValidatedPrice{}, mapDomainError(err)
	}
	return vp, nil
}

type candlesResult struct {
	Pair      models.Pair     `json:"pair"`
	Timeframe string          `json:"timeframe"`
	From      *time.Time      `json:"from,omitempty"`
	To        *time.Time      `json:"to,omitempty"`
	Candles   []models.Candle `json:"candles"`
}

func (h *SignalsHandler) candles(ctx context.Context, req *models.CandlesRequest) (*candlesResult, error) {
	pair, err := models.ParsePair(req.Pair)
	if err != nil {
		return nil, xhttp.BadRequestErrorf("invalid pair %q", req.Pair).WithError(err)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	all, err := h.market.Candles(ctx, pair, tf, req.Count)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &candlesResult{Pair: pair, Timeframe: string(tf), Candles: all}
	from, fromOK := xutil.ParseTime(req.From)
	to, toOK := xutil.ParseTime(req.To)
	if fromOK || toOK {
		if !toOK {
			to = time.Now().UTC()
		}
		from, to = xutil.AlignFromTo(from, to, string(tf))
		kept := make([]models.Candle, 0, len(all))
		for _, c := range all {
			if fromOK && c.Bucket.Before(from) {
				continue
			}
			if c.Bucket.After(to) {
				continue
			}
			kept = append(kept, c)
		}
		res.Candles = kept
		if fromOK {
			res.From = &from
		}
		res.To = &to
	}
	return res, nil
}

type healthStatus struct {
	Status          string `json:"status"`
	StreamConnected bool   `json:"stream_connected"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
}

func (h *SignalsHandler) health() healthStatus {
	s := healthStatus{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
	if h.collector != nil {
		s.StreamConnected = h.collector.IsConnected()
	}
	return s
}

// mapDomainError translates domain sentinels into HTTP application errors.
func mapDomainError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrPriceVariance):
		return xhttp.NewAppError("ERR_PRICE_VARIANCE", "", err.Error(), http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", err.Error(), http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, models.ErrRateLimited):
		return xhttp.NewAppError("ERR_RATE_LIMITED", "", err.Error(), http.StatusTooManyRequests).WithError(err)
	case errors.Is(err, models.ErrProviderUnavailable):
		return xhttp.NewAppError("ERR_UPSTREAM", "", err.Error(), http.StatusServiceUnavailable).WithError(err)
	case errors.Is(err, models.ErrConfiguration):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("signal generation failed").WithError(err)
	}
}
