package api

import (
	models "FxSignals/internal/domain/models"
	xhttp "FxSignals/pkg/http"
	xlogger "FxSignals/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api/v1")
	g.GET("/signals/:pair", h.Signal)
	g.POST("/signals/batch", h.Batch)
	g.GET("/price/:pair", h.Price)
	g.GET("/candles/:pair", h.Candles)
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sig, err := h.signal(c.Request().Context(), req.Pair, req.Refresh)
	if err != nil {
		h.logger.Error("signal usecase error", xlogger.String("pair", req.Pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sig)
}

func (h *SignalsHandler) Batch(c echo.Context) error {
	req := &models.BatchSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.batchSignals(c.Request().Context(), req.Pairs, req.Refresh)
	if err != nil {
		h.logger.Error("batch usecase error", xlogger.Int("pairs", len(req.Pairs)), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Price(c echo.Context) error {
	req := &models.PriceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	vp, err := h.price(c.Request().Context(), req.Pair)
	if err != nil {
		h.logger.Error("price usecase error", xlogger.String("pair", req.Pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, vp)
}

func (h *SignalsHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.candles(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.String("pair", req.Pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.health())
}
