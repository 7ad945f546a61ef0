package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	models "CryptoLevels/internal/domain/models"
	"CryptoLevels/internal/service/delta"
	"CryptoLevels/internal/usecase"
	xhttp "CryptoLevels/pkg/http"
	xlogger "CryptoLevels/pkg/logger"
	"CryptoLevels/pkg/util"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports readiness of one infrastructure dependency.
type HealthChecker func(ctx context.Context) error

// ZonesEchoHandler exposes the zone search and watchlist API.
type ZonesEchoHandler struct {
	logger *xlogger.Logger
	zones  *usecase.ZonesUseCase
	watch  *usecase.WatchUseCase
	health map[string]HealthChecker
}

func NewZonesEchoHandler(logger *xlogger.Logger, zones *usecase.ZonesUseCase, watch *usecase.WatchUseCase) *ZonesEchoHandler {
	return &ZonesEchoHandler{
		logger: logger,
		zones:  zones,
		watch:  watch,
		health: make(map[string]HealthChecker),
	}
}

// AddHealthCheck registers a named dependency check for /api/health.
func (h *ZonesEchoHandler) AddHealthCheck(name string, fn HealthChecker) {
	h.health[name] = fn
}

func (h *ZonesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/zones/search", h.SearchZones)
	g.POST("/zones/push", h.PushZones)
	g.GET("/zones/:symbol", h.StoredZones)
	g.GET("/scrips", h.ListScrips)
	g.GET("/price/:symbol", h.MarkPrice)
	g.PUT("/scrips/:symbol/alert", h.UpdateAlert)
	g.DELETE("/scrips/:symbol", h.DeleteScrip)
	g.GET("/health", h.Health)
}

func (h *ZonesEchoHandler) SearchZones(c echo.Context) error {
	start := time.Now()
	req := &models.ZoneSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	found, err := h.zones.Search(c.Request().Context(), req.Symbol, req.Timeframe)
	if err != nil {
		h.logger.Error("zone search error",
			xlogger.String("symbol", req.Symbol),
			xlogger.String("timeframe", req.Timeframe),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("zone search failed: %v", err))
	}
	h.logger.Info("zone search",
		xlogger.String("symbol", req.Symbol),
		xlogger.String("timeframe", req.Timeframe),
		xlogger.Int("zones", len(found)),
		xlogger.Duration("duration_ms", time.Since(start)),
	)
	return xhttp.SuccessResponse(c, toSearchResponse(req.Symbol, req.Timeframe, found))
}

func (h *ZonesEchoHandler) StoredZones(c echo.Context) error {
	symbol := c.Param("symbol")
	timeframe := c.QueryParam("timeframe")

	found, err := h.zones.Stored(c.Request().Context(), symbol, timeframe)
	if err != nil {
		h.logger.Error("stored zones error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("stored zones: %v", err))
	}
	if limit := util.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && limit < len(found) {
		found = found[:limit]
	}
	return xhttp.SuccessResponse(c, toSearchResponse(symbol, timeframe, found))
}

func (h *ZonesEchoHandler) PushZones(c echo.Context) error {
	req := &models.PushZonesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	n, err := h.watch.PushZones(c.Request().Context(), req.Symbol, req.Timeframe, req.SelectedIndices, req.Zones)
	if err != nil {
		h.logger.Error("push zones error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("push zones: %v", err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"message": fmt.Sprintf("Pushed %d levels (%s) for %s", n, req.Timeframe, req.Symbol),
		"count":   n,
	})
}

func (h *ZonesEchoHandler) ListScrips(c echo.Context) error {
	entries, err := h.watch.ListScrips(c.Request().Context())
	if err != nil {
		h.logger.Error("list scrips error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

func (h *ZonesEchoHandler) MarkPrice(c echo.Context) error {
	symbol := c.Param("symbol")
	price, err := h.watch.MarkPrice(c.Request().Context(), symbol)
	if err != nil {
		var nf *delta.ErrSymbolNotFound
		if errors.As(err, &nf) {
			return xhttp.NotFoundResponse(c, nf.Error())
		}
		h.logger.Error("mark price error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, models.MarkPriceResponse{Symbol: symbol, MarkPrice: price})
}

func (h *ZonesEchoHandler) UpdateAlert(c echo.Context) error {
	symbol := c.Param("symbol")
	req := &models.UpdateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.watch.SetAlertDisabled(c.Request().Context(), symbol, req.LevelIndex, req.Disabled); err != nil {
		h.logger.Error("update alert error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.NotFoundResponse(c, err.Error())
	}
	status := "enabled"
	if req.Disabled {
		status = "disabled"
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"message": fmt.Sprintf("Alert %s for %s level %d", status, symbol, req.LevelIndex),
	})
}

func (h *ZonesEchoHandler) DeleteScrip(c echo.Context) error {
	symbol := c.Param("symbol")
	if err := h.watch.Deactivate(c.Request().Context(), symbol); err != nil {
		h.logger.Error("delete scrip error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.NotFoundResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"message": fmt.Sprintf("Scrip %s marked as inactive", symbol),
	})
}

func (h *ZonesEchoHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	deps := make(map[string]string, len(h.health))
	healthy := true
	for name, check := range h.health {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
		} else {
			deps[name] = "ok"
		}
	}
	body := map[string]interface{}{"healthy": healthy, "dependencies": deps}
	if !healthy {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, body)
	}
	return xhttp.SuccessResponse(c, body)
}

func toSearchResponse(symbol, timeframe string, found []models.Zone) models.ZoneSearchResponse {
	views := make([]models.ZoneView, len(found))
	for i, z := range found {
		views[i] = models.ZoneView{
			Index:        i,
			Top:          z.Top,
			Bottom:       z.Bottom,
			Date:         util.FormatDayUTC(z.SmallRedTime),
			RallyLength:  z.RallyLength,
			TotalMovePct: z.TotalMovePct,
			SmallRedTime: z.SmallRedTime,
		}
	}
	return models.ZoneSearchResponse{
		Symbol:    symbol,
		Timeframe: timeframe,
		Zones:     views,
		Count:     len(views),
	}
}
