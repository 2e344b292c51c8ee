package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/mma_fx/internal/core/domain"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/dto"
	"github.com/SscSPs/mma_fx/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ratesHandler handles HTTP requests for rate tables and conversions.
type ratesHandler struct {
	rates     portssvc.RateCacheSvc
	converter portssvc.ConverterSvc
	batch     portssvc.BatchConverterSvc
	now       func() time.Time
}

func newRatesHandler(rates portssvc.RateCacheSvc, converter portssvc.ConverterSvc, batch portssvc.BatchConverterSvc) *ratesHandler {
	return &ratesHandler{rates: rates, converter: converter, batch: batch, now: time.Now}
}

// registerRatesRoutes registers routes related to rates and conversions.
func registerRatesRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newRatesHandler(services.RateCache, services.Converter, services.Batch)

	rg.GET("/rates/:base", h.getRates)
	rg.GET("/convert", h.convert)
	rg.POST("/convert/batch", h.batchConvert)
}

// getRates godoc
// @Summary Get the rate table for a base currency
// @Tags rates
// @Produce  json
// @Param   base path string true "Base currency (3 letters)"
// @Success 200 {object} dto.RatesResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Router /rates/{base} [get]
func (h *ratesHandler) getRates(c *gin.Context) {
	base := domain.NormalizeCode(c.Param("base"))
	if len(base) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}

	table, err := h.rates.GetRates(c.Request.Context(), base)
	if err != nil {
		respondError(c, err, "Failed to retrieve exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToRatesResponse(table, h.now()))
}

// convert godoc
// @Summary Convert an amount between two currencies
// @Tags rates
// @Produce  json
// @Param   amount query string true "Amount"
// @Param   from   query string true "Source currency"
// @Param   to     query string true "Target currency"
// @Success 200 {object} domain.ConversionResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Unsupported currency"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Router /convert [get]
func (h *ratesHandler) convert(c *gin.Context) {
	var q dto.ConvertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), amount, q.From, q.To)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, result)
}

// batchConvert godoc
// @Summary Convert many amounts into one currency
// @Description Items whose currency cannot be converted keep their original amount and carry an error.
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchConvertRequest true "Items to convert"
// @Success 200 {object} dto.BatchConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /convert/batch [post]
func (h *ratesHandler) batchConvert(c *gin.Context) {
	var req dto.BatchConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	to := domain.NormalizeCode(req.To)
	results := h.batch.BatchConvertDetailed(c.Request.Context(), req.ToBatchItems(), to)

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Batch conversion served",
		slog.String("to", to), slog.Int("items", len(results)))
	c.JSON(http.StatusOK, dto.ToBatchConvertResponse(to, results))
}
