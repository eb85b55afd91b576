package currencyControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/currency"
	"github.com/junaidrashid-git/marketplace-api/models"
)

type CurrencyInput struct {
	Code          string  `json:"code" binding:"required,len=3"`
	Name          string  `json:"name" binding:"required"`
	Symbol        string  `json:"symbol" binding:"required"`
	Rate          float64 `json:"rate" binding:"required,gt=0"`
	DecimalPlaces *int    `json:"decimal_places"`
	SymbolAfter   *bool   `json:"symbol_after"`
	IsActive      *bool   `json:"is_active"`
}

// GET /currencies
func ListCurrenciesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var currencies []models.Currency
		if err := db.Where("is_active = ?", true).Order("code ASC").Find(&currencies).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, currencies)
	}
}

// GET /currencies/convert?amount=&from=&to=
func ConvertHandler(svc *currency.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		amount, err := strconv.ParseFloat(c.Query("amount"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be numeric"})
			return
		}
		from := c.DefaultQuery("from", models.BaseCurrency)
		to := c.DefaultQuery("to", models.BaseCurrency)

		converted, err := svc.Convert(c.Request.Context(), amount, from, to)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"amount": amount, "from": from, "to": to, "converted": converted})
	}
}

// PUT /admin/currencies upserts a currency and drops it from the cache so
// the next rate lookup sees the new value.
func UpsertCurrencyHandler(db *gorm.DB, svc *currency.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CurrencyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cur := models.Currency{
			Code:          in.Code,
			Name:          in.Name,
			Symbol:        in.Symbol,
			Rate:          in.Rate,
			IsDefault:     in.Code == models.BaseCurrency,
			IsActive:      true,
			DecimalPlaces: 2,
			SymbolAfter:   true,
		}
		if in.DecimalPlaces != nil {
			cur.DecimalPlaces = *in.DecimalPlaces
		}
		if in.SymbolAfter != nil {
			cur.SymbolAfter = *in.SymbolAfter
		}
		if in.IsActive != nil {
			cur.IsActive = *in.IsActive
		}

		if err := db.Save(&cur).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		svc.Invalidate(c.Request.Context(), cur.Code)
		c.JSON(http.StatusOK, cur)
	}
}
