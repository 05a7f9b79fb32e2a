package handlers

import (
	"net/http"
	"time"

	"swanchat/internal/cache"
	"swanchat/internal/catalog"
	"swanchat/internal/chat"
	"swanchat/internal/models"

	"github.com/labstack/echo/v4"
)

const productsCacheKey = "products"

// ProductsHandler proxies the upstream catalog
// @Summary List catalog products
// @Description Fetch the product catalog from the upstream service, cached briefly to spare it
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Product
// @Failure 502 {object} models.ErrorResponse
// @Router /api/products [get]
func ProductsHandler(client chat.CatalogClient, store *cache.Cache[[]catalog.Product], ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		if products, ok := store.Get(productsCacheKey); ok {
			return c.JSON(http.StatusOK, products)
		}

		products, err := client.FetchProducts(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: err.Error()})
		}

		store.Set(productsCacheKey, products, ttl)
		return c.JSON(http.StatusOK, products)
	}
}
