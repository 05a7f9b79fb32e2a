package handlers

import (
	"net/http"

	"swanchat/internal/config"
	"swanchat/internal/i18n"
	"swanchat/internal/models"

	"github.com/labstack/echo/v4"
)

// WidgetConfigHandler returns the static widget configuration
// @Summary Widget configuration
// @Description Contact details, catalog download link and the supported languages
// @Tags widget
// @Produce json
// @Success 200 {object} models.WidgetConfigResponse
// @Router /api/widget/config [get]
func WidgetConfigHandler(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.WidgetConfigResponse{
			ContactPhone:  cfg.ContactPhone,
			ContactEmail:  cfg.ContactEmail,
			WhatsAppURL:   cfg.WhatsAppURL,
			CatalogPDFURL: cfg.CatalogPDFURL,
			Languages:     i18n.Supported(),
		})
	}
}
