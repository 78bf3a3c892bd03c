package handlers

import (
	"log"
	"net/http"

	response "dropbot/internal/adapter/http/dto/response"
	"dropbot/internal/usecase"
	"dropbot/pkg"

	"github.com/gin-gonic/gin"
)

// StatusHandler serves the operator-facing inventory reports.

type StatusHandler struct {
	dispatcher *usecase.DispatcherUseCase
}

func NewStatusHandler(dispatcher *usecase.DispatcherUseCase) *StatusHandler {
	return &StatusHandler{dispatcher: dispatcher}
}

// GetCoins reports the active airdrop's initial quota and bonus pool.
//
// @Summary      Airdrop coin status
// @Description  Initial coin quota consumption and remaining bonus pool of the active airdrop.
// @Tags         status
// @Produce      json
// @Success      200 {object} response.CoinsStatusResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /status/coins [get]
func (h *StatusHandler) GetCoins(c *gin.Context) {
	report, err := h.dispatcher.CoinsReport(c.Request.Context())
	if err != nil {
		log.Printf("[status][handler] coins report failed err=%v", err)
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if report.DropID == "" {
		appErr := pkg.NewDomainErrorSimple("NO_AIRDROP", "No airdrop is currently running", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCoinsReport(report))
}

// GetItems reports the active item drop's remaining stock per SKU.
//
// @Summary      Item stock status
// @Description  Remaining stock per SKU of the active item drop.
// @Tags         status
// @Produce      json
// @Success      200 {object} response.ItemsStatusResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /status/items [get]
func (h *StatusHandler) GetItems(c *gin.Context) {
	report, err := h.dispatcher.ItemsReport(c.Request.Context())
	if err != nil {
		log.Printf("[status][handler] items report failed err=%v", err)
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if report.ItemID == "" {
		appErr := pkg.NewDomainErrorSimple("NO_ITEM_DROP", "No item drop is currently running", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromItemsReport(report))
}
