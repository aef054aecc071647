package httpserver

import (
	"net/http"

	paymentsvc "giftcard-store/internal/service/payment"

	"github.com/gin-gonic/gin"
)

func createPaymentHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentsvc.CheckoutInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		receipt, err := svc.Checkout(c.Request.Context(), *currentCustomer(c), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

func listOrdersHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": orders})
	}
}
