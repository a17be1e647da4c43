package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/services"
	"resto-api/utils/pagination"
	"resto-api/utils/response"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := services.NewOrderService(config.DB).Create(input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := services.NewOrderService(config.DB).Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListOrders(c *gin.Context) {
	var filter services.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := pagination.FromQuery(c)

	orders, total, err := services.NewOrderService(config.DB).List(filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Response(orders, total))
}

func UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := services.NewOrderService(config.DB).Update(id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func AcceptOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := services.NewOrderService(config.DB).Accept(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func RejectOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input struct {
		Reason *string `json:"reason,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)

	order, err := services.NewOrderService(config.DB).Reject(id, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func CancelOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := services.NewOrderService(config.DB).Cancel(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeliverOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := services.NewOrderService(config.DB).Deliver(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
