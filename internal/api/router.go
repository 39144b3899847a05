package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func NewRouter(c RestController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/health", c.Health)

	e.POST("/accounts", c.CreateAccount)
	e.GET("/accounts", c.ListAccounts)
	e.GET("/accounts/:accountNumber", c.GetAccount)
	e.GET("/accounts/:accountNumber/transactions", c.History)

	e.POST("/transactions/deposit", c.Deposit)
	e.POST("/transactions/withdraw", c.Withdraw)
	e.POST("/transactions/transfer", c.Transfer)

	return e
}
