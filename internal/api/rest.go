package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/NgigiN/ledger/internal/ledger"
)

// Ledger is what the REST controller needs from the engine.
type Ledger interface {
	CreateAccount(ctx context.Context, initialBalance int64) (ledger.Account, error)
	GetAccount(ctx context.Context, number string) (ledger.Account, error)
	ListAccounts(ctx context.Context, req ledger.PageRequest) (ledger.Page[ledger.Account], error)
	History(ctx context.Context, number string, req ledger.PageRequest) (ledger.Page[ledger.Transaction], error)
	Deposit(ctx context.Context, number string, amount int64) (ledger.SingleTransactionView, error)
	Withdraw(ctx context.Context, number string, amount int64) (ledger.SingleTransactionView, error)
	Transfer(ctx context.Context, fromNumber, toNumber string, amount int64) (ledger.TransferView, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RestController struct {
	logger    logrus.FieldLogger
	ledger    Ledger
	db        Pinger
	startTime time.Time
}

func NewRestController(logger logrus.FieldLogger, l Ledger, db Pinger) RestController {
	return RestController{
		logger:    logger,
		ledger:    l,
		db:        db,
		startTime: time.Now(),
	}
}

// CreateAccount opens an account with the initialBalance query parameter.
func (ctl RestController) CreateAccount(c echo.Context) error {
	var initialBalance int64
	err := echo.QueryParamsBinder(c).
		MustInt64("initialBalance", &initialBalance).
		BindError()
	if err != nil {
		return badRequest(err)
	}

	acc, err := ctl.ledger.CreateAccount(c.Request().Context(), initialBalance)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusCreated, acc)
}

func (ctl RestController) GetAccount(c echo.Context) error {
	acc, err := ctl.ledger.GetAccount(c.Request().Context(), c.Param("accountNumber"))
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (ctl RestController) ListAccounts(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	page, err := ctl.ledger.ListAccounts(c.Request().Context(), req)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (ctl RestController) History(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	page, err := ctl.ledger.History(c.Request().Context(), c.Param("accountNumber"), req)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, ledger.MapPage(page, ledger.Transaction.View))
}

func (ctl RestController) Deposit(c echo.Context) error {
	var (
		number string
		amount int64
	)
	err := echo.QueryParamsBinder(c).
		MustString("accountNumber", &number).
		MustInt64("amount", &amount).
		BindError()
	if err != nil {
		return badRequest(err)
	}

	view, err := ctl.ledger.Deposit(c.Request().Context(), number, amount)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (ctl RestController) Withdraw(c echo.Context) error {
	var (
		number string
		amount int64
	)
	err := echo.QueryParamsBinder(c).
		MustString("accountNumber", &number).
		MustInt64("amount", &amount).
		BindError()
	if err != nil {
		return badRequest(err)
	}

	view, err := ctl.ledger.Withdraw(c.Request().Context(), number, amount)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (ctl RestController) Transfer(c echo.Context) error {
	var (
		from, to string
		amount   int64
	)
	err := echo.QueryParamsBinder(c).
		MustString("fromAccountNumber", &from).
		MustString("toAccountNumber", &to).
		MustInt64("amount", &amount).
		BindError()
	if err != nil {
		return badRequest(err)
	}

	view, err := ctl.ledger.Transfer(c.Request().Context(), from, to, amount)
	if err != nil {
		return resolveError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Database  bool   `json:"database"`
	Timestamp string `json:"timestamp"`
}

func (ctl RestController) Health(c echo.Context) error {
	res := healthResponse{
		Status:    "healthy",
		Uptime:    time.Since(ctl.startTime).String(),
		Database:  true,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if err := ctl.db.Ping(c.Request().Context()); err != nil {
		ctl.logger.WithError(err).Warn("health check failed")
		res.Status = "unhealthy"
		res.Database = false
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, res)
}

func pageRequest(c echo.Context) (ledger.PageRequest, error) {
	req := ledger.PageRequest{Page: 0, Size: ledger.DefaultPageSize}
	err := echo.QueryParamsBinder(c).
		Int("page", &req.Page).
		Int("size", &req.Size).
		BindError()
	if err != nil {
		return req, badRequest(err)
	}
	if req.Page < 0 {
		return req, echo.NewHTTPError(http.StatusBadRequest, "page must not be negative")
	}
	if req.Size <= 0 || req.Size > ledger.MaxPageSize {
		return req, echo.NewHTTPError(http.StatusBadRequest, "size must be between 1 and 100")
	}
	if req.Page > ledger.MaxPage(req.Size) {
		return req, echo.NewHTTPError(http.StatusBadRequest, "page is too large")
	}
	return req, nil
}

// badRequest maps a query binding failure to 400. echo's error handler only
// recognises *echo.HTTPError.
func badRequest(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return be.HTTPError
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// resolveError turns domain errors into a plain text response carrying the
// error message. Anything else is left to echo's error handler.
func resolveError(c echo.Context, err error) error {
	switch ledger.KindOf(err) {
	case ledger.KindAccountNotFound:
		return c.String(http.StatusNotFound, err.Error())
	case ledger.KindInvalidAmount, ledger.KindInsufficientFunds, ledger.KindSameAccount:
		return c.String(http.StatusBadRequest, err.Error())
	}
	return err
}
