package discord

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NgigiN/ledger/internal/ledger"
	"github.com/NgigiN/ledger/internal/storage"
)

var fixedNow = time.Date(2025, 9, 17, 18, 56, 0, 0, time.UTC)

func newTestBot(t *testing.T) (*Bot, *ledger.Engine) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := storage.NewDatabase(storage.DriverSQLite, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	engine := ledger.NewEngine(logger, db, ledger.ClockFunc(func() time.Time { return fixedNow }))
	return &Bot{ledger: engine, logger: logger, channelID: "chan"}, engine
}

func TestHandleCommandIgnoresChatter(t *testing.T) {
	bot, _ := newTestBot(t)

	assert.Empty(t, bot.handleCommand(context.Background(), "hello there"))
	assert.Empty(t, bot.handleCommand(context.Background(), "   "))
}

func TestOpenAndBalance(t *testing.T) {
	ctx := context.Background()
	bot, engine := newTestBot(t)

	reply := bot.handleCommand(ctx, "!open 1000")
	require.True(t, strings.HasPrefix(reply, "Opened account "), reply)

	page, err := engine.ListAccounts(ctx, ledger.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	number := page.Items[0].Number

	assert.Equal(t, "Account "+number+": 1000", bot.handleCommand(ctx, "!balance "+number))
	assert.Equal(t, "account nope not found", bot.handleCommand(ctx, "!balance nope"))
	assert.Equal(t, "initial balance cannot be negative", bot.handleCommand(ctx, "!open -5"))
	assert.Equal(t, "Invalid amount: lots", bot.handleCommand(ctx, "!open lots"))
	assert.Equal(t, "Usage: !balance <account>", bot.handleCommand(ctx, "!balance"))
}

func TestMoneyCommands(t *testing.T) {
	ctx := context.Background()
	bot, engine := newTestBot(t)
	a, err := engine.CreateAccount(ctx, 1000)
	require.NoError(t, err)
	b, err := engine.CreateAccount(ctx, 2000)
	require.NoError(t, err)

	assert.Equal(t,
		"DEPOSIT of 100 on "+a.Number+" at 2025-09-17T18:56:00Z",
		bot.handleCommand(ctx, "!deposit "+a.Number+" 100"))
	assert.Equal(t,
		"WITHDRAWAL of 100 on "+a.Number+" at 2025-09-17T18:56:00Z",
		bot.handleCommand(ctx, "!WITHDRAW "+a.Number+" 100"))
	assert.Equal(t,
		"TRANSFER of 100 from "+a.Number+" to "+b.Number+" at 2025-09-17T18:56:00Z",
		bot.handleCommand(ctx, "!transfer "+a.Number+" "+b.Number+" 100"))

	assert.Equal(t, "insufficient funds in account "+a.Number, bot.handleCommand(ctx, "!withdraw "+a.Number+" 10000"))
	assert.Equal(t, "both accounts not found: X and Y", bot.handleCommand(ctx, "!transfer X Y 1"))

	acc, err := engine.GetAccount(ctx, a.Number)
	require.NoError(t, err)
	assert.Equal(t, int64(900), acc.Balance)
}

func TestHistoryCommand(t *testing.T) {
	ctx := context.Background()
	bot, engine := newTestBot(t)
	a, err := engine.CreateAccount(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, "No transactions found for account: "+a.Number, bot.handleCommand(ctx, "!history "+a.Number))

	_, err = engine.Deposit(ctx, a.Number, 200)
	require.NoError(t, err)
	_, err = engine.Withdraw(ctx, a.Number, 50)
	require.NoError(t, err)

	reply := bot.handleCommand(ctx, "!history "+a.Number)
	lines := strings.Split(reply, "\n")
	require.Len(t, lines, 3, reply)
	assert.True(t, strings.HasSuffix(lines[1], "-50"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "+200"), lines[2])
}

func TestAccountsCommand(t *testing.T) {
	ctx := context.Background()
	bot, engine := newTestBot(t)

	assert.Equal(t, "No accounts found.", bot.handleCommand(ctx, "!accounts"))

	_, err := engine.CreateAccount(ctx, 5)
	require.NoError(t, err)
	reply := bot.handleCommand(ctx, "!accounts 0 5")
	assert.Contains(t, reply, "Accounts (page 1 of 1)")
	assert.Contains(t, reply, "Total accounts: 1")

	assert.Equal(t, "Invalid page: x", bot.handleCommand(ctx, "!accounts x"))
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	bot, engine := newTestBot(t)
	a, err := engine.CreateAccount(ctx, 0)
	require.NoError(t, err)

	msg := strings.Join([]string{
		"!deposit " + a.Number + " 100",
		"note to self",
		"!withdraw " + a.Number + " 500",
		"!withdraw " + a.Number + " 40",
	}, "\n")
	require.True(t, isBatchMessage(msg))
	assert.False(t, isBatchMessage("!deposit x 1"))

	reply := bot.handleBatch(ctx, msg)
	assert.Contains(t, reply, "Successfully processed: 2 commands")
	assert.Contains(t, reply, "Failed: 1 commands")
	assert.Contains(t, reply, "Command 2: insufficient funds in account "+a.Number)

	acc, err := engine.GetAccount(ctx, a.Number)
	require.NoError(t, err)
	assert.Equal(t, int64(60), acc.Balance)
}

func TestUnknownCommand(t *testing.T) {
	bot, _ := newTestBot(t)

	reply := bot.handleCommand(context.Background(), "!summary")
	assert.True(t, strings.HasPrefix(reply, "Unknown command: !summary"), reply)
	assert.Equal(t, usage, bot.handleCommand(context.Background(), "!help"))
}
