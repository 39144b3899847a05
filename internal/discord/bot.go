package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/quintans/faults"
	"github.com/sirupsen/logrus"

	"github.com/NgigiN/ledger/internal/config"
	"github.com/NgigiN/ledger/internal/ledger"
)

const commandTimeout = 10 * time.Second

const usage = "Commands:\n" +
	"!open <initialBalance>\n" +
	"!balance <account>\n" +
	"!accounts [page] [size]\n" +
	"!deposit <account> <amount>\n" +
	"!withdraw <account> <amount>\n" +
	"!transfer <from> <to> <amount>\n" +
	"!history <account>"

// Ledger is what the bot needs from the engine.
type Ledger interface {
	CreateAccount(ctx context.Context, initialBalance int64) (ledger.Account, error)
	GetAccount(ctx context.Context, number string) (ledger.Account, error)
	ListAccounts(ctx context.Context, req ledger.PageRequest) (ledger.Page[ledger.Account], error)
	History(ctx context.Context, number string, req ledger.PageRequest) (ledger.Page[ledger.Transaction], error)
	Deposit(ctx context.Context, number string, amount int64) (ledger.SingleTransactionView, error)
	Withdraw(ctx context.Context, number string, amount int64) (ledger.SingleTransactionView, error)
	Transfer(ctx context.Context, fromNumber, toNumber string, amount int64) (ledger.TransferView, error)
}

// Bot exposes the ledger as chat commands in a single Discord channel.
type Bot struct {
	session   *discordgo.Session
	ledger    Ledger
	logger    logrus.FieldLogger
	channelID string
}

func NewBot(cfg *config.Config, l Ledger, logger logrus.FieldLogger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, faults.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		ledger:    l,
		logger:    logger,
		channelID: cfg.DiscordChannelId,
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return faults.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.WithError(err).Warn("closing Discord session")
	}
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return //bot's messages
	}

	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var reply string
	if isBatchMessage(m.Content) {
		reply = b.handleBatch(ctx, m.Content)
	} else {
		reply = b.handleCommand(ctx, m.Content)
	}
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.logger.WithError(err).Warn("sending Discord reply")
	}
}

// handleCommand runs one command line and returns the reply. Lines that are
// not commands get an empty reply.
func (b *Bot) handleCommand(ctx context.Context, line string) string {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 || !strings.HasPrefix(args[0], "!") {
		return ""
	}

	reply, err := b.dispatch(ctx, strings.ToLower(args[0]), args[1:])
	if err != nil {
		return err.Error()
	}
	return reply
}

func (b *Bot) dispatch(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "!help":
		return usage, nil

	case "!open":
		if len(args) != 1 {
			return "", usageError("!open <initialBalance>")
		}
		initial, err := parseAmount(args[0])
		if err != nil {
			return "", err
		}
		acc, err := b.ledger.CreateAccount(ctx, initial)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Opened account %s with balance %d", acc.Number, acc.Balance), nil

	case "!balance":
		if len(args) != 1 {
			return "", usageError("!balance <account>")
		}
		acc, err := b.ledger.GetAccount(ctx, args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Account %s: %d", acc.Number, acc.Balance), nil

	case "!accounts":
		return b.accounts(ctx, args)

	case "!deposit", "!withdraw":
		if len(args) != 2 {
			return "", usageError(cmd + " <account> <amount>")
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return "", err
		}
		op := b.ledger.Deposit
		if cmd == "!withdraw" {
			op = b.ledger.Withdraw
		}
		view, err := op(ctx, args[0], amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s of %d on %s at %s", view.Type, view.Amount, view.AccountNumber, view.Timestamp.Format(time.RFC3339)), nil

	case "!transfer":
		if len(args) != 3 {
			return "", usageError("!transfer <from> <to> <amount>")
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return "", err
		}
		view, err := b.ledger.Transfer(ctx, args[0], args[1], amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s of %d from %s to %s at %s", view.Type, view.Amount, view.FromAccountNumber, view.ToAccountNumber, view.Timestamp.Format(time.RFC3339)), nil

	case "!history":
		if len(args) != 1 {
			return "", usageError("!history <account>")
		}
		return b.history(ctx, args[0])
	}

	return "", fmt.Errorf("Unknown command: %s\n%s", cmd, usage)
}

func (b *Bot) accounts(ctx context.Context, args []string) (string, error) {
	req := ledger.PageRequest{Page: 0, Size: 10}
	if len(args) > 2 {
		return "", usageError("!accounts [page] [size]")
	}
	var err error
	if len(args) > 0 {
		if req.Page, err = strconv.Atoi(args[0]); err != nil {
			return "", fmt.Errorf("Invalid page: %s", args[0])
		}
	}
	if len(args) > 1 {
		if req.Size, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("Invalid size: %s", args[1])
		}
	}

	page, err := b.ledger.ListAccounts(ctx, req)
	if err != nil {
		return "", err
	}
	if page.TotalElements == 0 {
		return "No accounts found.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Accounts (page %d of %d)\n", page.PageNumber+1, page.TotalPages)
	for _, acc := range page.Items {
		fmt.Fprintf(&sb, "• %s: %d\n", acc.Number, acc.Balance)
	}
	fmt.Fprintf(&sb, "Total accounts: %d", page.TotalElements)
	return sb.String(), nil
}

func (b *Bot) history(ctx context.Context, number string) (string, error) {
	page, err := b.ledger.History(ctx, number, ledger.PageRequest{Page: 0, Size: 10})
	if err != nil {
		return "", err
	}
	if page.TotalElements == 0 {
		return fmt.Sprintf("No transactions found for account: %s", number), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transactions of %s\n", number)
	for _, tx := range page.Items {
		v := tx.View()
		switch v.Type {
		case ledger.TypeDeposit:
			fmt.Fprintf(&sb, "• %s +%d\n", v.Timestamp.Format("Jan 2, 2006 3:04 PM"), v.Amount)
		case ledger.TypeWithdrawal:
			fmt.Fprintf(&sb, "• %s -%d\n", v.Timestamp.Format("Jan 2, 2006 3:04 PM"), v.Amount)
		default:
			fmt.Fprintf(&sb, "• %s %d %s -> %s\n", v.Timestamp.Format("Jan 2, 2006 3:04 PM"), v.Amount, v.FromAccountNumber, v.ToAccountNumber)
		}
	}
	if more := page.TotalElements - int64(len(page.Items)); more > 0 {
		fmt.Fprintf(&sb, "... and %d more transactions", more)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func isBatchMessage(content string) bool {
	commands := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			commands++
		}
	}
	return commands > 1
}

// handleBatch runs every command line of a message in order. Each command is
// its own unit of work: a failing line does not undo the ones before it.
func (b *Bot) handleBatch(ctx context.Context, content string) string {
	var (
		successCount int
		errorCount   int
		errors       []string
	)

	n := 0
	for _, line := range strings.Split(content, "\n") {
		args := strings.Fields(line)
		if len(args) == 0 || !strings.HasPrefix(args[0], "!") {
			continue
		}
		n++
		if _, err := b.dispatch(ctx, strings.ToLower(args[0]), args[1:]); err != nil {
			errorCount++
			errors = append(errors, fmt.Sprintf("Command %d: %v", n, err))
			continue
		}
		successCount++
	}

	var sb strings.Builder
	sb.WriteString("Batch Processing Complete\n")
	fmt.Fprintf(&sb, "Successfully processed: %d commands", successCount)
	if errorCount > 0 {
		fmt.Fprintf(&sb, "\nFailed: %d commands\nErrors:", errorCount)
		for _, e := range errors {
			fmt.Fprintf(&sb, "\n• %s", e)
		}
	}
	return sb.String()
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid amount: %s", s)
	}
	return amount, nil
}

func usageError(form string) error {
	return fmt.Errorf("Usage: %s", form)
}
