// Package bot is the Telegram front end. A single admin chat drives
// the FBS workflow: order lists, shipping, label generation, product
// catalogue and monitor control.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/sellertools/ozon-fbs-bot/internal/label"
	"github.com/sellertools/ozon-fbs-bot/internal/monitor"
	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
	"github.com/sellertools/ozon-fbs-bot/internal/product"
)

// Options tunes optional bot behavior.
type Options struct {
	QREnabled bool
}

// Bot dispatches Telegram updates and talks back to the admin chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	client   *ozon.Client
	pipeline *label.Pipeline
	adminID  int64
	opts     Options
	log      *logrus.Entry

	mu      sync.Mutex
	mon     *monitor.Monitor
	pending pendingInput
}

// pendingInput tracks a multi-step dialog, currently only the stock
// edit flow waiting for a quantity reply.
type pendingInput struct {
	kind    string
	offerID string
}

func New(token string, adminID int64, client *ozon.Client, pipeline *label.Pipeline, opts Options, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	b := &Bot{
		api:      api,
		client:   client,
		pipeline: pipeline,
		adminID:  adminID,
		opts:     opts,
		log:      log.WithField("component", "bot"),
	}
	b.log.WithField("username", api.Self.UserName).Info("telegram bot authorized")
	return b, nil
}

// AttachMonitor wires the order monitor after construction; the
// monitor in turn uses the bot as its notifier.
func (b *Bot) AttachMonitor(m *monitor.Monitor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mon = m
}

func (b *Bot) monitor() *monitor.Monitor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mon
}

// Run consumes the update long-poll until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.From == nil || update.Message.From.ID != b.adminID {
			return
		}
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From.ID != b.adminID {
			return
		}
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// notifyDetail is how many postings a batch message lists in full;
// beyond that only the count is shown.
const notifyDetail = 5

// NotifyNewPostings implements monitor.Notifier. A single posting gets
// a detailed message with quick actions; a batch becomes one summary
// with an action row per listed posting.
func (b *Bot) NotifyNewPostings(_ context.Context, postings []ozon.Posting) {
	if len(postings) == 0 {
		return
	}

	if len(postings) == 1 {
		p := postings[0]
		text := fmt.Sprintf("🆕 <b>Новый заказ!</b>\n\n%s\n%s",
			product.Describe(lineItems(p.Products)), postingSummary(&p))
		msg := tgbotapi.NewMessage(b.adminID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Детали", encode(Command{Kind: cmdOrder, Arg: p.PostingNumber})),
				tgbotapi.NewInlineKeyboardButtonData("🏷 Этикетка", encode(Command{Kind: cmdSmartLabel, Arg: p.PostingNumber})),
			),
		)
		b.send(msg)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🆕 <b>Новых заказов: %d</b>\n", len(postings))
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, p := range postings {
		if i >= notifyDetail {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(postings)-notifyDetail)
			break
		}
		fmt.Fprintf(&sb, "\n<code>%s</code>\n%s\n", p.PostingNumber, product.Describe(lineItems(p.Products)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 "+p.PostingNumber, encode(Command{Kind: cmdOrder, Arg: p.PostingNumber})),
			tgbotapi.NewInlineKeyboardButtonData("🏷", encode(Command{Kind: cmdSmartLabel, Arg: p.PostingNumber})),
		))
	}

	msg := tgbotapi.NewMessage(b.adminID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send failed")
	}
}

func (b *Bot) sendText(text string) {
	msg := tgbotapi.NewMessage(b.adminID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) setPending(p pendingInput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = p
}

func (b *Bot) takePending() pendingInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pending
	b.pending = pendingInput{}
	return p
}

func lineItems(products []ozon.PostingProduct) []product.LineItem {
	items := make([]product.LineItem, len(products))
	for i, p := range products {
		items[i] = product.LineItem{
			Name:     p.Name,
			SKU:      fmt.Sprintf("%d", p.SKU),
			Quantity: p.Quantity,
		}
	}
	return items
}
