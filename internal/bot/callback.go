package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback command kinds. The callback data wire format is
// "kind" or "kind:arg"; Telegram caps the payload at 64 bytes, posting
// numbers and offer ids fit comfortably.
const (
	cmdMainMenu    = "menu"
	cmdOrdersMenu  = "orders"
	cmdLabelsMenu  = "labels"
	cmdMonitorMenu = "mon"
	cmdStats       = "stats"

	cmdList       = "list"    // arg: posting status
	cmdOrder      = "order"   // arg: posting number
	cmdShip       = "ship"    // arg: posting number
	cmdLabelPDF   = "pdf"     // arg: posting number
	cmdSmartLabel = "smart"   // arg: posting number
	cmdBarcode    = "vbc"     // arg: posting number
	cmdCards      = "cards"   // arg: posting number
	cmdProducts   = "prod"    // arg: page number
	cmdProdCard   = "pcard"   // arg: offer id
	cmdStock      = "stock"   // arg: offer id
	cmdStockSet   = "sset"    // arg: offer id "|" quantity
	cmdMonStart   = "monon"
	cmdMonStop    = "monoff"
	cmdMonCheck   = "moncheck"
)

// Command is one decoded callback action.
type Command struct {
	Kind string
	Arg  string
}

func encode(c Command) string {
	if c.Arg == "" {
		return c.Kind
	}
	return c.Kind + ":" + c.Arg
}

func decode(data string) (Command, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return Command{}, fmt.Errorf("empty callback data")
	}
	kind, arg, _ := strings.Cut(data, ":")
	return Command{Kind: kind, Arg: arg}, nil
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Ack first so the client stops the spinner even when the handler
	// takes a while.
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.log.WithError(err).Warn("callback ack failed")
	}

	cmd, err := decode(q.Data)
	if err != nil {
		b.log.WithError(err).Warn("bad callback data")
		return
	}
	b.log.WithFields(map[string]interface{}{"kind": cmd.Kind, "arg": cmd.Arg}).Debug("callback")

	switch cmd.Kind {
	case cmdMainMenu:
		b.editToMainMenu(q)
	case cmdOrdersMenu:
		b.editToOrdersMenu(q)
	case cmdLabelsMenu:
		b.editToLabelsMenu(q)
	case cmdMonitorMenu:
		b.editToMonitorMenu(ctx, q)
	case cmdStats:
		b.showStats(ctx)
	case cmdList:
		b.showOrderList(ctx, cmd.Arg)
	case cmdOrder:
		b.showOrder(ctx, cmd.Arg)
	case cmdShip:
		b.shipOrder(ctx, cmd.Arg)
	case cmdLabelPDF:
		b.sendLabelPDF(ctx, cmd.Arg)
	case cmdSmartLabel:
		b.sendSmartLabel(ctx, cmd.Arg)
	case cmdBarcode:
		b.sendVendorBarcode(ctx, cmd.Arg)
	case cmdCards:
		b.sendBarcodeCards(ctx, cmd.Arg)
	case cmdProducts:
		b.showProducts(ctx, cmd.Arg)
	case cmdProdCard:
		b.sendProductCard(ctx, cmd.Arg)
	case cmdStock:
		b.startStockEdit(cmd.Arg)
	case cmdStockSet:
		b.takePending()
		offerID, qty, _ := strings.Cut(cmd.Arg, "|")
		b.finishStockEdit(ctx, offerID, qty)
	case cmdMonStart:
		b.monitorStart(ctx, q)
	case cmdMonStop:
		b.monitorStop(ctx, q)
	case cmdMonCheck:
		b.monitorCheck(ctx)
	default:
		b.log.WithField("kind", cmd.Kind).Warn("unknown callback command")
	}
}
