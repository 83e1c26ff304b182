package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
)

func TestPostingSummary(t *testing.T) {
	p := &ozon.Posting{
		PostingNumber: "12345-0001-1",
		Status:        ozon.StatusAwaitingPackaging,
		ShipmentDate:  "2026-09-02T10:00:00Z",
		AnalyticsData: &ozon.AnalyticsData{City: "Казань"},
	}
	got := postingSummary(p)
	assert.Contains(t, got, "12345-0001-1")
	assert.Contains(t, got, "Ожидает упаковки")
	assert.Contains(t, got, "Казань")
}

func TestPostingSummaryUnknownStatus(t *testing.T) {
	p := &ozon.Posting{PostingNumber: "1", Status: "some_new_status"}
	assert.Contains(t, postingSummary(p), "some_new_status")
}

func TestLineItems(t *testing.T) {
	items := lineItems([]ozon.PostingProduct{
		{Name: "Чехол", SKU: 42, Quantity: 3},
	})
	assert.Len(t, items, 1)
	assert.Equal(t, "42", items[0].SKU)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestMainMenuKeyboardCallbacksDecode(t *testing.T) {
	kb := mainMenuKeyboard()
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == nil {
				t.Fatal("button without callback data")
			}
			cmd, err := decode(*btn.CallbackData)
			assert.NoError(t, err)
			assert.NotEmpty(t, cmd.Kind)
		}
	}
}

func TestStockSetArgFormat(t *testing.T) {
	data := encode(Command{Kind: cmdStockSet, Arg: "OFFER-1|10"})
	cmd, err := decode(data)
	assert.NoError(t, err)
	offer, qty, ok := strings.Cut(cmd.Arg, "|")
	assert.True(t, ok)
	assert.Equal(t, "OFFER-1", offer)
	assert.Equal(t, "10", qty)
}
