package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sellertools/ozon-fbs-bot/internal/label"
	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
	"github.com/sellertools/ozon-fbs-bot/internal/product"
)

const productsPerPage = 5

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.sendMainMenu()
		case "help":
			b.sendHelp()
		case "orders":
			b.showOrderList(ctx, ozon.StatusAwaitingPackaging)
		case "labels":
			b.sendLabelsMenu()
		case "products":
			b.showProducts(ctx, "0")
		case "monitor":
			b.sendMonitorMenu(ctx)
		case "stats":
			b.showStats(ctx)
		default:
			b.sendText("Неизвестная команда. /help")
		}
		return
	}

	if p := b.takePending(); p.kind == "stock" {
		b.finishStockEdit(ctx, p.offerID, msg.Text)
		return
	}
	b.sendMainMenu()
}

// Menus.

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Заказы", encode(Command{Kind: cmdOrdersMenu})),
			tgbotapi.NewInlineKeyboardButtonData("🏷 Этикетки", encode(Command{Kind: cmdLabelsMenu})),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛍 Товары", encode(Command{Kind: cmdProducts, Arg: "0"})),
			tgbotapi.NewInlineKeyboardButtonData("👁 Мониторинг", encode(Command{Kind: cmdMonitorMenu})),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", encode(Command{Kind: cmdStats})),
		),
	)
}

const mainMenuText = "🤖 <b>Ozon FBS бот</b>\n\nВыберите раздел:"

func (b *Bot) sendMainMenu() {
	msg := tgbotapi.NewMessage(b.adminID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	b.send(msg)
}

func (b *Bot) editToMainMenu(q *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID, mainMenuText, mainMenuKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func ordersMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Ожидают упаковки", encode(Command{Kind: cmdList, Arg: ozon.StatusAwaitingPackaging})),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚚 Ожидают отгрузки", encode(Command{Kind: cmdList, Arg: ozon.StatusAwaitingDeliver})),
		),
		backRow(),
	)
}

func (b *Bot) editToOrdersMenu(q *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID,
		"📦 <b>Заказы</b>\n\nКакой список показать?", ordersMenuKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func (b *Bot) sendLabelsMenu() {
	msg := tgbotapi.NewMessage(b.adminID,
		"🏷 <b>Этикетки</b>\n\nВыберите заказ из списка, затем нажмите «Этикетка».")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = ordersMenuKeyboard()
	b.send(msg)
}

func (b *Bot) editToLabelsMenu(q *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID,
		"🏷 <b>Этикетки</b>\n\nВыберите заказ из списка, затем нажмите «Этикетка».", ordersMenuKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Меню", encode(Command{Kind: cmdMainMenu})),
	)
}

func (b *Bot) sendHelp() {
	b.sendText(`<b>Команды</b>

/orders — заказы, ожидающие упаковки
/labels — этикетки для отгрузки
/products — каталог товаров и остатки
/monitor — управление мониторингом заказов
/stats — статистика
/help — эта справка`)
}

// Orders.

func (b *Bot) showOrderList(ctx context.Context, status string) {
	postings, err := b.client.ListPostings(ctx, status, 50)
	if err != nil {
		b.reportErr("получение списка заказов", err)
		return
	}
	title := ozon.StatusTitles[status]
	if title == "" {
		title = status
	}
	if len(postings) == 0 {
		b.sendText(fmt.Sprintf("📭 <b>%s</b>: заказов нет", title))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 <b>%s</b> (%d):\n", title, len(postings))
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, p := range postings {
		if i >= 10 {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(postings)-10)
			break
		}
		items := lineItems(p.Products)
		emoji := "📦"
		if len(items) > 0 {
			emoji = product.TypeEmoji(items[0].Name)
			if ce := product.ColorEmoji(product.DetectColor(items[0].Name)); ce != "" {
				emoji += ce
			}
		}
		fmt.Fprintf(&sb, "\n%s <code>%s</code>\n%s\n", emoji, p.PostingNumber, product.Describe(items))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d️⃣ %s", i+1, p.PostingNumber),
				encode(Command{Kind: cmdOrder, Arg: p.PostingNumber}),
			),
		))
	}
	rows = append(rows, backRow())

	msg := tgbotapi.NewMessage(b.adminID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func postingSummary(p *ozon.Posting) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Номер: <code>%s</code>\n", p.PostingNumber)
	if title := ozon.StatusTitles[p.Status]; title != "" {
		fmt.Fprintf(&sb, "Статус: %s\n", title)
	} else if p.Status != "" {
		fmt.Fprintf(&sb, "Статус: %s\n", p.Status)
	}
	if p.ShipmentDate != "" {
		fmt.Fprintf(&sb, "Отгрузить до: %s\n", p.ShipmentDate)
	}
	if p.AnalyticsData != nil && p.AnalyticsData.City != "" {
		fmt.Fprintf(&sb, "Город: %s\n", p.AnalyticsData.City)
	}
	return sb.String()
}

func (b *Bot) showOrder(ctx context.Context, postingNumber string) {
	p, err := b.client.GetPosting(ctx, postingNumber)
	if err != nil {
		b.reportErr("получение заказа", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Заказ %s</b>\n\n%s\n<b>Товары:</b>\n", p.PostingNumber, postingSummary(p))
	for _, pr := range p.Products {
		emoji := product.TypeEmoji(pr.Name)
		fmt.Fprintf(&sb, "%s %s x%d — %s ₽\n", emoji, pr.Name, pr.Quantity, pr.Price)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if p.Status == ozon.StatusAwaitingPackaging {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Собрать заказ", encode(Command{Kind: cmdShip, Arg: p.PostingNumber})),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏷 Этикетка", encode(Command{Kind: cmdSmartLabel, Arg: p.PostingNumber})),
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF", encode(Command{Kind: cmdLabelPDF, Arg: p.PostingNumber})),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Штрихкод", encode(Command{Kind: cmdBarcode, Arg: p.PostingNumber})),
			tgbotapi.NewInlineKeyboardButtonData("🔖 Карточки", encode(Command{Kind: cmdCards, Arg: p.PostingNumber})),
		),
		backRow(),
	)

	msg := tgbotapi.NewMessage(b.adminID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) shipOrder(ctx context.Context, postingNumber string) {
	p, err := b.client.GetPosting(ctx, postingNumber)
	if err != nil {
		b.reportErr("получение заказа", err)
		return
	}
	items := make([]ozon.ShipItem, len(p.Products))
	for i, pr := range p.Products {
		items[i] = ozon.ShipItem{SKU: pr.SKU, Quantity: pr.Quantity}
	}
	if err := b.client.ShipPosting(ctx, postingNumber, items); err != nil {
		b.reportErr("сборка заказа", err)
		return
	}
	b.sendText(fmt.Sprintf("✅ Заказ <code>%s</code> собран и переведён в отгрузку", postingNumber))
}

// Labels.

func (b *Bot) sendLabelPDF(ctx context.Context, postingNumber string) {
	data, err := b.client.PackageLabel(ctx, []string{postingNumber})
	if err != nil {
		b.reportErr("получение этикетки", err)
		return
	}
	doc := tgbotapi.NewDocument(b.adminID, tgbotapi.FileBytes{
		Name:  postingNumber + ".pdf",
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📄 Этикетка %s", postingNumber)
	b.send(doc)
}

// sendSmartLabel builds the composite print sheet: rotated label,
// order annotation and product barcodes in one PNG.
func (b *Bot) sendSmartLabel(ctx context.Context, postingNumber string) {
	p, err := b.client.GetPosting(ctx, postingNumber)
	if err != nil {
		b.reportErr("получение заказа", err)
		return
	}
	pdf, err := b.client.PackageLabel(ctx, []string{postingNumber})
	if err != nil {
		b.reportErr("получение этикетки", err)
		return
	}

	payloads, err := b.productBarcodes(ctx, p)
	if err != nil {
		b.reportErr("получение штрихкодов товаров", err)
		return
	}
	annotation := product.Describe(lineItems(p.Products))
	qrPayload := ""
	if b.opts.QREnabled {
		qrPayload = p.PostingNumber
	}

	img, err := b.pipeline.BuildLabel(pdf, annotation, payloads, qrPayload)
	if err != nil {
		b.reportErr("сборка этикетки", err)
		return
	}
	png, err := label.EncodePNG(img)
	if err != nil {
		b.reportErr("кодирование этикетки", err)
		return
	}
	// Sent as a document so Telegram does not recompress the raster.
	doc := tgbotapi.NewDocument(b.adminID, tgbotapi.FileBytes{
		Name:  postingNumber + ".png",
		Bytes: png,
	})
	doc.Caption = fmt.Sprintf("🏷 Этикетка для печати %s", postingNumber)
	b.send(doc)
}

// productBarcodes resolves one barcode payload per product line,
// falling back to the SKU digits when the catalogue has no barcode.
func (b *Bot) productBarcodes(ctx context.Context, p *ozon.Posting) ([]string, error) {
	skus := make([]int64, len(p.Products))
	for i, pr := range p.Products {
		skus[i] = pr.SKU
	}
	infos, err := b.client.ProductsBySKU(ctx, skus)
	if err != nil {
		return nil, err
	}
	bySKU := make(map[int64]ozon.ProductInfo, len(infos))
	for _, info := range infos {
		bySKU[info.SKU] = info
	}
	var payloads []string
	for _, pr := range p.Products {
		payload := strconv.FormatInt(pr.SKU, 10)
		if info, ok := bySKU[pr.SKU]; ok && len(info.Barcodes) > 0 {
			payload = info.Barcodes[0]
		}
		for i := 0; i < pr.Quantity; i++ {
			payloads = append(payloads, payload)
		}
	}
	return payloads, nil
}

func (b *Bot) sendVendorBarcode(ctx context.Context, postingNumber string) {
	data, contentType, err := b.client.PostingBarcode(ctx, postingNumber)
	if err != nil {
		b.reportErr("получение штрихкода отправления", err)
		return
	}
	name := postingNumber + "_barcode.png"
	if strings.Contains(contentType, "jpeg") {
		name = postingNumber + "_barcode.jpg"
	}
	photo := tgbotapi.NewPhoto(b.adminID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = fmt.Sprintf("📊 Штрихкод отправления %s", postingNumber)
	b.send(photo)
}

// sendBarcodeCards renders one Code128 card per product line and sends
// them as an album.
func (b *Bot) sendBarcodeCards(ctx context.Context, postingNumber string) {
	p, err := b.client.GetPosting(ctx, postingNumber)
	if err != nil {
		b.reportErr("получение заказа", err)
		return
	}
	skus := make([]int64, len(p.Products))
	for i, pr := range p.Products {
		skus[i] = pr.SKU
	}
	infos, err := b.client.ProductsBySKU(ctx, skus)
	if err != nil {
		b.reportErr("получение товаров", err)
		return
	}
	bySKU := make(map[int64]ozon.ProductInfo, len(infos))
	for _, info := range infos {
		bySKU[info.SKU] = info
	}

	var media []interface{}
	for _, pr := range p.Products {
		payload := strconv.FormatInt(pr.SKU, 10)
		if info, ok := bySKU[pr.SKU]; ok && len(info.Barcodes) > 0 {
			payload = info.Barcodes[0]
		}
		img, err := b.pipeline.BuildBarcodeCard(payload, strconv.FormatInt(pr.SKU, 10), pr.Name, pr.Quantity)
		if err != nil {
			b.reportErr("генерация карточки", err)
			continue
		}
		png, err := label.EncodePNG(img)
		if err != nil {
			b.reportErr("кодирование карточки", err)
			continue
		}
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileBytes{
			Name:  fmt.Sprintf("%d.png", pr.SKU),
			Bytes: png,
		}))
	}
	switch len(media) {
	case 0:
		b.sendText("Не удалось собрать ни одной карточки")
	case 1:
		photo := tgbotapi.NewPhoto(b.adminID, media[0].(tgbotapi.InputMediaPhoto).Media)
		photo.Caption = fmt.Sprintf("🔖 Карточки товаров %s", postingNumber)
		b.send(photo)
	default:
		group := tgbotapi.NewMediaGroup(b.adminID, media)
		if _, err := b.api.SendMediaGroup(group); err != nil {
			b.log.WithError(err).Error("media group send failed")
		}
	}
}

// Products and stock.

func (b *Bot) showProducts(ctx context.Context, pageArg string) {
	page, _ := strconv.Atoi(pageArg)
	items, err := b.client.ListProducts(ctx)
	if err != nil {
		b.reportErr("получение каталога", err)
		return
	}
	if len(items) == 0 {
		b.sendText("🛍 Каталог пуст")
		return
	}

	totalPages := (len(items) + productsPerPage - 1) / productsPerPage
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	start := page * productsPerPage
	end := start + productsPerPage
	if end > len(items) {
		end = len(items)
	}
	pageItems := items[start:end]

	ids := make([]int64, len(pageItems))
	for i, it := range pageItems {
		ids[i] = it.ProductID
	}
	infos, err := b.client.GetProductInfo(ctx, ids)
	if err != nil {
		b.reportErr("получение товаров", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛍 <b>Товары</b> (стр. %d/%d, всего %d):\n", page+1, totalPages, len(items))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, info := range infos {
		emoji := product.TypeEmoji(info.Name)
		fmt.Fprintf(&sb, "\n%s <b>%s</b>\n<code>%s</code> · SKU %d\n", emoji, product.ShortName(info.Name, 40), info.OfferID, info.SKU)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✏️ Остаток: %s", info.OfferID),
				encode(Command{Kind: cmdStock, Arg: info.OfferID}),
			),
			tgbotapi.NewInlineKeyboardButtonData("🔖",
				encode(Command{Kind: cmdProdCard, Arg: info.OfferID}),
			),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", encode(Command{Kind: cmdProducts, Arg: strconv.Itoa(page - 1)})))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", encode(Command{Kind: cmdProducts, Arg: strconv.Itoa(page + 1)})))
	}
	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}
	rows = append(rows, backRow())

	msg := tgbotapi.NewMessage(b.adminID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

// sendProductCard regenerates the Code128 card for a catalogue item.
func (b *Bot) sendProductCard(ctx context.Context, offerID string) {
	info, err := b.client.ProductByOffer(ctx, offerID)
	if err != nil {
		b.reportErr("поиск товара", err)
		return
	}
	payload := strconv.FormatInt(info.SKU, 10)
	if len(info.Barcodes) > 0 {
		payload = info.Barcodes[0]
	}
	img, err := b.pipeline.BuildBarcodeCard(payload, strconv.FormatInt(info.SKU, 10), info.Name, 1)
	if err != nil {
		b.reportErr("генерация карточки", err)
		return
	}
	png, err := label.EncodePNG(img)
	if err != nil {
		b.reportErr("кодирование карточки", err)
		return
	}
	photo := tgbotapi.NewPhoto(b.adminID, tgbotapi.FileBytes{Name: offerID + ".png", Bytes: png})
	photo.Caption = fmt.Sprintf("🔖 %s", product.ShortName(info.Name, 60))
	b.send(photo)
}

func (b *Bot) startStockEdit(offerID string) {
	b.setPending(pendingInput{kind: "stock", offerID: offerID})

	preset := func(qty int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(qty),
			encode(Command{Kind: cmdStockSet, Arg: fmt.Sprintf("%s|%d", offerID, qty)}),
		)
	}
	msg := tgbotapi.NewMessage(b.adminID,
		fmt.Sprintf("✏️ Новый остаток для <code>%s</code> — кнопкой или числом в ответ:", offerID))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(preset(0), preset(1), preset(5), preset(10), preset(20)),
	)
	b.send(msg)
}

func (b *Bot) finishStockEdit(ctx context.Context, offerID, text string) {
	qty, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || qty < 0 {
		b.sendText("Нужно неотрицательное число. Попробуйте ещё раз через меню товаров.")
		return
	}

	info, err := b.client.ProductByOffer(ctx, offerID)
	if err != nil {
		b.reportErr("поиск товара", err)
		return
	}
	stocks, err := b.client.FBSStocks(ctx, []int64{info.SKU})
	if err != nil {
		b.reportErr("получение остатков", err)
		return
	}
	if len(stocks) == 0 {
		b.sendText("У товара нет FBS склада, остаток обновить нельзя")
		return
	}

	ok, err := b.client.UpdateStock(ctx, offerID, stocks[0].WarehouseID, qty)
	if err != nil {
		b.reportErr("обновление остатка", err)
		return
	}
	if !ok {
		b.sendText("⚠️ API не подтвердил обновление остатка")
		return
	}
	b.sendText(fmt.Sprintf("✅ Остаток <code>%s</code> обновлён: %d шт.", offerID, qty))
}

// Monitor control.

func (b *Bot) monitorStatusText(ctx context.Context) string {
	m := b.monitor()
	if m == nil {
		return "👁 Мониторинг не настроен"
	}
	s := m.Stats(ctx)
	state := "⏸ остановлен"
	if s.Running {
		state = "▶️ работает"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "👁 <b>Мониторинг заказов</b>\n\nСостояние: %s\nИнтервал: %s\nПроверок: %d\nНовых заказов: %d\nОтслеживается: %d\n",
		state, s.Interval, s.Checks, s.NewFound, s.SeenTotal)
	if !s.LastCheck.IsZero() {
		fmt.Fprintf(&sb, "Последняя проверка: %s\n", s.LastCheck.Format("15:04:05"))
	}
	return sb.String()
}

func monitorKeyboard(running bool) tgbotapi.InlineKeyboardMarkup {
	var toggle tgbotapi.InlineKeyboardButton
	if running {
		toggle = tgbotapi.NewInlineKeyboardButtonData("⏸ Остановить", encode(Command{Kind: cmdMonStop}))
	} else {
		toggle = tgbotapi.NewInlineKeyboardButtonData("▶️ Запустить", encode(Command{Kind: cmdMonStart}))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			toggle,
			tgbotapi.NewInlineKeyboardButtonData("🔄 Проверить сейчас", encode(Command{Kind: cmdMonCheck})),
		),
		backRow(),
	)
}

func (b *Bot) sendMonitorMenu(ctx context.Context) {
	m := b.monitor()
	running := m != nil && m.Running()
	msg := tgbotapi.NewMessage(b.adminID, b.monitorStatusText(ctx))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = monitorKeyboard(running)
	b.send(msg)
}

func (b *Bot) editToMonitorMenu(ctx context.Context, q *tgbotapi.CallbackQuery) {
	m := b.monitor()
	running := m != nil && m.Running()
	edit := tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID,
		b.monitorStatusText(ctx), monitorKeyboard(running))
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func (b *Bot) monitorStart(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if m := b.monitor(); m != nil {
		m.Start(context.WithoutCancel(ctx))
	}
	b.editToMonitorMenu(ctx, q)
}

func (b *Bot) monitorStop(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if m := b.monitor(); m != nil {
		m.Stop()
	}
	b.editToMonitorMenu(ctx, q)
}

func (b *Bot) monitorCheck(ctx context.Context) {
	m := b.monitor()
	if m == nil {
		b.sendText("👁 Мониторинг не настроен")
		return
	}
	m.CheckOnce(ctx)
	b.sendText("🔄 Проверка выполнена")
}

// Stats.

func (b *Bot) showStats(ctx context.Context) {
	packaging, err := b.client.ListPostings(ctx, ozon.StatusAwaitingPackaging, 100)
	if err != nil {
		b.reportErr("получение статистики", err)
		return
	}
	deliver, err := b.client.ListPostings(ctx, ozon.StatusAwaitingDeliver, 100)
	if err != nil {
		b.reportErr("получение статистики", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>Статистика</b>\n\nОжидают упаковки: %d\nОжидают отгрузки: %d\n", len(packaging), len(deliver))
	if m := b.monitor(); m != nil {
		s := m.Stats(ctx)
		fmt.Fprintf(&sb, "\nПроверок мониторинга: %d\nНайдено новых: %d\nОтслеживается отправлений: %d\n", s.Checks, s.NewFound, s.SeenTotal)
	}
	b.sendText(sb.String())
}

func (b *Bot) reportErr(action string, err error) {
	b.log.WithError(err).Error(action)
	msg := tgbotapi.NewMessage(b.adminID, fmt.Sprintf("⚠️ Ошибка (%s): %s", action, err))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow())
	b.send(msg)
}
