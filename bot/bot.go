package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"qrmenu-telegram/config"
	"qrmenu-telegram/menu"
	"qrmenu-telegram/models"
	"qrmenu-telegram/order"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the diner-facing shell. One session per chat; the session owns
// the cart and the order flow, children only request mutations through
// callbacks handled here (single writer).
type Bot struct {
	api     *tgbotapi.BotAPI
	gateway *menu.Gateway
	orders  *order.Client

	sessions   map[int64]*session
	sessionsMu sync.RWMutex
}

func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		gateway:  menu.NewGateway(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		orders:   order.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		sessions: make(map[int64]*session),
	}, nil
}

func (b *Bot) getSession(chatID int64) *session {
	b.sessionsMu.RLock()
	defer b.sessionsMu.RUnlock()
	return b.sessions[chatID]
}

func (b *Bot) putSession(chatID int64, s *session) {
	b.sessionsMu.Lock()
	old := b.sessions[chatID]
	b.sessions[chatID] = s
	b.sessionsMu.Unlock()
	if old != nil {
		old.teardown()
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Scan result / home"},
			{Command: "menu", Description: "Show the menu"},
			{Command: "cart", Description: "Show your cart"},
			{Command: "orders", Description: "Past orders for this table"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	_ = b.setBotCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			payload := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
			b.handleStart(chatID, payload)
		case text == "/menu":
			b.handleMenu(chatID)
		case text == "/cart":
			b.handleCart(chatID)
		case text == "/orders":
			b.handleHistory(chatID)
		case strings.HasPrefix(text, "/"):
			// Unknown command, ignore.
		case text != "":
			b.handleSearch(chatID, text)
		}
	}
}

// handleStart parses the QR deep-link payload "<restaurantId>_<table>".
// Without a payload the diner gets the landing page instead of a menu.
func (b *Bot) handleStart(chatID int64, payload string) {
	restaurantID, table, ok := parseStartPayload(payload)
	if !ok {
		b.send(chatID, landingText(b.api.Self.UserName))
		return
	}

	s := newSession(restaurantID, table, b.orders)
	ctx := context.Background()
	r := b.gateway.FetchRestaurant(ctx, restaurantID)
	items := b.gateway.FetchMenu(ctx, restaurantID)
	categories := b.gateway.FetchCategories(ctx, restaurantID)
	s.setCatalog(r, items, categories)
	b.putSession(chatID, s)

	if s.notFound {
		b.send(chatID, notFoundText())
		return
	}
	s.flow.SetOnChange(func(st order.State) { b.onFlowChange(chatID, st) })
	b.renderMenu(chatID, s)
}

func parseStartPayload(payload string) (restaurantID, table string, ok bool) {
	if payload == "" {
		return "", "", false
	}
	parts := strings.SplitN(payload, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// requireSession fetches the chat's session or points the diner at the QR
// code.
func (b *Bot) requireSession(chatID int64) *session {
	s := b.getSession(chatID)
	if s == nil {
		b.send(chatID, "Scan the QR code on your table first (or open a demo link via /start).")
		return nil
	}
	if s.notFound {
		b.send(chatID, notFoundText())
		return nil
	}
	return s
}

func (b *Bot) handleMenu(chatID int64) {
	if s := b.requireSession(chatID); s != nil {
		b.renderMenu(chatID, s)
	}
}

func (b *Bot) handleCart(chatID int64) {
	if s := b.requireSession(chatID); s != nil {
		b.renderCart(chatID, s)
	}
}

func (b *Bot) handleSearch(chatID int64, term string) {
	s := b.requireSession(chatID)
	if s == nil {
		return
	}
	s.setSearch(term)
	b.renderMenu(chatID, s)
}

func (b *Bot) handleHistory(chatID int64) {
	s := b.requireSession(chatID)
	if s == nil {
		return
	}
	orders, err := b.orders.History(context.Background(), s.restaurantID, s.table)
	if err != nil {
		log.Printf("history for table %s: %v", s.table, err)
		b.send(chatID, "Couldn't load past orders right now.")
		return
	}
	if len(orders) == 0 {
		b.send(chatID, "No past orders for this table yet.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Past orders — Table %s\n\n", s.table)
	for i, o := range orders {
		fmt.Fprintf(&sb, "%d. %d item(s), total %s\n", i+1, len(o.Items), formatPrice(o.Total))
	}
	b.send(chatID, sb.String())
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	s := b.getSession(chatID)
	if s == nil || s.notFound {
		b.answerCallback(cq, "Session expired, scan the QR code again.")
		return
	}

	switch {
	case strings.HasPrefix(data, "cat:"):
		s.setCategory(strings.TrimPrefix(data, "cat:"))
		b.answerCallback(cq, "")
		b.renderMenu(chatID, s)

	case data == "more":
		if s.more() {
			b.renderMenu(chatID, s)
			s.settle()
			b.answerCallback(cq, "")
		} else {
			s.settle()
			b.answerCallback(cq, "No more items")
		}

	case strings.HasPrefix(data, "add:"):
		id := strings.TrimPrefix(data, "add:")
		if it, ok := findItem(s.items, id); ok {
			s.cart.Add(it)
			b.answerCallback(cq, it.Name+" added")
			b.renderMenu(chatID, s)
		} else {
			b.answerCallback(cq, "Item unavailable")
		}

	case data == "cart":
		b.answerCallback(cq, "")
		b.renderCart(chatID, s)

	case data == "menu":
		b.answerCallback(cq, "")
		b.renderMenu(chatID, s)

	case strings.HasPrefix(data, "inc:"):
		id := strings.TrimPrefix(data, "inc:")
		s.cart.UpdateQuantity(id, s.cart.QuantityMap()[id]+1)
		b.answerCallback(cq, "")
		b.renderCart(chatID, s)

	case strings.HasPrefix(data, "dec:"):
		id := strings.TrimPrefix(data, "dec:")
		s.cart.UpdateQuantity(id, s.cart.QuantityMap()[id]-1)
		b.answerCallback(cq, "")
		b.renderCart(chatID, s)

	case strings.HasPrefix(data, "rm:"):
		s.cart.Remove(strings.TrimPrefix(data, "rm:"))
		b.answerCallback(cq, "Removed")
		b.renderCart(chatID, s)

	case data == "clear":
		s.cart.Clear()
		b.answerCallback(cq, "Cart cleared")
		b.renderCart(chatID, s)

	case data == "search:clear":
		s.setSearch("")
		b.answerCallback(cq, "")
		b.renderMenu(chatID, s)

	case data == "order", data == "retry":
		b.answerCallback(cq, "")
		b.placeOrder(chatID, s)

	case data == "dismiss":
		s.flow.Dismiss()
		b.answerCallback(cq, "")
		b.renderCart(chatID, s)

	case data == "status":
		b.answerCallback(cq, "")
		b.showOrderStatus(chatID, s)

	case data == "cancelorder":
		b.answerCallback(cq, "")
		b.cancelOrder(chatID, s)

	default:
		b.answerCallback(cq, "")
	}
}

// placeOrder drives one submission through the flow and renders the
// resulting state.
func (b *Bot) placeOrder(chatID int64, s *session) {
	if s.cart.IsEmpty() {
		b.renderCart(chatID, s)
		return
	}
	total := s.cart.Total()
	resp, err := s.flow.Submit(context.Background())
	switch {
	case err == nil:
		s.lastOrderID = resp.OrderID
		b.upsertCard(s, chatID, &s.cartMessageID, successText(s, resp, total), successKeyboard())

	case errors.Is(err, order.ErrSubmitInFlight), errors.Is(err, order.ErrOrderPlaced):
		// Double tap; the first submission's outcome will render.

	default:
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			// Structured detail stays in the log; the diner sees the
			// generic banner.
			log.Printf("order validation failed: %v", verr.Violations)
		}
		b.upsertCard(s, chatID, &s.cartMessageID, cartText(s)+"\n\n"+errorText(), errorKeyboard())
	}
}

// onFlowChange runs on flow timer transitions: success auto-clear and
// error banner dismissal.
func (b *Bot) onFlowChange(chatID int64, st order.State) {
	s := b.getSession(chatID)
	if s == nil {
		return
	}
	if st == order.StateIdle {
		b.renderCart(chatID, s)
	}
}

func (b *Bot) showOrderStatus(chatID int64, s *session) {
	if s.lastOrderID == "" {
		b.send(chatID, "No order to check yet.")
		return
	}
	info, err := b.orders.Status(context.Background(), s.lastOrderID)
	if err != nil {
		log.Printf("order status %s: %v", s.lastOrderID, err)
		b.send(chatID, "Couldn't fetch the order status right now.")
		return
	}
	text := fmt.Sprintf("Order #%s: %s", info.OrderID, info.Status)
	if info.EstimatedTime > 0 {
		text += fmt.Sprintf("\n⏱ about %d minutes", info.EstimatedTime)
	}
	b.send(chatID, text)
}

func (b *Bot) cancelOrder(chatID int64, s *session) {
	if s.lastOrderID == "" {
		b.send(chatID, "No order to cancel.")
		return
	}
	if err := b.orders.Cancel(context.Background(), s.lastOrderID); err != nil {
		log.Printf("cancel order %s: %v", s.lastOrderID, err)
		b.send(chatID, "The order can no longer be cancelled — ask the staff.")
		return
	}
	b.send(chatID, "Order cancelled.")
}

func findItem(items []models.MenuItem, id string) (models.MenuItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

func (b *Bot) renderMenu(chatID int64, s *session) {
	kb := menuKeyboard(s)
	b.upsertCard(s, chatID, &s.menuMessageID, menuText(s), kb)
}

func (b *Bot) renderCart(chatID int64, s *session) {
	b.upsertCard(s, chatID, &s.cartMessageID, cartText(s), cartKeyboard(s))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

// upsertCard edits the tracked message in place, falling back to sending
// a new one when the original is gone. "not modified" is ignored. The
// session's msgMu serializes card writers: the flow's timers render from
// their own goroutine.
func (b *Bot) upsertCard(s *session, chatID int64, messageID *int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	s.msgMu.Lock()
	defer s.msgMu.Unlock()
	if *messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, *messageID, text)
		edit.ReplyMarkup = &kb
		_, err := b.api.Send(edit)
		if err == nil {
			return
		}
		errStr := err.Error()
		if strings.Contains(errStr, "not modified") {
			return
		}
		if !strings.Contains(errStr, "not found") {
			log.Printf("edit message %d: %v", *messageID, err)
		}
		// Fall through: send a fresh card.
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send card: %v", err)
		return
	}
	*messageID = sent.MessageID
}

// answerCallback acknowledges the callback; Telegram requires this for
// every callback path.
func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	cb := tgbotapi.NewCallback(cq.ID, text)
	if _, err := b.api.Request(cb); err != nil {
		log.Printf("answer callback: %v", err)
	}
}
