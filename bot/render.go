package bot

import (
	"fmt"
	"strings"

	"qrmenu-telegram/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func itemMarkers(it models.MenuItem) string {
	var m string
	if it.IsPopular {
		m += " ⭐"
	}
	if it.IsVegetarian {
		m += " 🌱"
	}
	return m
}

// menuText renders the header and the visible prefix of the filtered
// catalog, one numbered line per item.
func menuText(s *session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s — Table %s\n", s.restaurant.Logo, s.restaurant.Name, s.table)

	filtered := s.filtered()
	visible := s.visible()
	if s.searchTerm != "" {
		fmt.Fprintf(&sb, "Showing %d of %d results for \"%s\"\n", len(visible), len(filtered), s.searchTerm)
	} else {
		fmt.Fprintf(&sb, "Showing %d of %d items (%s)\n", len(visible), len(filtered), s.activeCategory)
	}
	sb.WriteString("\n")

	if len(visible) == 0 {
		sb.WriteString("Nothing here. Try another category or search.\n")
		return sb.String()
	}

	quantities := s.cart.QuantityMap()
	for i, it := range visible {
		fmt.Fprintf(&sb, "%d. %s%s — %s", i+1, it.Name, itemMarkers(it), formatPrice(it.Price))
		if q := quantities[it.ID]; q > 0 {
			fmt.Fprintf(&sb, " ×%d", q)
		}
		sb.WriteString("\n")
	}
	if !s.pager.HasMore() {
		fmt.Fprintf(&sb, "\nYou've reached the end • %d items total\n", len(filtered))
	}
	return sb.String()
}

// menuKeyboard builds category tabs, per-item add buttons and the
// navigation row.
func menuKeyboard(s *session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	// Category tabs, three per row, active one marked.
	var catRow []tgbotapi.InlineKeyboardButton
	for _, cat := range s.categories {
		label := cat
		if cat == s.activeCategory {
			label = "• " + cat
		}
		catRow = append(catRow, tgbotapi.NewInlineKeyboardButtonData(label, "cat:"+cat))
		if len(catRow) == 3 {
			rows = append(rows, catRow)
			catRow = nil
		}
	}
	if len(catRow) > 0 {
		rows = append(rows, catRow)
	}

	// Numbered add buttons for the visible items, five per row.
	var addRow []tgbotapi.InlineKeyboardButton
	for i, it := range s.visible() {
		addRow = append(addRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("➕%d", i+1), "add:"+it.ID))
		if len(addRow) == 5 {
			rows = append(rows, addRow)
			addRow = nil
		}
	}
	if len(addRow) > 0 {
		rows = append(rows, addRow)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if s.pager.HasMore() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬇️ More", "more"))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("🛒 Cart (%d)", s.cart.ItemCount()), "cart"))
	rows = append(rows, nav)

	if s.searchTerm != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Clear search", "search:clear")))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cartText(s *session) string {
	entries := s.cart.Items()
	if len(entries) == 0 {
		return "🛒 Your cart is empty.\nAdd some items to get started."
	}
	var sb strings.Builder
	sb.WriteString("🛒 Your order\n\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s — %s ×%d = %s\n",
			i+1, e.Item.Name, formatPrice(e.Item.Price), e.Quantity,
			formatPrice(e.Item.Price*float64(e.Quantity)))
	}
	fmt.Fprintf(&sb, "\nTotal: %s", formatPrice(s.cart.Total()))
	return sb.String()
}

func cartKeyboard(s *session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, e := range s.cart.Items() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➖ %d", i+1), "dec:"+e.Item.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ %d", i+1), "inc:"+e.Item.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), "rm:"+e.Item.ID),
		))
	}
	if !s.cart.IsEmpty() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Place order", "order"),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", "clear"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to menu", "menu")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func successText(s *session, resp *models.OrderResponse, total float64) string {
	var sb strings.Builder
	sb.WriteString("✅ Order placed successfully!\nYour order has been sent to the kitchen.\n\n")
	if resp.OrderID != "" {
		fmt.Fprintf(&sb, "Order ID: #%s\n", resp.OrderID)
	}
	fmt.Fprintf(&sb, "Table %s • %s\n", s.table, s.restaurant.Name)
	fmt.Fprintf(&sb, "Total: %s\n", formatPrice(total))
	if resp.EstimatedTime > 0 {
		fmt.Fprintf(&sb, "\n⏱ Estimated time: %d minutes", resp.EstimatedTime)
	}
	return sb.String()
}

func successKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Order status", "status"),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Cancel order", "cancelorder"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to menu", "menu")),
	)
}

func errorText() string {
	return "⚠️ Order failed.\nPlease try again or contact staff."
}

func errorKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry order", "retry"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "dismiss"),
		),
	)
}

func notFoundText() string {
	return "🤔 Restaurant not found.\nThe restaurant you're looking for doesn't exist."
}

func landingText(botName string) string {
	var sb strings.Builder
	sb.WriteString("📱 QR Menu\n\n")
	sb.WriteString("Scan the QR code on your table to view the menu and place your order.\n\n")
	sb.WriteString("Demo links:\n")
	fmt.Fprintf(&sb, "🍝 Bella Vista — Table 4: https://t.me/%s?start=resto1_4\n", botName)
	fmt.Fprintf(&sb, "🥘 Golden Spoon — Table 7: https://t.me/%s?start=resto2_7\n", botName)
	return sb.String()
}
