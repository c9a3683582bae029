package bot

import (
	"sync"

	"qrmenu-telegram/cart"
	"qrmenu-telegram/menu"
	"qrmenu-telegram/models"
	"qrmenu-telegram/order"
	"qrmenu-telegram/pager"
)

// session is one table's view of one restaurant, created when the diner
// opens the bot through a table QR deep link. The cart lives only as long
// as the session; starting over loses it, by design.
type session struct {
	restaurantID string
	table        string

	restaurant *models.Restaurant
	items      []models.MenuItem
	categories []string
	notFound   bool

	activeCategory string
	searchTerm     string

	cart     *cart.Cart
	flow     *order.Flow
	pager    *pager.Pager
	sentinel *pager.Sentinel

	// Server-issued id of the last successful order, kept past the flow
	// reset so status/cancel stay reachable.
	lastOrderID string

	// msgMu guards the card message ids: flow timers re-render the cart
	// from their own goroutine, concurrently with the update loop.
	msgMu         sync.Mutex
	menuMessageID int // menu card edited in place; 0 = none sent yet
	cartMessageID int
}

func newSession(restaurantID, table string, orders *order.Client) *session {
	c := cart.New()
	p := pager.New(pager.PageSize)
	return &session{
		restaurantID:   restaurantID,
		table:          table,
		activeCategory: models.CategoryAll,
		cart:           c,
		flow:           order.NewFlow(orders, c, restaurantID, table),
		pager:          p,
		sentinel:       pager.NewSentinel(p),
	}
}

// filtered applies the category-then-search pipeline over the catalog.
func (s *session) filtered() []models.MenuItem {
	return menu.Filter(s.items, s.activeCategory, s.searchTerm)
}

// visible returns the pager-limited prefix of the filtered sequence.
func (s *session) visible() []models.MenuItem {
	items := s.filtered()
	return items[:s.pager.VisibleCount()]
}

// setCatalog installs fetched data and points the pager at it.
func (s *session) setCatalog(r *models.Restaurant, items []models.MenuItem, categories []string) {
	s.restaurant = r
	s.notFound = r == nil
	s.items = items
	s.categories = categories
	s.sentinel.Reset(len(s.filtered()))
}

// setCategory switches the active tab. Changing category clears any
// active search term and resets pagination.
func (s *session) setCategory(category string) {
	s.activeCategory = category
	s.searchTerm = ""
	s.sentinel.Reset(len(s.filtered()))
}

// setSearch installs a new search term and resets pagination.
func (s *session) setSearch(term string) {
	s.searchTerm = term
	s.sentinel.Reset(len(s.filtered()))
}

// more is one visibility crossing of the list-end sentinel. Returns true
// when a new page was revealed.
func (s *session) more() bool {
	advanced := s.sentinel.SetVisible(true)
	return advanced
}

// settle re-arms the sentinel once the revealed page has been rendered.
func (s *session) settle() {
	s.sentinel.Settle()
}

// teardown cancels pending flow timers so a stale timer cannot touch a
// replaced session.
func (s *session) teardown() {
	s.flow.Stop()
}
