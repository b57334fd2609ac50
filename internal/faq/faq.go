// Package faq is the static question/answer lookup shown from the main
// menu. It carries no state and is external to the ticket core.
package faq

// Entry is a single FAQ item.
type Entry struct {
	ID       string
	Question string
	Answer   string
}

var entries = []Entry{
	{"order", "How do I place an order?",
		"Pick a product, add it to the cart, open the cart and check out."},
	{"status", "How do I check my order status?",
		"Sign in to your account and open \"My orders\"; the current status is shown in the list."},
	{"cancel", "How do I cancel an order?",
		"Contact support as soon as possible, before the order ships."},
	{"damage", "What should I do if the product arrived damaged?",
		"Contact support with photos of the damage and we will arrange an exchange or refund."},
	{"contact", "How do I reach support?",
		"Through this chat or the phone number listed on the website."},
	{"delivery", "Delivery information",
		"Available methods and terms are listed on the checkout page."},
}

// Entries returns the FAQ list in display order.
func Entries() []Entry {
	return entries
}

// Lookup returns the entry with the given id.
func Lookup(id string) (Entry, bool) {
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}
