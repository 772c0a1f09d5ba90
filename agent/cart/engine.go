package cart

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

// GSTRate is the tax applied on top of the subtotal. Amounts are in rupees
// and rendered without sub-unit digits.
const GSTRate = 0.05

const (
	msgChannelTrouble = "I'm having trouble processing your order right now. Please try again."
	msgEmptyCart      = "Your cart is empty. What would you like to order?"
)

// Engine owns the server-side cart for one conversation session. The cart is
// advisory: the frontend remains the source of truth for the final order, the
// engine validates tool calls and keeps the UI synchronized through events.
//
// The engine is not safe for concurrent use; each session has exactly one
// writer (turns are processed in order).
type Engine struct {
	items     []contractx.CartItem
	publisher contractx.EventPublisher
}

// AddItemParams are the optional fields of an add_item_to_cart call with
// their defaults already documented: Quantity defaults to 1 at the dispatch
// layer, Price to 0 when the model did not supply one.
type AddItemParams struct {
	Name     string
	Quantity int
	Size     string
	Price    float64
	Addons   []string
}

func NewEngine(publisher contractx.EventPublisher) *Engine {
	return &Engine{publisher: publisher}
}

// Items returns a snapshot of the cart lines.
func (e *Engine) Items() []contractx.CartItem {
	out := make([]contractx.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// AddItem appends a new cart line and notifies the UI. If the event cannot be
// delivered the line is rolled back so cart and UI never diverge.
func (e *Engine) AddItem(ctx context.Context, p AddItemParams) string {
	if p.Name == "" {
		return "I need to know which item you'd like to add. Could you tell me the item name?"
	}
	if p.Quantity <= 0 {
		return "I can't add zero or negative items. Please tell me how many you'd like."
	}
	if !e.publisher.Ready() {
		return msgChannelTrouble
	}

	addons := p.Addons
	if addons == nil {
		addons = []string{}
	}
	item := contractx.CartItem{
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
		Size:     p.Size,
		Addons:   addons,
	}
	e.items = append(e.items, item)

	ok := e.publisher.Publish(ctx, contractx.EventAddToCart, map[string]any{
		"item": item,
	})
	if !ok {
		e.items = e.items[:len(e.items)-1]
		return "I'm having trouble adding that to your cart. Please try again."
	}

	sizeText := ""
	if p.Size != "" {
		sizeText = fmt.Sprintf(" (%s)", p.Size)
	}
	addonsText := ""
	if len(addons) > 0 {
		addonsText = " with " + strings.Join(addons, ", ")
	}
	quantityText := ""
	if p.Quantity > 1 {
		quantityText = fmt.Sprintf("%dx ", p.Quantity)
	}
	return fmt.Sprintf("Added %s%s%s%s to your cart.", quantityText, p.Name, sizeText, addonsText)
}

// RemoveItem deletes every line whose name matches exactly, then notifies the
// UI. The remove event is sent even when nothing matched, which keeps the call
// idempotent from the caller's view. Removal is already committed when the
// event goes out, so a failed publish is only apologized for.
func (e *Engine) RemoveItem(ctx context.Context, name string) string {
	if name == "" {
		return "I need to know which item you'd like to remove. Could you tell me the item name?"
	}
	if !e.publisher.Ready() {
		return msgChannelTrouble
	}

	kept := e.items[:0]
	for _, item := range e.items {
		if item.Name != name {
			kept = append(kept, item)
		}
	}
	e.items = kept

	ok := e.publisher.Publish(ctx, contractx.EventRemoveFromCart, map[string]any{
		"itemName": name,
	})
	if !ok {
		return "I'm having trouble removing that item. Please try again."
	}
	return fmt.Sprintf("Removed %s from your cart.", name)
}

// UpdateQuantity changes the quantity of the first matching line and sends
// the whole cart snapshot to the UI, not just the delta.
func (e *Engine) UpdateQuantity(ctx context.Context, name string, newQuantity int) string {
	if name == "" {
		return "I need to know which item you'd like to update. Could you tell me the item name?"
	}
	if newQuantity <= 0 {
		return "Quantity must be at least 1. If you want to remove the item, I can do that instead."
	}
	if !e.publisher.Ready() {
		return msgChannelTrouble
	}

	updated := false
	for i := range e.items {
		if e.items[i].Name == name {
			e.items[i].Quantity = newQuantity
			updated = true
			break
		}
	}
	if !updated {
		return fmt.Sprintf("I couldn't find %s in your cart. Would you like to add it?", name)
	}

	ok := e.publisher.Publish(ctx, contractx.EventUpdateCart, map[string]any{
		"items": e.Items(),
	})
	if !ok {
		return "I'm having trouble updating the quantity. Please try again."
	}
	return fmt.Sprintf("Updated %s quantity to %d.", name, newQuantity)
}

// Clear unconditionally empties the cart.
func (e *Engine) Clear(ctx context.Context) string {
	if !e.publisher.Ready() {
		return msgChannelTrouble
	}

	e.items = nil

	ok := e.publisher.Publish(ctx, contractx.EventClearCart, map[string]any{})
	if !ok {
		return "I'm having trouble clearing your cart. Please try again."
	}
	return "I've cleared your cart. What would you like to order?"
}

// Summarize renders the cart line by line with subtotal, GST and total.
// Totals are computed fresh on every call.
func (e *Engine) Summarize() string {
	if len(e.items) == 0 {
		return msgEmptyCart
	}

	subtotal, gst, total := e.totals()

	lines := []string{"Here's what's in your cart:"}
	for _, item := range e.items {
		sizeText := ""
		if item.Size != "" {
			sizeText = fmt.Sprintf(" (%s)", item.Size)
		}
		addonsText := ""
		if len(item.Addons) > 0 {
			addonsText = " with " + strings.Join(item.Addons, ", ")
		}
		itemTotal := item.Price * float64(item.Quantity)
		lines = append(lines, fmt.Sprintf("- %dx %s%s%s: ₹%.0f", item.Quantity, item.Name, sizeText, addonsText, itemTotal))
	}
	lines = append(lines,
		fmt.Sprintf("\nSubtotal: ₹%.0f", subtotal),
		fmt.Sprintf("GST (5%%): ₹%.0f", gst),
		fmt.Sprintf("Total: ₹%.0f", total),
	)
	return strings.Join(lines, "\n")
}

// ProceedToPayment navigates the UI to the payment page after confirming the
// cart is non-empty. The cart is neither cleared nor frozen here; the "order
// placed" transition belongs to the frontend.
func (e *Engine) ProceedToPayment(ctx context.Context) string {
	if len(e.items) == 0 {
		return "You haven't ordered anything yet. What can I get started for you?"
	}
	if !e.publisher.Ready() {
		return msgChannelTrouble
	}

	_, _, total := e.totals()

	ok := e.publisher.Publish(ctx, contractx.EventNavigateToPayment, map[string]any{})
	if !ok {
		return msgChannelTrouble
	}
	return fmt.Sprintf("Perfect! Your order total is ₹%.0f (including GST). I'm taking you to the payment page now.", total)
}

// CancelOrder forwards a cancellation to the frontend. No time-window check
// is enforced server-side; the frontend validates against the order timestamp
// it holds.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) string {
	if !e.publisher.Ready() {
		return "I'm having trouble processing your request right now. Please try again."
	}

	data := map[string]any{}
	if orderID != "" {
		data["orderId"] = orderID
	}
	ok := e.publisher.Publish(ctx, contractx.EventCancelOrder, data)
	if !ok {
		return "I'm having trouble cancelling your order. Please contact the restaurant directly."
	}
	return "I've cancelled your order. If you'd like to place a new order, just let me know!"
}

// ModifyOrder is advisory only: all real modification logic lives in the
// frontend together with the 5-minute window policy restated here.
func (e *Engine) ModifyOrder() string {
	return "I can help you modify your order if it's within 5 minutes of placement. What would you like to change? If it's been longer, please contact the restaurant directly as preparation may have started."
}

func (e *Engine) totals() (subtotal, gst, total float64) {
	for _, item := range e.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	gst = subtotal * GSTRate
	total = subtotal + gst
	return subtotal, gst, total
}
