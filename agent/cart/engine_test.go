package cart

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

type publishedEvent struct {
	kind contractx.EventKind
	data map[string]any
}

type fakePublisher struct {
	ready  bool
	fail   bool
	events []publishedEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{ready: true}
}

func (f *fakePublisher) Ready() bool {
	return f.ready
}

func (f *fakePublisher) Publish(_ context.Context, kind contractx.EventKind, data map[string]any) bool {
	if f.fail {
		return false
	}
	f.events = append(f.events, publishedEvent{kind: kind, data: data})
	return true
}

func TestAddItemAppendsLineAndPublishes(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)

	got := engine.AddItem(context.Background(), AddItemParams{
		Name:     "Margherita",
		Quantity: 2,
		Size:     "large",
		Price:    300,
		Addons:   []string{"extra cheese"},
	})
	if got != "Added 2x Margherita (large) with extra cheese to your cart." {
		t.Fatalf("AddItem() = %q", got)
	}
	if len(engine.Items()) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(engine.Items()))
	}
	if len(pub.events) != 1 || pub.events[0].kind != contractx.EventAddToCart {
		t.Fatalf("unexpected events: %#v", pub.events)
	}
	item, ok := pub.events[0].data["item"].(contractx.CartItem)
	if !ok {
		t.Fatalf("event payload item has type %T", pub.events[0].data["item"])
	}
	if item.Name != "Margherita" || item.Quantity != 2 || item.Price != 300 {
		t.Fatalf("unexpected event item: %#v", item)
	}
}

func TestAddItemNeverDeduplicates(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})

	if len(engine.Items()) != 2 {
		t.Fatalf("expected 2 separate lines, got %d", len(engine.Items()))
	}
}

func TestAddItemInvalidInputNoMutation(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)

	if got := engine.AddItem(context.Background(), AddItemParams{Name: "", Quantity: 1}); !strings.Contains(got, "item name") {
		t.Fatalf("AddItem(empty name) = %q", got)
	}
	if got := engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 0}); !strings.Contains(got, "zero or negative") {
		t.Fatalf("AddItem(zero qty) = %q", got)
	}
	if got := engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: -3}); !strings.Contains(got, "zero or negative") {
		t.Fatalf("AddItem(negative qty) = %q", got)
	}

	if len(engine.Items()) != 0 {
		t.Fatalf("cart must stay empty, got %d lines", len(engine.Items()))
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected, got %#v", pub.events)
	}
}

func TestAddItemRollsBackOnPublishFailure(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	pub.fail = true
	engine := NewEngine(pub)

	got := engine.AddItem(context.Background(), AddItemParams{Name: "Margherita", Quantity: 1, Price: 300})
	if !strings.Contains(got, "try again") {
		t.Fatalf("AddItem() = %q, want retry suggestion", got)
	}
	if len(engine.Items()) != 0 {
		t.Fatalf("cart length must be unchanged after rollback, got %d", len(engine.Items()))
	}
}

func TestAddItemChannelUnavailable(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	pub.ready = false
	engine := NewEngine(pub)

	got := engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1})
	if !strings.Contains(got, "try again") {
		t.Fatalf("AddItem() = %q", got)
	}
	if len(engine.Items()) != 0 {
		t.Fatalf("no mutation expected without a channel, got %d lines", len(engine.Items()))
	}
}

func TestRemoveItemDeletesAllMatchingLines(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	engine.AddItem(context.Background(), AddItemParams{Name: "Margherita", Quantity: 1, Price: 300})
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 2, Price: 60})

	got := engine.RemoveItem(context.Background(), "Coke")
	if got != "Removed Coke from your cart." {
		t.Fatalf("RemoveItem() = %q", got)
	}
	items := engine.Items()
	if len(items) != 1 || items[0].Name != "Margherita" {
		t.Fatalf("unexpected remaining items: %#v", items)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})

	first := engine.RemoveItem(context.Background(), "Coke")
	second := engine.RemoveItem(context.Background(), "Coke")
	if first != second {
		t.Fatalf("second removal reply changed: %q vs %q", first, second)
	}
	if len(engine.Items()) != 0 {
		t.Fatalf("cart must stay empty, got %d", len(engine.Items()))
	}

	// Both calls publish: the event is sent regardless of a match.
	removeEvents := 0
	for _, ev := range pub.events {
		if ev.kind == contractx.EventRemoveFromCart {
			removeEvents++
		}
	}
	if removeEvents != 2 {
		t.Fatalf("expected 2 remove events, got %d", removeEvents)
	}
}

func TestRemoveItemIsCaseSensitive(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})

	engine.RemoveItem(context.Background(), "coke")
	if len(engine.Items()) != 1 {
		t.Fatal("exact-match removal must not touch differently-cased lines")
	}
}

func TestUpdateQuantityFirstMatchOnly(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})

	got := engine.UpdateQuantity(context.Background(), "Coke", 3)
	if got != "Updated Coke quantity to 3." {
		t.Fatalf("UpdateQuantity() = %q", got)
	}
	items := engine.Items()
	if items[0].Quantity != 3 || items[1].Quantity != 1 {
		t.Fatalf("only the first matching line must change: %#v", items)
	}

	last := pub.events[len(pub.events)-1]
	if last.kind != contractx.EventUpdateCart {
		t.Fatalf("last event = %s, want update_cart", last.kind)
	}
	snapshot, ok := last.data["items"].([]contractx.CartItem)
	if !ok || len(snapshot) != 2 {
		t.Fatalf("update_cart must carry the full cart snapshot: %#v", last.data)
	}
}

func TestUpdateQuantityNotFound(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	before := len(pub.events)

	got := engine.UpdateQuantity(context.Background(), "Pepsi", 2)
	if !strings.Contains(got, "couldn't find Pepsi") {
		t.Fatalf("UpdateQuantity() = %q", got)
	}
	if len(engine.Items()) != 1 {
		t.Fatalf("cart length must be unchanged, got %d", len(engine.Items()))
	}
	if len(pub.events) != before {
		t.Fatal("no event expected for a missing item")
	}
}

func TestUpdateQuantityZeroSuggestsRemoval(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 2, Price: 60})

	got := engine.UpdateQuantity(context.Background(), "Coke", 0)
	if !strings.Contains(got, "remove the item") {
		t.Fatalf("UpdateQuantity(0) = %q", got)
	}
	if engine.Items()[0].Quantity != 2 {
		t.Fatal("quantity must be unchanged")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})

	got := engine.Clear(context.Background())
	if !strings.Contains(got, "cleared your cart") {
		t.Fatalf("Clear() = %q", got)
	}
	if len(engine.Items()) != 0 {
		t.Fatal("cart must be empty after Clear")
	}
	last := pub.events[len(pub.events)-1]
	if last.kind != contractx.EventClearCart || len(last.data) != 0 {
		t.Fatalf("unexpected clear event: %#v", last)
	}
}

func TestSummarizeComputesTotalsFresh(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	engine.AddItem(context.Background(), AddItemParams{Name: "Margherita", Quantity: 2, Price: 300})

	got := engine.Summarize()
	for _, want := range []string{
		"- 2x Margherita: ₹600",
		"Subtotal: ₹600",
		"GST (5%): ₹30",
		"Total: ₹630",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Summarize() missing %q:\n%s", want, got)
		}
	}

	// Changing the cart changes the totals on the next read.
	engine.UpdateQuantity(context.Background(), "Margherita", 1)
	got = engine.Summarize()
	if !strings.Contains(got, "Total: ₹315") {
		t.Fatalf("Summarize() after update:\n%s", got)
	}
}

func TestSummarizeEmptyCart(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	if got := engine.Summarize(); got != "Your cart is empty. What would you like to order?" {
		t.Fatalf("Summarize() = %q", got)
	}
}

func TestAddThenRemoveLeavesEmptyCart(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newFakePublisher())
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	engine.RemoveItem(context.Background(), "Coke")

	if got := engine.Summarize(); !strings.Contains(got, "cart is empty") {
		t.Fatalf("Summarize() = %q", got)
	}
}

func TestProceedToPaymentEmptyCartPublishesNothing(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)

	got := engine.ProceedToPayment(context.Background())
	if !strings.Contains(got, "haven't ordered anything yet") {
		t.Fatalf("ProceedToPayment() = %q", got)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected, got %#v", pub.events)
	}
}

func TestProceedToPaymentPublishesOnceWithTotal(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Margherita", Quantity: 2, Price: 300})

	got := engine.ProceedToPayment(context.Background())
	if !strings.Contains(got, "₹630") {
		t.Fatalf("ProceedToPayment() = %q, want total ₹630", got)
	}

	navEvents := 0
	for _, ev := range pub.events {
		if ev.kind == contractx.EventNavigateToPayment {
			navEvents++
			if len(ev.data) != 0 {
				t.Fatalf("navigate_to_payment must have an empty payload: %#v", ev.data)
			}
		}
	}
	if navEvents != 1 {
		t.Fatalf("expected exactly 1 navigate_to_payment event, got %d", navEvents)
	}

	// The cart is not cleared or frozen by payment navigation.
	if len(engine.Items()) != 1 {
		t.Fatalf("cart must survive payment navigation, got %d lines", len(engine.Items()))
	}
}

func TestCancelOrderCarriesOrderID(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)

	got := engine.CancelOrder(context.Background(), "ord-42")
	if !strings.Contains(got, "cancelled your order") {
		t.Fatalf("CancelOrder() = %q", got)
	}
	last := pub.events[len(pub.events)-1]
	if last.kind != contractx.EventCancelOrder || last.data["orderId"] != "ord-42" {
		t.Fatalf("unexpected cancel event: %#v", last)
	}

	got = engine.CancelOrder(context.Background(), "")
	if !strings.Contains(got, "cancelled your order") {
		t.Fatalf("CancelOrder(no id) = %q", got)
	}
	last = pub.events[len(pub.events)-1]
	if _, present := last.data["orderId"]; present {
		t.Fatalf("orderId must be omitted when absent: %#v", last.data)
	}
}

func TestModifyOrderIsAdvisoryOnly(t *testing.T) {
	t.Parallel()

	pub := newFakePublisher()
	engine := NewEngine(pub)
	engine.AddItem(context.Background(), AddItemParams{Name: "Coke", Quantity: 1, Price: 60})
	before := len(pub.events)

	got := engine.ModifyOrder()
	if !strings.Contains(got, "5 minutes") {
		t.Fatalf("ModifyOrder() = %q", got)
	}
	if len(pub.events) != before {
		t.Fatal("ModifyOrder must not publish")
	}
	if len(engine.Items()) != 1 {
		t.Fatal("ModifyOrder must not mutate the cart")
	}
}
