package contract

// CartItem is one line of the customer's cart. The cart never deduplicates:
// adding the same item twice yields two lines.
type CartItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
	Size     string   `json:"size,omitempty"`
	Addons   []string `json:"addons"`
}

// EventKind identifies an outbound UI notification.
type EventKind string

const (
	EventAddToCart         EventKind = "add_to_cart"
	EventRemoveFromCart    EventKind = "remove_from_cart"
	EventUpdateCart        EventKind = "update_cart"
	EventClearCart         EventKind = "clear_cart"
	EventShowItem          EventKind = "show_item"
	EventNavigateToMenu    EventKind = "navigate_to_menu"
	EventCancelPayment     EventKind = "cancel_payment"
	EventNavigateToPayment EventKind = "navigate_to_payment"
	EventCancelOrder       EventKind = "cancel_order"
)

// Event is the wire shape consumed by the frontend: the kind is flattened
// into the payload as a top-level "type" field before sending.
type Event struct {
	Kind EventKind      `json:"type"`
	Data map[string]any `json:"-"`
}

// TurnInput is one completed user utterance handed to the assistant.
type TurnInput struct {
	SessionID string
	Text      string
}

// TurnOutput is the assistant's spoken reply for one turn.
type TurnOutput struct {
	Reply string
}
