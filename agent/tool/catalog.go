// Package tool exposes the fixed menu of operations the planning model may
// invoke. The tool names, parameter schemas and descriptions below are the
// contract the model relies on when deciding what to call; changing them
// changes the assistant's behavior.
package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	cartx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/cart"
	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

const (
	ToolShowMenuItem       = "show_menu_item"
	ToolAddItemToCart      = "add_item_to_cart"
	ToolRemoveItemFromCart = "remove_item_from_cart"
	ToolUpdateCartQuantity = "update_cart_quantity"
	ToolClearCart          = "clear_cart"
	ToolGetCartSummary     = "get_cart_summary"
	ToolGoToMenu           = "go_to_menu"
	ToolCancelPayment      = "cancel_payment"
	ToolProceedToPayment   = "proceed_to_payment"
	ToolCancelOrder        = "cancel_order"
	ToolModifyOrder        = "modify_order"
)

// Executor runs one named tool and returns the spoken confirmation or
// guidance string fed back to the model. Failures inside a tool are soft:
// they come back as strings, never as errors.
type Executor func(ctx context.Context, tool string, args map[string]any) (string, error)

// Deps are the delegates the dispatch layer composes. It validates nothing
// itself beyond argument shapes.
type Deps struct {
	Cart      *cartx.Engine
	Publisher contractx.EventPublisher
}

// BuildCatalog returns the declared tool menu and a matching executor.
func BuildCatalog(deps Deps) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(deps)
}

func NewExecutor(deps Deps) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (string, error) {
		switch tool {
		case ToolShowMenuItem:
			return showMenuItem(ctx, deps.Publisher, stringArg(args, "item_name")), nil
		case ToolAddItemToCart:
			return deps.Cart.AddItem(ctx, cartx.AddItemParams{
				Name:     stringArg(args, "item_name"),
				Quantity: intArg(args, "quantity", 1),
				Size:     stringArg(args, "size"),
				Price:    floatArg(args, "price"),
				Addons:   stringSliceArg(args, "addons"),
			}), nil
		case ToolRemoveItemFromCart:
			return deps.Cart.RemoveItem(ctx, stringArg(args, "item_name")), nil
		case ToolUpdateCartQuantity:
			return deps.Cart.UpdateQuantity(ctx, stringArg(args, "item_name"), intArg(args, "new_quantity", 0)), nil
		case ToolClearCart:
			return deps.Cart.Clear(ctx), nil
		case ToolGetCartSummary:
			return deps.Cart.Summarize(), nil
		case ToolGoToMenu:
			return goToMenu(ctx, deps.Publisher), nil
		case ToolCancelPayment:
			return cancelPayment(ctx, deps.Publisher), nil
		case ToolProceedToPayment:
			return deps.Cart.ProceedToPayment(ctx), nil
		case ToolCancelOrder:
			return deps.Cart.CancelOrder(ctx, stringArg(args, "order_id")), nil
		case ToolModifyOrder:
			return deps.Cart.ModifyOrder(), nil
		default:
			return fmt.Sprintf("I don't have a %s capability. Let me help you with the menu instead.", tool), nil
		}
	}
}

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolShowMenuItem,
			Desc: "Show a visual representation of a menu item to the customer.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Name of the menu item to display", Required: true},
			}),
		},
		{
			Name: ToolAddItemToCart,
			Desc: "Add an item to the customer's cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Name of the menu item", Required: true},
				"quantity":  {Type: schema.Integer, Desc: "How many to add (default 1)"},
				"size":      {Type: schema.String, Desc: "Size variant, e.g. small/medium/large"},
				"price":     {Type: schema.Number, Desc: "Unit price from the menu context"},
				"addons": {
					Type:     schema.Array,
					Desc:     "Addons for the item, e.g. extra cheese",
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
			}),
		},
		{
			Name: ToolRemoveItemFromCart,
			Desc: "Remove an item from the customer's cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Name of the item to remove", Required: true},
			}),
		},
		{
			Name: ToolUpdateCartQuantity,
			Desc: "Update the quantity of an item in the customer's cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name":    {Type: schema.String, Desc: "Name of the item to update", Required: true},
				"new_quantity": {Type: schema.Integer, Desc: "New quantity, must be at least 1", Required: true},
			}),
		},
		{
			Name: ToolClearCart,
			Desc: "Clear all items from the customer's cart.",
		},
		{
			Name: ToolGetCartSummary,
			Desc: "Get a summary of the current cart contents and total.",
		},
		{
			Name: ToolGoToMenu,
			Desc: "Navigate the customer back to the menu page.",
		},
		{
			Name: ToolCancelPayment,
			Desc: "Cancel the payment process and return to the menu.",
		},
		{
			Name: ToolProceedToPayment,
			Desc: "Proceed to the payment page when the customer confirms their order.",
		},
		{
			Name: ToolCancelOrder,
			Desc: "Cancel a confirmed order if within the cancellation window.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "Identifier of the order to cancel"},
			}),
		},
		{
			Name: ToolModifyOrder,
			Desc: "Modify a confirmed order if within the modification window.",
		},
	}
}
