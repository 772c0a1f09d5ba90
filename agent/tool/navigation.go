package tool

import (
	"context"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

func goToMenu(ctx context.Context, publisher contractx.EventPublisher) string {
	if !publisher.Ready() {
		return "I'm having trouble processing your request right now. Please try again."
	}
	if !publisher.Publish(ctx, contractx.EventNavigateToMenu, map[string]any{}) {
		return "I'm having trouble navigating right now. Please try again."
	}
	return "Taking you back to the menu now."
}

func cancelPayment(ctx context.Context, publisher contractx.EventPublisher) string {
	if !publisher.Ready() {
		return "I'm having trouble processing your request right now. Please try again."
	}
	if !publisher.Publish(ctx, contractx.EventCancelPayment, map[string]any{}) {
		return "I'm having trouble cancelling payment right now. Please try again."
	}
	return "Payment cancelled. Taking you back to the menu."
}
