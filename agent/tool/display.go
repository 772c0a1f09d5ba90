package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
	menux "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/menu"
)

func showMenuItem(ctx context.Context, publisher contractx.EventPublisher, itemName string) string {
	if itemName == "" {
		return "I need to know which item you'd like to see. Could you tell me the item name?"
	}

	imagePath, ok := menux.ImagePath(itemName)
	if !ok {
		return fmt.Sprintf("I don't have an image available for %s. Let me describe it to you instead.", itemName)
	}

	if !publisher.Ready() {
		return fmt.Sprintf("I found %s, but I'm having trouble displaying it right now.", itemName)
	}

	sent := publisher.Publish(ctx, contractx.EventShowItem, map[string]any{
		"imagePath": imagePath,
		"itemName":  itemName,
	})
	if !sent {
		return fmt.Sprintf("I found %s, but I'm having trouble displaying it right now.", itemName)
	}
	return fmt.Sprintf("You can view the %s on your left.", itemName)
}
