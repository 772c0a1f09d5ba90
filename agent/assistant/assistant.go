// Package assistant runs one voice-ordering conversation: per completed user
// turn it injects retrieved menu context, lets the model reply or call a
// tool, executes tool calls against the cart and UI channel, and returns the
// spoken reply. Speech-to-text, text-to-speech and turn detection live in the
// external voice runtime; this package starts from finished utterance text.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
	promptx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/prompt"
	retrievalx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/retrieval"
	toolx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/tool"
)

const contextMessagePrefix = "Menu and rules context relevant to the user's query:"

// Assistant is one session's conversation driver. It owns the working
// message history and must only be used by a single goroutine: turns are
// strictly sequential.
type Assistant struct {
	model    einomodel.ToolCallingChatModel
	injector *retrievalx.Injector
	executor toolx.Executor

	turnRunner compose.Runnable[contractx.TurnInput, contractx.TurnOutput]

	sessionID string
	greeting  string
	history   []*schema.Message
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	injector *retrievalx.Injector,
	executor toolx.Executor,
	sessionID string,
) (*Assistant, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrModelInvoke)
	}
	if executor == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrInvalidInput)
	}

	prompts := promptx.LoadPromptSet()

	toolModel, err := chatModel.WithTools(toolx.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	a := &Assistant{
		model:     toolModel,
		injector:  injector,
		executor:  executor,
		sessionID: strings.TrimSpace(sessionID),
		greeting:  prompts.Greeting,
		history:   []*schema.Message{schema.SystemMessage(prompts.Assistant)},
	}

	turnRunner, err := a.compileTurnGraph(ctx)
	if err != nil {
		return nil, err
	}
	a.turnRunner = turnRunner

	return a, nil
}

// Greeting is the fixed opener spoken when the session starts.
func (a *Assistant) Greeting() string {
	return a.greeting
}

// HandleTurn processes one completed user utterance and returns the reply to
// speak.
func (a *Assistant) HandleTurn(ctx context.Context, text string) (string, error) {
	out, err := a.turnRunner.Invoke(ctx, contractx.TurnInput{
		SessionID: a.sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// injectContext appends the retrieved menu/rules context as an
// assistant-authored message so the model sees it without attributing it to
// the user, then appends the user's utterance.
func (a *Assistant) injectContext(ctx context.Context, text string) {
	if contextText := a.injector.OnUserTurn(ctx, text); contextText != "" {
		a.history = append(a.history, schema.AssistantMessage(contextMessagePrefix+"\n"+contextText, nil))
	}
	a.history = append(a.history, schema.UserMessage(text))
}

func (a *Assistant) planReply(ctx context.Context) (*schema.Message, error) {
	msg, err := a.model.Generate(ctx, a.history)
	if err != nil {
		return nil, fmt.Errorf("%w: generate reply: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

// executeToolCalls runs the planned tool calls, feeds the confirmation
// strings back to the model, and returns the follow-up spoken reply.
func (a *Assistant) executeToolCalls(ctx context.Context, planned *schema.Message) (string, error) {
	a.history = append(a.history, planned)

	for _, call := range planned.ToolCalls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return "", fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return "", fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		output, err := a.executor(ctx, name, args)
		if err != nil {
			return "", fmt.Errorf("%w: execute tool=%s: %v", contractx.ErrModelInvoke, name, err)
		}
		log.Debug().Str("session_id", a.sessionID).Str("tool", name).Msg("tool executed")

		a.history = append(a.history, schema.ToolMessage(output, call.ID))
	}

	final, err := a.model.Generate(ctx, a.history)
	if err != nil {
		return "", fmt.Errorf("%w: generate after tools: %v", contractx.ErrModelInvoke, err)
	}
	reply := strings.TrimSpace(final.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply after tool execution", contractx.ErrSchemaViolation)
	}
	a.history = append(a.history, final)
	return reply, nil
}

func (a *Assistant) directReply(planned *schema.Message) (string, error) {
	reply := strings.TrimSpace(planned.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: assistant reply is empty", contractx.ErrSchemaViolation)
	}
	a.history = append(a.history, planned)
	return reply, nil
}
