package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

type turnState struct {
	Text    string
	Planned *schema.Message
}

func (a *Assistant) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[contractx.TurnInput, contractx.TurnOutput], error) {
	graph := compose.NewGraph[contractx.TurnInput, contractx.TurnOutput]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in contractx.TurnInput) (*turnState, error) {
			text := strings.TrimSpace(in.Text)
			if text == "" {
				return nil, fmt.Errorf("%w: user utterance is empty", contractx.ErrInvalidInput)
			}
			return &turnState{Text: text}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("inject_context",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			a.injectContext(ctx, in.Text)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node inject_context: %w", err)
	}

	if err := graph.AddLambdaNode("plan_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			planned, err := a.planReply(ctx)
			if err != nil {
				return nil, err
			}
			in.Planned = planned
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_reply: %w", err)
	}

	if err := graph.AddLambdaNode("tool_path",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (contractx.TurnOutput, error) {
			reply, err := a.executeToolCalls(ctx, in.Planned)
			if err != nil {
				return contractx.TurnOutput{}, err
			}
			return contractx.TurnOutput{Reply: reply}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node tool_path: %w", err)
	}

	if err := graph.AddLambdaNode("reply_path",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (contractx.TurnOutput, error) {
			reply, err := a.directReply(in.Planned)
			if err != nil {
				return contractx.TurnOutput{}, err
			}
			return contractx.TurnOutput{Reply: reply}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reply_path: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *turnState) (string, error) {
			if in == nil || in.Planned == nil {
				return "", fmt.Errorf("%w: turn state is nil", contractx.ErrSchemaViolation)
			}
			if len(in.Planned.ToolCalls) > 0 {
				return "tool_path", nil
			}
			return "reply_path", nil
		},
		map[string]bool{
			"tool_path":  true,
			"reply_path": true,
		},
	)

	if err := graph.AddBranch("plan_reply", branch); err != nil {
		return nil, fmt.Errorf("add turn branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"validate_turn", "inject_context"},
		{"inject_context", "plan_reply"},
		{"tool_path", compose.END},
		{"reply_path", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.turn_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
