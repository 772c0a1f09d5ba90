// Voice ordering agent for The Pizzeria, Delhi. Wires the chat model, menu
// retrieval, cart, and the LiveKit UI channel, then drives one conversation
// over stdin/stdout. The voice runtime in front of this process handles
// speech-to-text and text-to-speech; each stdin line is one completed user
// utterance.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	assistantx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/assistant"
	cartx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/cart"
	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
	llmx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/llm"
	retrievalx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/retrieval"
	toolx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/tool"
	configx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/config"
	livekitx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/livekit"
	_ "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/logger/autoload"
)

func main() {
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	publisher := connectPublisher()
	defer publisher.Close()

	retriever := loadRetriever(ctx, *llmCfg)

	routerCfg := llmCfg.OpenRouterForAssistant()
	chatModel, err := routerCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	engine := cartx.NewEngine(publisher)
	executor := toolx.NewExecutor(toolx.Deps{Cart: engine, Publisher: publisher})

	sessionID := uuid.NewString()
	assistant, err := assistantx.New(ctx, chatModel, retrievalx.NewInjector(retriever), executor, sessionID)
	if err != nil {
		log.Fatal().Err(err).Msg("create assistant")
	}

	log.Info().Str("session_id", sessionID).Msg("session started")
	fmt.Println(assistant.Greeting())

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, err := assistant.HandleTurn(ctx, text)
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
			fmt.Println("Sorry, I didn't catch that. Could you say it again?")
			continue
		}
		fmt.Println(reply)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}

// connectPublisher joins the LiveKit room. The conversation still works when
// the room is unreachable; UI events are dropped and the assistant tells the
// customer the display is unavailable.
func connectPublisher() *livekitx.RoomPublisher {
	lkCfg, err := configx.New[livekitx.Config]("LIVEKIT")
	if err != nil {
		log.Warn().Err(err).Msg("livekit config missing, UI events disabled")
		return livekitx.NewRoomPublisher(nil, "")
	}

	publisher, err := livekitx.Connect(*lkCfg)
	if err != nil {
		log.Warn().Err(err).Msg("livekit connect failed, UI events disabled")
		return livekitx.NewRoomPublisher(nil, lkCfg.Topic)
	}
	return publisher
}

// loadRetriever loads the embedded menu corpus. A missing corpus degrades to
// no retriever; the assistant then answers with the no-menu-data notice
// instead of failing the session.
func loadRetriever(ctx context.Context, llmCfg llmx.Config) contractx.Retriever {
	storeCfg, err := configx.New[retrievalx.StoreConfig]("POSTGRES")
	if err != nil {
		log.Warn().Err(err).Msg("postgres config missing, retrieval disabled")
		return nil
	}

	store, err := retrievalx.NewBunStore(*storeCfg)
	if err != nil {
		log.Warn().Err(err).Msg("open chunk store failed, retrieval disabled")
		return nil
	}

	embedder, err := retrievalx.NewOpenAIEmbedder(llmCfg.EmbedderConfig())
	if err != nil {
		log.Warn().Err(err).Msg("create embedder failed, retrieval disabled")
		return nil
	}

	index, err := retrievalx.LoadIndex(ctx, embedder, store)
	if err != nil {
		log.Warn().Err(err).Msg("load retrieval index failed, retrieval disabled")
		return nil
	}
	return index
}
