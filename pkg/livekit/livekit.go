// Package livekit publishes frontend UI events over a LiveKit room data
// channel and mints room access tokens.
package livekit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/livekit/protocol/auth"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

type Config struct {
	URL       string        `split_words:"true" required:"true"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	APISecret string        `envconfig:"API_SECRET" split_words:"true" required:"true"`
	Room      string        `split_words:"true" default:"restaurant-order"`
	Identity  string        `split_words:"true" default:"ordering-agent"`
	Topic     string        `split_words:"true" default:"animation"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" split_words:"true" default:"6h"`
}

// RoomPublisher sends ordering events to the frontend over the room's data
// channel. A publisher with no connected room reports not ready and drops
// publishes instead of failing the conversation.
type RoomPublisher struct {
	room  *lksdk.Room
	topic string
}

var _ contractx.EventPublisher = (*RoomPublisher)(nil)

// Connect joins the configured room as the agent participant.
func Connect(cfg Config) (*RoomPublisher, error) {
	room, err := lksdk.ConnectToRoom(strings.TrimSpace(cfg.URL), lksdk.ConnectInfo{
		APIKey:              strings.TrimSpace(cfg.APIKey),
		APISecret:           strings.TrimSpace(cfg.APISecret),
		RoomName:            strings.TrimSpace(cfg.Room),
		ParticipantIdentity: strings.TrimSpace(cfg.Identity),
	}, lksdk.NewRoomCallback())
	if err != nil {
		return nil, fmt.Errorf("livekit: connect to room %s: %w", cfg.Room, err)
	}

	return NewRoomPublisher(room, cfg.Topic), nil
}

// NewRoomPublisher wraps an already-connected room. A nil room yields a
// publisher that is never ready.
func NewRoomPublisher(room *lksdk.Room, topic string) *RoomPublisher {
	if strings.TrimSpace(topic) == "" {
		topic = "animation"
	}
	return &RoomPublisher{room: room, topic: topic}
}

func (p *RoomPublisher) Ready() bool {
	return p != nil && p.room != nil
}

// Publish sends one event to the frontend. The payload carries the event
// kind under "type" alongside the event data.
func (p *RoomPublisher) Publish(ctx context.Context, kind contractx.EventKind, data map[string]any) bool {
	if !p.Ready() {
		return false
	}

	payload := make(map[string]any, len(data)+1)
	payload["type"] = string(kind)
	for k, v := range data {
		payload[k] = v
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(kind)).Msg("livekit: marshal event")
		return false
	}

	err = p.room.LocalParticipant.PublishDataPacket(
		lksdk.UserData(encoded),
		lksdk.WithDataPublishTopic(p.topic),
		lksdk.WithDataPublishReliable(true),
	)
	if err != nil {
		log.Error().Err(err).Str("event", string(kind)).Msg("livekit: publish event")
		return false
	}

	log.Debug().Str("event", string(kind)).Int("bytes", len(encoded)).Msg("livekit: event published")
	return true
}

func (p *RoomPublisher) Close() {
	if p != nil && p.room != nil {
		p.room.Disconnect()
	}
}

// MintToken issues a join token for the given room and participant identity.
func MintToken(cfg Config, roomName, identity string) (string, error) {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		roomName = strings.TrimSpace(cfg.Room)
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", fmt.Errorf("livekit: participant identity is required")
	}

	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}

	token, err := auth.NewAccessToken(strings.TrimSpace(cfg.APIKey), strings.TrimSpace(cfg.APISecret)).
		SetVideoGrant(grant).
		SetIdentity(identity).
		SetValidFor(cfg.TokenTTL).
		ToJWT()
	if err != nil {
		return "", fmt.Errorf("livekit: sign token for %s: %w", identity, err)
	}
	return token, nil
}
