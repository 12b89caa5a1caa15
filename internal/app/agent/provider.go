package agent

import (
	"errors"
	"strings"

	"agentbridge/internal/domain/game"
)

var ErrMultipleAgents = errors.New("more than one agent player in game")

type Config struct {
	WebhookURL string    `json:"webhookUrl"`
	APIKey     string    `json:"apiKey"`
	Side       game.Side `json:"side"`
	GameID     string    `json:"gameid"`
}

// IsAgent reports whether a player record belongs to an agent, either by the
// explicit flag or by the reserved synthetic username.
func IsAgent(p game.Player) bool {
	return p.Agent || p.Username == game.AgentUsername
}

func IsAgentGame(st game.State) bool {
	_, ok := Side(st)
	return ok
}

func Side(st game.State) (game.Side, bool) {
	sides := agentSides(st)
	if len(sides) != 1 {
		return "", false
	}
	return sides[0], true
}

// ConfigFor returns the webhook configuration of the game's agent player. Both
// the webhook URL and the key must be set.
func ConfigFor(st game.State) (Config, bool) {
	side, ok := Side(st)
	if !ok {
		return Config{}, false
	}
	p := st.SideState(side).Player
	url := strings.TrimSpace(p.WebhookURL)
	key := strings.TrimSpace(p.APIKey)
	if url == "" || key == "" {
		return Config{}, false
	}
	return Config{WebhookURL: url, APIKey: key, Side: side, GameID: st.GameID}, true
}

// Validate rejects games configured with an agent on both sides.
func Validate(st game.State) error {
	if len(agentSides(st)) > 1 {
		return ErrMultipleAgents
	}
	return nil
}

func agentSides(st game.State) []game.Side {
	out := make([]game.Side, 0, 1)
	if IsAgent(st.Corp.Player) {
		out = append(out, game.Corp)
	}
	if IsAgent(st.Runner.Player) {
		out = append(out, game.Runner)
	}
	return out
}
