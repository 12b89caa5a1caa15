// Package fixtures loads dev-mode keys, lobby bindings and sandbox games from YAML.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Fixtures struct {
	Keys  []KeySpec   `yaml:"keys"`
	Lobby []LobbySpec `yaml:"lobby"`
	Games []GameSpec  `yaml:"games"`
}

type KeySpec struct {
	Key      string `yaml:"key"`
	Username string `yaml:"username"`
}

type LobbySpec struct {
	Username  string `yaml:"username"`
	GameID    string `yaml:"game_id"`
	APIAccess bool   `yaml:"api_access"`
}

type GameSpec struct {
	ID     string   `yaml:"id"`
	Corp   SideSpec `yaml:"corp"`
	Runner SideSpec `yaml:"runner"`
}

type SideSpec struct {
	Username   string     `yaml:"username"`
	Agent      bool       `yaml:"agent"`
	Controller string     `yaml:"controller"`
	WebhookURL string     `yaml:"webhook_url"`
	APIKey     string     `yaml:"api_key"`
	Identity   string     `yaml:"identity"`
	Credits    int        `yaml:"credits"`
	Hand       []CardSpec `yaml:"hand"`
	Deck       []CardSpec `yaml:"deck"`
}

type CardSpec struct {
	CID          string `yaml:"cid"`
	Title        string `yaml:"title"`
	Type         string `yaml:"type"`
	Cost         int    `yaml:"cost"`
	AgendaPoints int    `yaml:"agenda_points"`
}

const defaultCredits = 5

func Load(path string) (Fixtures, error) {
	var fx Fixtures
	if strings.TrimSpace(path) == "" {
		return fx, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fx, fmt.Errorf("read fixtures: %w", err)
	}
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return fx, fmt.Errorf("%s: %w", path, err)
	}
	if err := fx.Validate(); err != nil {
		return fx, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

func (fx Fixtures) Validate() error {
	var errs []error
	for i, k := range fx.Keys {
		if _, err := uuid.Parse(k.Key); err != nil {
			errs = append(errs, fmt.Errorf("keys[%d]: invalid key %q", i, k.Key))
		}
		if strings.TrimSpace(k.Username) == "" {
			errs = append(errs, fmt.Errorf("keys[%d]: username is required", i))
		}
	}
	ids := map[string]bool{}
	for i, g := range fx.Games {
		if strings.TrimSpace(g.ID) == "" {
			errs = append(errs, fmt.Errorf("games[%d]: id is required", i))
			continue
		}
		if ids[g.ID] {
			errs = append(errs, fmt.Errorf("games[%d]: duplicate id %q", i, g.ID))
		}
		ids[g.ID] = true
		if err := agent.Validate(g.State()); err != nil {
			errs = append(errs, fmt.Errorf("games[%d]: %w", i, err))
		}
	}
	for i, l := range fx.Lobby {
		if strings.TrimSpace(l.Username) == "" || strings.TrimSpace(l.GameID) == "" {
			errs = append(errs, fmt.Errorf("lobby[%d]: username and game_id are required", i))
		}
	}
	return errors.Join(errs...)
}

// State builds the pre-start state of a game.
func (g GameSpec) State() game.State {
	return game.State{
		GameID: g.ID,
		Corp:   g.Corp.sideState(game.Corp),
		Runner: g.Runner.sideState(game.Runner),
	}
}

func (s SideSpec) sideState(side game.Side) game.SideState {
	credits := s.Credits
	if credits == 0 {
		credits = defaultCredits
	}
	return game.SideState{
		Player: game.Player{
			Username:   s.Username,
			Agent:      s.Agent,
			Controller: s.Controller,
			WebhookURL: s.WebhookURL,
			APIKey:     s.APIKey,
		},
		Identity: game.Card{CID: string(side) + "-identity", Title: s.Identity, Type: game.TypeIdentity, Side: side},
		Credits:  credits,
		Hand:     cards(s.Hand, side, "hand"),
		Deck:     cards(s.Deck, side, "deck"),
	}
}

func cards(specs []CardSpec, side game.Side, zone string) []game.Card {
	out := make([]game.Card, 0, len(specs))
	for _, c := range specs {
		out = append(out, game.Card{
			CID:          c.CID,
			Title:        c.Title,
			Type:         c.Type,
			Side:         side,
			Zone:         []string{zone},
			Cost:         c.Cost,
			AgendaPoints: c.AgendaPoints,
		})
	}
	return out
}

// Seed writes keys and lobby bindings. With a TxManager the writes share one
// transaction.
func (fx Fixtures) Seed(ctx context.Context, keys ports.KeyWriter, lobby ports.LobbyWriter, tx ports.TxManager) error {
	write := func(ctx context.Context) error {
		for _, k := range fx.Keys {
			key, err := uuid.Parse(k.Key)
			if err != nil {
				return fmt.Errorf("seed key for %s: %w", k.Username, err)
			}
			if err := keys.PutKey(ctx, key, k.Username); err != nil && !errors.Is(err, ports.ErrConflict) {
				return fmt.Errorf("seed key for %s: %w", k.Username, err)
			}
		}
		for _, l := range fx.Lobby {
			b := ports.LobbyBinding{Username: l.Username, GameID: l.GameID, APIAccess: l.APIAccess}
			if err := lobby.Join(ctx, b); err != nil {
				return fmt.Errorf("seed lobby for %s: %w", l.Username, err)
			}
		}
		return nil
	}
	if tx == nil {
		return write(ctx)
	}
	return tx.RunInTx(ctx, write)
}
