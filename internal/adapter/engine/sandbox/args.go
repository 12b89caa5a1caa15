package sandbox

import (
	"sort"
	"strings"

	"agentbridge/internal/domain/game"
)

// cardArg reads a card id from {"card":{"cid":...}} or {"cid":...}.
func cardArg(args map[string]any) string {
	if card, ok := args["card"].(map[string]any); ok {
		if cid, ok := card["cid"].(string); ok {
			return strings.TrimSpace(cid)
		}
	}
	return stringArg(args, "cid")
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func indexOf(cards []game.Card, cid string) int {
	for i, c := range cards {
		if c.CID == cid {
			return i
		}
	}
	return -1
}

func sortedServers(servers map[string]game.Server) []string {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
