package save

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metadata is embedded inside every save artifact. It carries enough
// for listing, sorting and compatibility checks without handing the
// caller the full game state.
type Metadata struct {
	SaveID      string  `json:"save_id"`
	Timestamp   float64 `json:"timestamp"`
	Version     string  `json:"version"`
	PlayerLevel int     `json:"player_level"`
	Location    string  `json:"location"`
	Playtime    float64 `json:"playtime"`
}

// envelope is the decompressed JSON shape of a save artifact
type envelope struct {
	Metadata  Metadata               `json:"metadata"`
	GameState map[string]interface{} `json:"game_state"`
}

// buildMetadata derives artifact metadata from the game state at the
// creation instant. Player level, location and playtime come from
// well-known keys, with defaults when absent.
func buildMetadata(gameState map[string]interface{}, version string, now time.Time) Metadata {
	meta := Metadata{
		SaveID:      strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp:   float64(now.UnixNano()) / 1e9,
		Version:     version,
		PlayerLevel: 1,
		Location:    "Unknown",
		Playtime:    0,
	}

	player, _ := gameState["player"].(map[string]interface{})
	if level, ok := asNumber(player["level"]); ok {
		meta.PlayerLevel = int(level)
	}
	if loc, ok := player["location"].(string); ok && loc != "" {
		meta.Location = loc
	}
	if pt, ok := asNumber(player["playtime"]); ok {
		meta.Playtime = pt
	} else if pt, ok := asNumber(gameState["playtime"]); ok {
		meta.Playtime = pt
	}
	return meta
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// majorVersion extracts the major component of a "MAJOR.MINOR.PATCH"
// version string
func majorVersion(version string) (int, error) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed version string: %q", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed version string: %q", version)
	}
	return major, nil
}
