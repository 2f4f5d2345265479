// SPDX-License-Identifier: MPL-2.0

package game

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openlauncher/openlauncher/internal/catalog"
	"github.com/openlauncher/openlauncher/pkg/cueutil"
)

const (
	// LocationDocuments places the install under the user's documents folder.
	LocationDocuments Location = "documents"
	// LocationAppData places the install under the per-user application data folder.
	LocationAppData Location = "appdata"
)

// ErrUnknownGame is returned by Lookup for names and indices not in the table.
var ErrUnknownGame = errors.New("unknown game")

var (
	//go:embed games_schema.cue
	schemaSource []byte

	//go:embed games.cue
	builtinTable []byte
)

type (
	// Location names the base folder a game installs under by default.
	Location string

	// Repository is an owner/name pair as it appears in the table.
	Repository struct {
		Owner string `json:"owner"`
		Name  string `json:"name"`
	}

	// Game is one installable target.
	Game struct {
		Name     string      `json:"name"`
		Binary   string      `json:"binary"`
		Location Location    `json:"location"`
		Release  Repository  `json:"release"`
		Develop  *Repository `json:"develop,omitempty"`
	}

	// Registry is an ordered, read-only set of games.
	Registry struct {
		games []Game
	}

	table struct {
		Games []Game `json:"games"`
	}
)

// Builtin returns the registry compiled into the binary.
func Builtin() (*Registry, error) {
	return Parse(builtinTable, "games.cue")
}

// Parse validates a game table and builds a registry from it. Names must be
// unique, ignoring case.
func Parse(data []byte, filename string) (*Registry, error) {
	t, err := cueutil.ParseAndDecode[table](schemaSource, data, "#Games", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(t.Games))
	for _, g := range t.Games {
		key := strings.ToLower(g.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s: duplicate game %q", filename, g.Name)
		}
		seen[key] = struct{}{}
	}
	return &Registry{games: t.Games}, nil
}

// All returns the games in table order.
func (r *Registry) All() []Game {
	out := make([]Game, len(r.games))
	copy(out, r.games)
	return out
}

// Len returns the number of games.
func (r *Registry) Len() int { return len(r.games) }

// At returns the game at index i.
func (r *Registry) At(i int) (Game, error) {
	if i < 0 || i >= len(r.games) {
		return Game{}, fmt.Errorf("%w: index %d", ErrUnknownGame, i)
	}
	return r.games[i], nil
}

// Lookup finds a game by case-insensitive name or by table index.
func (r *Registry) Lookup(key string) (Game, int, error) {
	for i, g := range r.games {
		if strings.EqualFold(g.Name, key) || strings.EqualFold(g.Binary, key) {
			return g, i, nil
		}
	}
	if i, err := strconv.Atoi(key); err == nil {
		g, err := r.At(i)
		return g, i, err
	}
	return Game{}, -1, fmt.Errorf("%w: %q", ErrUnknownGame, key)
}

// Target converts the game to the catalog's feed description.
func (g Game) Target() catalog.Target {
	t := catalog.Target{
		Name:    g.Name,
		Release: catalog.Repository{Owner: g.Release.Owner, Name: g.Release.Name},
	}
	if g.Develop != nil {
		t.Develop = catalog.Repository{Owner: g.Develop.Owner, Name: g.Develop.Name}
	}
	return t
}

// InstallRoot returns <base>/<Name>. An empty base selects the default
// folder for the game's Location.
func (g Game) InstallRoot(base string) (string, error) {
	if base == "" {
		var err error
		if base, err = DefaultBase(g.Location); err != nil {
			return "", err
		}
	}
	return filepath.Join(base, g.Name), nil
}
