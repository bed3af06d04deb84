package lookup

import (
	"fmt"

	"github.com/sig-0/exilian/storage/types"
)

// Selection is the raw user choice of dataset and search term
type Selection struct {
	League   string
	Category string
	Type     string
	Search   string
}

// Resolve maps the selection to a valid key.
// Every invalid or missing part falls back to its default,
// and yields a notice for the user
func (s Selection) Resolve() (types.Key, []string) {
	var notices []string

	league, ok := types.Leagues.OrDefault(s.League)
	if !ok {
		notices = append(notices, fmt.Sprintf("Using default league: %s", league))
	}

	category, ok := types.Categories.OrDefault(s.Category)
	if !ok {
		notices = append(notices, fmt.Sprintf("Using default category: %s", category))
	}

	typ, ok := category.Types().OrDefault(s.Type)
	if !ok {
		notices = append(notices, fmt.Sprintf("Using default %s type: %s", category.Family(), typ))
	}

	return types.Key{
		League:   league,
		Category: category,
		Type:     typ,
	}, notices
}
