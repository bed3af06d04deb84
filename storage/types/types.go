package types

import (
	"strings"
	"time"
)

// Enum is a static, ordered set of valid values with a designated default
type Enum[T ~string] struct {
	Values  []T
	Default T
}

// Parse returns the value matching s exactly, if any
func (e Enum[T]) Parse(s string) (T, bool) {
	for _, v := range e.Values {
		if string(v) == s {
			return v, true
		}
	}

	var zero T

	return zero, false
}

// OrDefault parses s, falling back to the default.
// The boolean reports whether s was a valid value
func (e Enum[T]) OrDefault(s string) (T, bool) {
	if v, ok := e.Parse(s); ok {
		return v, true
	}

	return e.Default, false
}

// Strings returns the values as plain strings, in order
func (e Enum[T]) Strings() []string {
	out := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		out = append(out, string(v))
	}

	return out
}

type League string

const (
	LeagueStandard   League = "Standard"
	LeagueHardcore   League = "Hardcore"
	LeagueRuthless   League = "Ruthless"
	LeagueHCRuthless League = "Hardcore+Ruthless"

	LeagueNecropolis           League = "Necropolis"
	LeagueNecropolisHC         League = "Hardcore+Necropolis"
	LeagueNecropolisRuthless   League = "Ruthless+Necropolis"
	LeagueNecropolisHCRuthless League = "HC+Ruthless+Necropolis"

	LeagueAffliction           League = "Affliction"
	LeagueAfflictionHC         League = "Hardcore+Affliction"
	LeagueAfflictionRuthless   League = "Ruthless+Affliction"
	LeagueAfflictionHCRuthless League = "HC+Ruthless+Affliction"
)

func (l League) String() string {
	return string(l)
}

// QueryName is the league name as the provider expects it in a query string.
// The '+' separators stand for spaces on the wire
func (l League) QueryName() string {
	return strings.ReplaceAll(string(l), "+", " ")
}

var Leagues = Enum[League]{
	Values: []League{
		LeagueStandard,
		LeagueHardcore,
		LeagueRuthless,
		LeagueHCRuthless,
		LeagueNecropolis,
		LeagueNecropolisHC,
		LeagueNecropolisRuthless,
		LeagueNecropolisHCRuthless,
		LeagueAffliction,
		LeagueAfflictionHC,
		LeagueAfflictionRuthless,
		LeagueAfflictionHCRuthless,
	},
	Default: LeagueNecropolis,
}

// Category selects the dataset family (record shape + endpoint)
type Category string

const (
	CategoryCurrency Category = "Currency"
	CategoryItem     Category = "Item"
)

func (c Category) String() string {
	return string(c)
}

// Family is the lower-case family name, used for cache namespaces
func (c Category) Family() string {
	return strings.ToLower(string(c))
}

// Types returns the dataset types valid for the category
func (c Category) Types() Enum[DatasetType] {
	if c == CategoryItem {
		return ItemTypes
	}

	return CurrencyTypes
}

var Categories = Enum[Category]{
	Values:  []Category{CategoryCurrency, CategoryItem},
	Default: CategoryCurrency,
}

type DatasetType string

func (t DatasetType) String() string {
	return string(t)
}

var CurrencyTypes = Enum[DatasetType]{
	Values:  []DatasetType{"Currency", "Fragment"},
	Default: "Currency",
}

var ItemTypes = Enum[DatasetType]{
	Values: []DatasetType{
		"Tattoo",
		"Omen",
		"DivinationCard",
		"Artifact",
		"Oil",
		"Incubator",
		"UniqueWeapon",
		"UniqueArmour",
		"UniqueAccessory",
		"UniqueFlask",
		"UniqueJewel",
		"UniqueRelic",
		"SkillGem",
		"ClusterJewel",
		"Map",
		"BlightedMap",
		"BlightRavagedMap",
		"ScourgedMap",
		"UniqueMap",
		"DeliriumOrb",
		"Invitation",
		"Scarab",
		"Memory",
		"BaseType",
		"Fossil",
		"Resonator",
		"Beast",
		"Essence",
		"Vial",
	},
	Default: "Tattoo",
}

// Key identifies one cache slot and one remote query
type Key struct {
	League   League      `json:"league"`
	Category Category    `json:"category"`
	Type     DatasetType `json:"type"`
}

func (k Key) String() string {
	return k.League.String() + "/" + k.Category.Family() + "/" + k.Type.String()
}

// ParseKey parses a "League/Category/Type" triple, strictly
func ParseKey(s string) (Key, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Key{}, false
	}

	league, ok := Leagues.Parse(parts[0])
	if !ok {
		return Key{}, false
	}

	category, ok := Categories.Parse(parts[1])
	if !ok {
		return Key{}, false
	}

	typ, ok := category.Types().Parse(parts[2])
	if !ok {
		return Key{}, false
	}

	return Key{League: league, Category: category, Type: typ}, true
}

// Record is a single priced entity in a snapshot
type Record interface {
	// DisplayName is the name users search by
	DisplayName() string

	// Price is the value in the reference unit (chaos orbs)
	Price() float64
}

// Snapshot is one fetched (or cached) dataset.
// A nil Updated marks the empty sentinel: no data was ever obtained
type Snapshot[R Record] struct {
	Lines   []R        `json:"lines"`
	Updated *time.Time `json:"updated,omitempty"`
}

// Empty returns the empty sentinel snapshot
func Empty[R Record]() Snapshot[R] {
	return Snapshot[R]{Lines: []R{}}
}

// HasData reports whether the snapshot was ever fetched
func (s Snapshot[R]) HasData() bool {
	return s.Updated != nil
}

// Erase converts the snapshot into a family-agnostic one
func Erase[R Record](s Snapshot[R]) Snapshot[Record] {
	lines := make([]Record, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, l)
	}

	return Snapshot[Record]{
		Lines:   lines,
		Updated: s.Updated,
	}
}
