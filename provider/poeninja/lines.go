//nolint:tagliatelle // poe.ninja mixes camel and snake case
package poeninja

import "encoding/json"

// SparkLine is a short price history, as percentage changes.
// Missing samples are null
type SparkLine struct {
	Data        []*float64 `json:"data"`
	TotalChange float64    `json:"totalChange"`
}

// TransactionSummary aggregates one side of a currency exchange
type TransactionSummary struct {
	ID                int     `json:"id"`
	LeagueID          int     `json:"league_id"`
	PayCurrencyID     int     `json:"pay_currency_id"`
	GetCurrencyID     int     `json:"get_currency_id"`
	SampleTimeUTC     string  `json:"sample_time_utc"`
	Count             int     `json:"count"`
	Value             float64 `json:"value"`
	DataPointCount    int     `json:"data_point_count"`
	IncludesSecondary bool    `json:"includes_secondary"`
	ListingCount      int     `json:"listing_count"`
}

// CurrencyLine is a single currencyoverview record
type CurrencyLine struct {
	CurrencyTypeName              string              `json:"currencyTypeName"`
	Pay                           *TransactionSummary `json:"pay"`
	Receive                       *TransactionSummary `json:"receive"`
	PaySparkLine                  SparkLine           `json:"paySparkLine"`
	ReceiveSparkLine              SparkLine           `json:"receiveSparkLine"`
	ChaosEquivalent               float64             `json:"chaosEquivalent"`
	LowConfidencePaySparkLine     SparkLine           `json:"lowConfidencePaySparkLine"`
	LowConfidenceReceiveSparkLine SparkLine           `json:"lowConfidenceReceiveSparkLine"`
	DetailsID                     string              `json:"detailsId"`
}

func (l CurrencyLine) DisplayName() string {
	return l.CurrencyTypeName
}

func (l CurrencyLine) Price() float64 {
	return l.ChaosEquivalent
}

// Modifier is a single item mod line
type Modifier struct {
	Text     string `json:"text"`
	Optional bool   `json:"optional"`
}

// ItemLine is a single itemoverview record
type ItemLine struct {
	ID                     int               `json:"id"`
	Name                   string            `json:"name"`
	Icon                   string            `json:"icon"`
	BaseType               string            `json:"baseType"`
	StackSize              *int              `json:"stackSize,omitempty"`
	ArtFilename            *string           `json:"artFilename,omitempty"`
	ItemClass              int               `json:"itemClass"`
	Sparkline              SparkLine         `json:"sparkline"`
	LowConfidenceSparkline SparkLine         `json:"lowConfidenceSparkline"`
	ImplicitModifiers      []Modifier        `json:"implicitModifiers"`
	ExplicitModifiers      []Modifier        `json:"explicitModifiers"`
	FlavourText            string            `json:"flavourText"`
	ChaosValue             float64           `json:"chaosValue"`
	ExaltedValue           float64           `json:"exaltedValue"`
	DivineValue            float64           `json:"divineValue"`
	Count                  int               `json:"count"`
	DetailsID              string            `json:"detailsId"`
	TradeInfo              []json.RawMessage `json:"tradeInfo"`
	ListingCount           int               `json:"listingCount"`
}

func (l ItemLine) DisplayName() string {
	return l.Name
}

func (l ItemLine) Price() float64 {
	return l.ChaosValue
}
