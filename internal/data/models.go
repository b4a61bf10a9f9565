package data

// Trigger is the data form of an ability trigger.
type Trigger struct {
	Type      string `json:"type" yaml:"type"`
	Event     string `json:"event,omitempty" yaml:"event"`
	Percent   int    `json:"percent,omitempty" yaml:"percent"`
	Once      bool   `json:"once,omitempty" yaml:"once"`
	Count     int    `json:"count,omitempty" yaml:"count"`
	Segment   int    `json:"segment,omitempty" yaml:"segment"`
	Chance    int    `json:"chance,omitempty" yaml:"chance"`
	Action    string `json:"action,omitempty" yaml:"action"`
	Threshold int    `json:"threshold,omitempty" yaml:"threshold"`
}

// Effect is one step of an ability's effect chain.
type Effect struct {
	Type     string `json:"type" yaml:"type"`
	Target   string `json:"target,omitempty" yaml:"target"`
	Value    int    `json:"value,omitempty" yaml:"value"`
	Duration int    `json:"duration,omitempty" yaml:"duration"`
	Status   string `json:"status,omitempty" yaml:"status"`
	Message  string `json:"message,omitempty" yaml:"message"`
}

// Ability represents a data-driven enemy rule
type Ability struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Trigger     Trigger  `json:"trigger" yaml:"trigger"`
	Cooldown    int      `json:"cooldown,omitempty" yaml:"cooldown"`
	When        string   `json:"when,omitempty" yaml:"when"` // CEL expression
	Effects     []Effect `json:"effects" yaml:"effects"`
}

// Enemy is an enemy record.
type Enemy struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	HP          int       `yaml:"hp"`
	Threat      int       `yaml:"threat"`
	Portrait    string    `yaml:"portrait"`
	Abilities   []Ability `yaml:"abilities"`
}

type Passive struct {
	Trigger   string `yaml:"trigger"`
	Effect    string `yaml:"effect"`
	Value     int    `yaml:"value"`
	Status    string `yaml:"status"`
	Duration  int    `yaml:"duration"`
	Condition string `yaml:"condition"` // CEL expression
}

type Stack struct {
	Stat  string `yaml:"stat"`
	Value int    `yaml:"value"`
	Max   int    `yaml:"max"`
	OnMax string `yaml:"on_max"` // "reset_to_one" or empty
}

type TagGrant struct {
	Tag        string `yaml:"tag"`
	Count      int    `yaml:"count"`
	BuffDamage int    `yaml:"buff_damage"`
}

type Active struct {
	Target        string `yaml:"target"`
	MinRank       int    `yaml:"min_rank"`
	MaxRank       int    `yaml:"max_rank"`
	Effect        string `yaml:"effect"`
	Value         int    `yaml:"value"`
	Cooldown      int    `yaml:"cooldown"`
	InvalidText   string `yaml:"invalid_text"`
	PassiveGrowth int    `yaml:"passive_growth"`
	Description   string `yaml:"description"`
}

// Trinket is a trinket template record.
type Trinket struct {
	Key       string         `yaml:"key"`
	Name      string         `yaml:"name"`
	Flavor    string         `yaml:"flavor"`
	Rarity    string         `yaml:"rarity"`
	BaseValue int            `yaml:"base_value"`
	Passives  []Passive      `yaml:"passives"`
	Stack     *Stack         `yaml:"stack"`
	Tags      *TagGrant      `yaml:"tags"`
	Active    *Active        `yaml:"active"`
	Stats     map[string]int `yaml:"stats"`
}

type Affix struct {
	Stat string `yaml:"stat"`
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

type TagEffect struct {
	Effect string `yaml:"effect"`
	Value  int    `yaml:"value"`
}

// CardTag describes what a card tag does.
type CardTag struct {
	Tag         string      `yaml:"tag"`
	Description string      `yaml:"description"`
	OnDraw      []TagEffect `yaml:"on_draw"`
	Passive     []TagEffect `yaml:"passive"`
	OnOutcome   []TagEffect `yaml:"on_outcome"`
}

type Choice struct {
	Text              string   `yaml:"text"`
	Result            string   `yaml:"result"`
	Chips             int      `yaml:"chips"`
	Sanity            int      `yaml:"sanity"`
	Tags              []string `yaml:"tags"`
	Status            string   `yaml:"status"`
	StatusValue       int      `yaml:"status_value"`
	StatusDuration    int      `yaml:"status_duration"`
	Trinket           string   `yaml:"trinket"`
	EnemyHPMultiplier float64  `yaml:"enemy_hp_multiplier"`
	Requires          string   `yaml:"requires"` // CEL expression
}

// Event is a narrative encounter record.
type Event struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Portrait    string   `yaml:"portrait"`
	Weight      int      `yaml:"weight"`
	Choices     []Choice `yaml:"choices"`
}

type Encounter struct {
	Type     string `yaml:"type"`
	Enemy    string `yaml:"enemy"`
	Event    string `yaml:"event"`
	Portrait string `yaml:"portrait"`
}

// Act is a scripted list of encounters with its event pool.
type Act struct {
	Key        string      `yaml:"key"`
	Name       string      `yaml:"name"`
	Intro      string      `yaml:"intro"`
	Tutorial   bool        `yaml:"tutorial"`
	Events     []string    `yaml:"events"`
	Encounters []Encounter `yaml:"encounters"`
}

// Class is a playable class.
type Class struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Trinket     string `yaml:"trinket"`
}

// Files groups the raw records of every data file.
type Files struct {
	Enemies  []Enemy   `yaml:"enemies"`
	Trinkets []Trinket `yaml:"trinkets"`
	Affixes  []Affix   `yaml:"affixes"`
	Tags     []CardTag `yaml:"tags"`
	Events   []Event   `yaml:"events"`
	Acts     []Act     `yaml:"acts"`
	Classes  []Class   `yaml:"classes"`
}
