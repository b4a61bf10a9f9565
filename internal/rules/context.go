package rules

// Context is the game state exposed to guard expressions.
type Context struct {
	HP            int
	MaxHP         int
	TotalDamage   int
	Chips         int
	Bet           int
	Sanity        int
	SanityPercent int
	Hand          int
	HandBefore    int
	DealerUpcard  int
	Round         int
	Class         string
	Tier          string
	Event         string
	Statuses      []string
	Tags          []string
}

var variableNames = []string{
	"hp", "max_hp", "hp_percent", "total_damage",
	"chips", "bet", "sanity", "sanity_percent",
	"hand", "hand_before", "dealer_upcard", "round",
	"class", "tier", "event", "statuses", "tags",
}

var zeroValues = map[string]any{
	"class":    "",
	"tier":     "",
	"event":    "",
	"statuses": []string{},
	"tags":     []string{},
}

// Vars flattens the context into CEL variables. Integers become int64.
func (c Context) Vars() map[string]any {
	hpPct := 0
	if c.MaxHP > 0 {
		hpPct = c.HP * 100 / c.MaxHP
	}
	statuses, tags := c.Statuses, c.Tags
	if statuses == nil {
		statuses = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"hp":             int64(c.HP),
		"max_hp":         int64(c.MaxHP),
		"hp_percent":     int64(hpPct),
		"total_damage":   int64(c.TotalDamage),
		"chips":          int64(c.Chips),
		"bet":            int64(c.Bet),
		"sanity":         int64(c.Sanity),
		"sanity_percent": int64(c.SanityPercent),
		"hand":           int64(c.Hand),
		"hand_before":    int64(c.HandBefore),
		"dealer_upcard":  int64(c.DealerUpcard),
		"round":          int64(c.Round),
		"class":          c.Class,
		"tier":           c.Tier,
		"event":          c.Event,
		"statuses":       statuses,
		"tags":           tags,
	}
}

// withDefaults fills in every declared variable missing from vars.
func withDefaults(vars map[string]any) map[string]any {
	res := make(map[string]any, len(variableNames))
	for _, name := range variableNames {
		if z, ok := zeroValues[name]; ok {
			res[name] = z
		} else {
			res[name] = int64(0)
		}
	}
	for k, v := range vars {
		if i, ok := v.(int); ok {
			v = int64(i)
		}
		res[k] = v
	}
	return res
}
