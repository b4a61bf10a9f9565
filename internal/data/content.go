package data

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/act"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/enemy"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/narrative"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// TagRule is the resolved behaviour of a card tag.
type TagRule struct {
	Tag         card.Tag
	Description string
	// on draw, combat only
	DrawDamage int
	DrawChips  int
	// while face up in any hand
	FlatDamage    int
	DamagePercent int
	CritPercent   int
	// on a won round
	WinChips int
}

// Content is the validated game data.
type Content struct {
	Enemies  map[string]Enemy
	Trinkets map[string]*trinket.Template
	Affixes  []trinket.AffixTemplate
	Tags     map[card.Tag]TagRule
	Events   map[string]*narrative.Event
	Acts     map[string]Act
	Classes  map[string]Class

	weights map[string]int
}

// Build validates raw records and converts them to domain types.
func Build(f *Files) (*Content, error) {
	c := &Content{
		Enemies:  make(map[string]Enemy),
		Trinkets: make(map[string]*trinket.Template),
		Tags:     make(map[card.Tag]TagRule),
		Events:   make(map[string]*narrative.Event),
		Acts:     make(map[string]Act),
		Classes:  make(map[string]Class),
		weights:  make(map[string]int),
	}

	for _, e := range f.Enemies {
		if e.Key == "" {
			return nil, fmt.Errorf("%w: enemy without key", ErrLoad)
		}
		if e.HP <= 0 {
			return nil, fmt.Errorf("%w: enemy %s must have positive hp", ErrLoad, e.Key)
		}
		for _, a := range e.Abilities {
			if _, err := convertAbility(a); err != nil {
				return nil, fmt.Errorf("%w: enemy %s ability %q: %v", ErrLoad, e.Key, a.Name, err)
			}
		}
		c.Enemies[e.Key] = e
	}

	for _, t := range f.Trinkets {
		tmpl, err := convertTrinket(t)
		if err != nil {
			return nil, fmt.Errorf("%w: trinket %s: %v", ErrLoad, t.Key, err)
		}
		c.Trinkets[t.Key] = tmpl
	}

	for _, a := range f.Affixes {
		st, err := trinket.ParseStat(a.Stat)
		if err != nil {
			return nil, fmt.Errorf("%w: affix %s: %v", ErrLoad, a.Name, err)
		}
		if a.Max < a.Min {
			return nil, fmt.Errorf("%w: affix %s has max below min", ErrLoad, a.Name)
		}
		c.Affixes = append(c.Affixes, trinket.AffixTemplate{Stat: st, Name: a.Name, Min: a.Min, Max: a.Max})
	}

	for _, t := range f.Tags {
		rule, err := convertTag(t)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %s: %v", ErrLoad, t.Tag, err)
		}
		c.Tags[rule.Tag] = rule
	}

	for _, e := range f.Events {
		ev, err := convertEvent(e)
		if err != nil {
			return nil, fmt.Errorf("%w: event %s: %v", ErrLoad, e.ID, err)
		}
		for _, ch := range ev.Choices {
			if ch.Trinket != "" && c.Trinkets[ch.Trinket] == nil {
				return nil, fmt.Errorf("%w: event %s grants unknown trinket %s", ErrLoad, e.ID, ch.Trinket)
			}
		}
		c.Events[e.ID] = ev
		c.weights[e.ID] = e.Weight
	}

	for _, cl := range f.Classes {
		if cl.Trinket != "" && c.Trinkets[cl.Trinket] == nil {
			return nil, fmt.Errorf("%w: class %s uses unknown trinket %s", ErrLoad, cl.Key, cl.Trinket)
		}
		c.Classes[cl.Key] = cl
	}

	for _, a := range f.Acts {
		c.Acts[a.Key] = a
		if _, err := c.NewAct(a.Key); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewEnemy spawns a fresh enemy with its own ability state.
func (c *Content) NewEnemy(key string, hpMultiplier float64) (*enemy.Enemy, error) {
	def, ok := c.Enemies[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown enemy %s", ErrLoad, key)
	}
	abilities := make([]*ability.Ability, 0, len(def.Abilities))
	for _, a := range def.Abilities {
		ab, err := convertAbility(a)
		if err != nil {
			return nil, fmt.Errorf("%w: enemy %s: %v", ErrLoad, key, err)
		}
		abilities = append(abilities, ab)
	}
	e, err := enemy.New(def.Key, def.Name, def.HP, hpMultiplier, abilities...)
	if err != nil {
		return nil, err
	}
	e.Portrait = def.Portrait
	e.Threat = def.Threat
	return e, nil
}

// NewAct builds an act and its event pool.
func (c *Content) NewAct(key string) (*act.Act, error) {
	def, ok := c.Acts[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown act %s", ErrLoad, key)
	}
	a := act.New(def.Key, def.Name)
	a.Intro = def.Intro
	a.Tutorial = def.Tutorial
	for i, e := range def.Encounters {
		kind, err := act.ParseKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: act %s encounter %d: %v", ErrLoad, key, i+1, err)
		}
		if e.Enemy != "" {
			if _, ok := c.Enemies[e.Enemy]; !ok {
				return nil, fmt.Errorf("%w: act %s uses unknown enemy %s", ErrLoad, key, e.Enemy)
			}
		}
		if e.Event != "" {
			if _, ok := c.Events[e.Event]; !ok {
				return nil, fmt.Errorf("%w: act %s uses unknown event %s", ErrLoad, key, e.Event)
			}
		}
		portrait := e.Portrait
		if portrait == "" && e.Enemy != "" {
			portrait = c.Enemies[e.Enemy].Portrait
		}
		if err := a.Add(act.Encounter{Kind: kind, Enemy: e.Enemy, EventID: e.Event, Portrait: portrait}); err != nil {
			return nil, fmt.Errorf("%w: act %s: %v", ErrLoad, key, err)
		}
	}
	for _, id := range def.Events {
		ev, ok := c.Events[id]
		if !ok {
			return nil, fmt.Errorf("%w: act %s pools unknown event %s", ErrLoad, key, id)
		}
		a.Pool.Add(ev, c.weights[id])
	}
	return a, nil
}

// ClassTrinket returns the signature trinket of a class.
func (c *Content) ClassTrinket(class string) (*trinket.Template, bool) {
	cl, ok := c.Classes[class]
	if !ok || cl.Trinket == "" {
		return nil, false
	}
	t, ok := c.Trinkets[cl.Trinket]
	return t, ok
}

// TrinketTemplates lists templates sorted by key.
func (c *Content) TrinketTemplates() []*trinket.Template {
	res := make([]*trinket.Template, 0, len(c.Trinkets))
	for _, t := range c.Trinkets {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res
}

// Checker compiles guard expressions.
type Checker interface {
	Check(expr string) error
}

// CheckGuards compiles every guard expression in the content.
func (c *Content) CheckGuards(ch Checker) error {
	var errs []string
	check := func(where, expr string) {
		if expr == "" {
			return
		}
		if err := ch.Check(expr); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", where, err))
		}
	}
	for _, key := range sortedKeys(c.Enemies) {
		for _, a := range c.Enemies[key].Abilities {
			check("enemy "+key+" ability "+a.Name, a.When)
		}
	}
	for _, t := range c.TrinketTemplates() {
		for _, p := range t.Passives {
			check("trinket "+t.Key, p.Condition)
		}
	}
	for _, id := range sortedKeys(c.Events) {
		for i, choice := range c.Events[id].Choices {
			check(fmt.Sprintf("event %s choice %d", id, i+1), choice.Requires)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrLoad, strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func convertAbility(a Ability) (*ability.Ability, error) {
	trig, err := ability.NewTrigger(a.Trigger.Type, ability.TriggerParams{
		Event:     a.Trigger.Event,
		Percent:   a.Trigger.Percent,
		Once:      a.Trigger.Once,
		Max:       a.Trigger.Count,
		Segment:   a.Trigger.Segment,
		Chance:    a.Trigger.Chance,
		Action:    a.Trigger.Action,
		Threshold: a.Trigger.Threshold,
	})
	if err != nil {
		return nil, err
	}
	ab := &ability.Ability{
		Name:        a.Name,
		Description: a.Description,
		Trigger:     trig,
		CooldownMax: a.Cooldown,
		When:        a.When,
	}
	for _, e := range a.Effects {
		typ, err := ability.ParseEffectType(e.Type)
		if err != nil {
			return nil, err
		}
		target, err := ability.ParseTarget(e.Target)
		if err != nil {
			return nil, err
		}
		eff := ability.Effect{Type: typ, Target: target, Value: e.Value, Duration: e.Duration, Message: e.Message}
		if e.Status != "" {
			if eff.Status, err = status.ParseKind(e.Status); err != nil {
				return nil, err
			}
		}
		if (typ == ability.ApplyStatus || typ == ability.RemoveStatus) && eff.Status == status.None {
			return nil, fmt.Errorf("%s needs a status", typ)
		}
		ab.Effects = append(ab.Effects, eff)
	}
	return ab, nil
}

func convertTrinket(t Trinket) (*trinket.Template, error) {
	if t.Key == "" || t.Name == "" {
		return nil, fmt.Errorf("trinket needs key and name")
	}
	rarity, err := trinket.ParseRarity(t.Rarity)
	if err != nil {
		return nil, err
	}
	tmpl := &trinket.Template{
		Key:       t.Key,
		Name:      t.Name,
		Flavor:    t.Flavor,
		Rarity:    rarity,
		BaseValue: t.BaseValue,
	}
	for _, p := range t.Passives {
		ev, err := ability.ParseEvent(p.Trigger)
		if err != nil {
			return nil, err
		}
		eff, err := trinket.ParseEffectKind(p.Effect)
		if err != nil {
			return nil, err
		}
		pas := trinket.Passive{Trigger: ev, Effect: eff, Value: p.Value, StatusDuration: p.Duration, Condition: p.Condition}
		if p.Status != "" {
			if pas.Status, err = status.ParseKind(p.Status); err != nil {
				return nil, err
			}
		}
		tmpl.Passives = append(tmpl.Passives, pas)
	}
	if s := t.Stack; s != nil {
		st, err := trinket.ParseStat(s.Stat)
		if err != nil {
			return nil, err
		}
		if s.OnMax != "" && s.OnMax != "reset_to_one" {
			return nil, fmt.Errorf("unknown stack on_max %q", s.OnMax)
		}
		tmpl.Stack = &trinket.StackRule{Stat: st, Value: s.Value, Max: s.Max, ResetToOne: s.OnMax == "reset_to_one"}
	}
	if g := t.Tags; g != nil {
		tag, err := card.ParseTag(g.Tag)
		if err != nil {
			return nil, err
		}
		tmpl.Tags = &trinket.TagGrant{Tag: tag, Count: g.Count, BuffDamage: g.BuffDamage}
	}
	if a := t.Active; a != nil {
		ac := &trinket.Active{
			MinRank:       card.Rank(a.MinRank),
			MaxRank:       card.Rank(a.MaxRank),
			Value:         a.Value,
			Cooldown:      a.Cooldown,
			InvalidText:   a.InvalidText,
			PassiveGrowth: a.PassiveGrowth,
			Description:   a.Description,
		}
		switch a.Target {
		case "card":
			ac.Target = trinket.TargetCard
		case "", "none":
			ac.Target = trinket.TargetNone
		default:
			return nil, fmt.Errorf("unknown active target %q", a.Target)
		}
		switch a.Effect {
		case "set_value":
			ac.Effect = trinket.SetValue
			if a.Value <= 0 {
				return nil, fmt.Errorf("set_value needs a positive value")
			}
		case "double_value":
			ac.Effect = trinket.DoubleValue
		default:
			return nil, fmt.Errorf("unknown active effect %q", a.Effect)
		}
		tmpl.Active = ac
	}
	if len(t.Stats) > 0 {
		tmpl.Stats = make(map[trinket.Stat]int, len(t.Stats))
		for k, v := range t.Stats {
			st, err := trinket.ParseStat(k)
			if err != nil {
				return nil, err
			}
			tmpl.Stats[st] = v
		}
	}
	return tmpl, nil
}

func convertTag(t CardTag) (TagRule, error) {
	tag, err := card.ParseTag(t.Tag)
	if err != nil {
		return TagRule{}, err
	}
	rule := TagRule{Tag: tag, Description: t.Description}
	apply := func(group string, effs []TagEffect, allowed map[string]*int) error {
		for _, e := range effs {
			dst, ok := allowed[e.Effect]
			if !ok {
				return fmt.Errorf("effect %q not allowed in %s", e.Effect, group)
			}
			*dst += e.Value
		}
		return nil
	}
	if err := apply("on_draw", t.OnDraw, map[string]*int{
		"damage_enemy": &rule.DrawDamage,
		"add_chips":    &rule.DrawChips,
	}); err != nil {
		return TagRule{}, err
	}
	if err := apply("passive", t.Passive, map[string]*int{
		"add_flat_damage":    &rule.FlatDamage,
		"add_damage_percent": &rule.DamagePercent,
		"add_crit_percent":   &rule.CritPercent,
	}); err != nil {
		return TagRule{}, err
	}
	if err := apply("on_outcome", t.OnOutcome, map[string]*int{
		"add_chips_on_win": &rule.WinChips,
	}); err != nil {
		return TagRule{}, err
	}
	return rule, nil
}

func convertEvent(e Event) (*narrative.Event, error) {
	ev := &narrative.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Portrait:    e.Portrait,
		Selected:    -1,
	}
	for _, c := range e.Choices {
		ch := narrative.Choice{
			Text:              c.Text,
			Result:            c.Result,
			Chips:             c.Chips,
			Sanity:            c.Sanity,
			StatusValue:       c.StatusValue,
			StatusDuration:    c.StatusDuration,
			Trinket:           c.Trinket,
			EnemyHPMultiplier: c.EnemyHPMultiplier,
			Requires:          c.Requires,
		}
		for _, name := range c.Tags {
			tag, err := card.ParseTag(name)
			if err != nil {
				return nil, err
			}
			ch.Tags = append(ch.Tags, tag)
		}
		if c.Status != "" {
			k, err := status.ParseKind(c.Status)
			if err != nil {
				return nil, err
			}
			ch.Status = k
		}
		ev.Choices = append(ev.Choices, ch)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}
