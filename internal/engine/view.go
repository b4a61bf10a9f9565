package engine

import (
	"fmt"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/narrative"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// View is a read-only snapshot of the run for renderers and the HTTP API.
type View struct {
	State      string         `json:"state"`
	Act        string         `json:"act"`
	Encounter  int            `json:"encounter"`
	Encounters int            `json:"encounters"`
	Round      int            `json:"round"`
	Class      string         `json:"class"`
	Chips      int            `json:"chips"`
	Bet        int            `json:"bet"`
	Sanity     int            `json:"sanity"`
	MaxSanity  int            `json:"max_sanity"`
	Tier       string         `json:"tier"`
	Player     HandView       `json:"player"`
	Dealer     HandView       `json:"dealer"`
	BetOptions []BetView      `json:"bet_options,omitempty"`
	Enemy      *EnemyView     `json:"enemy,omitempty"`
	Statuses   []StatusView   `json:"statuses,omitempty"`
	Trinkets   []TrinketView  `json:"trinkets,omitempty"`
	Intro      string         `json:"intro,omitempty"`
	Preview    string         `json:"preview,omitempty"`
	Event      *EventView     `json:"event,omitempty"`
	Drop       *TrinketView   `json:"drop,omitempty"`
	Reward     *RewardView    `json:"reward,omitempty"`
	Targeting  string         `json:"targeting,omitempty"`
	Remaining  float64        `json:"remaining,omitempty"`
	Popup      string         `json:"popup,omitempty"`
	Deck       DeckView       `json:"deck"`
	TagCounts  map[string]int `json:"tag_counts,omitempty"`
	Stats      RunStats       `json:"stats"`
}

type CardView struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	FaceUp bool     `json:"face_up"`
	Tags   []string `json:"tags,omitempty"`
	// Modified is set when a trinket changed the card's value this hand.
	Modified bool `json:"modified,omitempty"`
}

type HandView struct {
	Cards  []CardView `json:"cards"`
	Score  int        `json:"score"`
	Busted bool       `json:"busted,omitempty"`
}

type BetView struct {
	Label   string `json:"label"`
	Amount  int    `json:"amount"`
	Enabled bool   `json:"enabled"`
}

type AbilityView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Trigger     string `json:"trigger"`
	Cooldown    int    `json:"cooldown,omitempty"`
}

type EnemyView struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"max_hp"`
	DisplayHP float64       `json:"display_hp"`
	Threat    int           `json:"threat,omitempty"`
	Abilities []AbilityView `json:"abilities"`
}

type StatusView struct {
	Kind     string `json:"kind"`
	Value    int    `json:"value"`
	Duration int    `json:"duration"`

	// Intensity is 1 while the status is fresh and 0.5 on its last round.
	Intensity float64 `json:"intensity"`
}

type TrinketView struct {
	Slot      string         `json:"slot,omitempty"`
	Name      string         `json:"name"`
	Rarity    string         `json:"rarity"`
	Tier      int            `json:"tier"`
	Cooldown  int            `json:"cooldown,omitempty"`
	Stacks    int            `json:"stacks,omitempty"`
	SellValue int            `json:"sell_value"`
	Affixes   []string       `json:"affixes,omitempty"`
	Active    string         `json:"active,omitempty"`
	Tracked   map[string]int `json:"tracked,omitempty"`
}

type ChoiceView struct {
	Text   string `json:"text"`
	Locked bool   `json:"locked,omitempty"`
}

type EventView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Choices     []ChoiceView `json:"choices"`
	Selected    int          `json:"selected"`
	Result      string       `json:"result,omitempty"`
	RerollCost  int          `json:"reroll_cost,omitempty"`
}

type RewardView struct {
	Tag   string   `json:"tag"`
	Cards []string `json:"cards"`
}

type DeckView struct {
	Draw    int `json:"draw"`
	Discard int `json:"discard"`
	Out     int `json:"out"`
}

// View builds the snapshot of the current frame.
func (e *Engine) View() View {
	h, d := e.Human(), e.Dealer()
	v := View{
		State:      e.State().String(),
		Act:        e.act.Name,
		Encounter:  e.act.Index() + 1,
		Encounters: e.act.Len(),
		Round:      e.round,
		Class:      h.Class.String(),
		Chips:      h.Chips,
		Bet:        h.Bet,
		Sanity:     h.Sanity,
		MaxSanity:  h.MaxSanity,
		Tier:       h.Tier().String(),
		Player:     e.handView(&h.Hand, true),
		Dealer:     e.handView(&d.Hand, h.SeesHoleCard()),
		TagCounts:  e.tags.Counts(),
		Stats:      e.stats,
	}
	v.Deck.Draw, v.Deck.Discard, v.Deck.Out = e.deck.Counts()
	if text, ok := e.Popup(); ok {
		v.Popup = text
	}
	if t, ok := e.phase.(timed); ok {
		v.Remaining = *t.timer()
	}
	for _, s := range h.Status.Active() {
		v.Statuses = append(v.Statuses, StatusView{Kind: s.Kind.String(), Value: s.Value, Duration: s.Duration, Intensity: s.Intensity})
	}
	if in := h.Trinket(player.ClassSlot()); in != nil {
		v.Trinkets = append(v.Trinkets, trinketView(player.ClassSlot().String(), in))
	}
	for i := 0; i < player.SlotCount; i++ {
		if in := h.Trinket(player.Slot(i)); in != nil {
			v.Trinkets = append(v.Trinkets, trinketView(player.Slot(i).String(), in))
		}
	}
	if en := e.enemy; en != nil {
		ev := &EnemyView{Key: en.Key, Name: en.Name, HP: en.HP, MaxHP: en.MaxHP, DisplayHP: en.DisplayHP, Threat: en.Threat}
		for _, a := range en.Bus.Abilities() {
			ev.Abilities = append(ev.Abilities, AbilityView{Name: a.Name, Description: a.Description, Trigger: a.Trigger.String(), Cooldown: a.Cooldown})
		}
		v.Enemy = ev
	}

	switch p := e.phase.(type) {
	case *introPhase:
		v.Intro = e.act.Intro
	case *bettingPhase:
		for _, o := range h.BetOptions(e.cfg.Bets()) {
			v.BetOptions = append(v.BetOptions, BetView{Label: o.Label(), Amount: o.Amount, Enabled: o.Enabled})
		}
	case *combatPreviewPhase:
		if def, ok := e.content.Enemies[p.enemy]; ok {
			v.Preview = def.Name
		}
	case *eventPreviewPhase:
		v.Preview = p.event.Title
		v.Event = e.eventView(p.event, nil)
		v.Event.RerollCost = e.RerollCost()
	case *eventPhase:
		v.Event = e.eventView(p.event, p)
	case *targetingPhase:
		v.Targeting = p.Slot.String()
	case *dropPhase:
		tv := trinketView("", p.offer)
		v.Drop = &tv
	case *rewardPhase:
		rv := &RewardView{Tag: p.tag.String()}
		for _, id := range p.offers {
			rv.Cards = append(rv.Cards, id.Code())
		}
		v.Reward = rv
	}
	return v
}

func (e *Engine) handView(h *card.Hand, seeHidden bool) HandView {
	hv := HandView{Score: h.VisibleScore()}
	if seeHidden {
		hv.Score = h.Score()
		hv.Busted = h.Busted()
	}
	for _, c := range h.Cards {
		cv := CardView{Code: "??", Name: "??", FaceUp: c.FaceUp}
		if c.FaceUp || seeHidden {
			cv.Code, cv.Name = c.ID.Code(), c.ID.String()
			for _, t := range e.tags.Tags(c.ID) {
				cv.Tags = append(cv.Tags, t.String())
			}
			cv.Modified = c.Override != card.Override{}
		}
		hv.Cards = append(hv.Cards, cv)
	}
	return hv
}

func (e *Engine) eventView(ev *narrative.Event, p *eventPhase) *EventView {
	out := &EventView{ID: ev.ID, Title: ev.Title, Description: ev.Description, Selected: ev.Selected}
	for _, c := range ev.Choices {
		out.Choices = append(out.Choices, ChoiceView{Text: c.Text, Locked: e.ChoiceLocked(c)})
	}
	if p != nil && p.choice != nil {
		out.Result = p.choice.Result
	}
	return out
}

func trinketView(slot string, in *trinket.Instance) TrinketView {
	tv := TrinketView{
		Slot:      slot,
		Name:      in.Name(),
		Rarity:    in.Rarity.String(),
		Tier:      in.Tier,
		Cooldown:  in.Cooldown,
		Stacks:    in.Stacks,
		SellValue: in.SellValue,
	}
	for _, a := range in.Affixes {
		tv.Affixes = append(tv.Affixes, fmt.Sprintf("%s +%d %s", a.Name, a.Value, a.Stat))
	}
	if a := in.Template.Active; a != nil {
		tv.Active = a.Description
	}
	if len(in.Tracked) > 0 {
		tv.Tracked = make(map[string]int, len(in.Tracked))
		for k, n := range in.Tracked {
			tv.Tracked[string(k)] = n
		}
	}
	return tv
}
