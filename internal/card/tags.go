package card

import (
	"fmt"
	"strings"
)

// Tag is a run-scoped property attached to one card of the bank.
type Tag int

// Declaration order is the order tag effects resolve on a single card.
const (
	Cursed Tag = iota
	Vampiric
	Lucky
	Brutal
	Blessed
	tagCount
)

var tagNames = [...]string{"CURSED", "VAMPIRIC", "LUCKY", "BRUTAL", "BLESSED"}

func (t Tag) String() string {
	if t < 0 || t >= tagCount {
		return "UNKNOWN"
	}
	return tagNames[t]
}

// AllTags lists the tags in resolution order.
func AllTags() []Tag {
	tags := make([]Tag, 0, tagCount)
	for t := Tag(0); t < tagCount; t++ {
		tags = append(tags, t)
	}
	return tags
}

// ParseTag reads a tag name, case-insensitive.
func ParseTag(s string) (Tag, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range tagNames {
		if n == s {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card tag %q", s)
}

// TagTable stores the tags of every card for the current run. Tags are only
// ever added during a run; Reset wipes the table when the run ends.
type TagTable struct {
	bits [DeckSize]uint8
}

// Add attaches a tag. Adding a tag twice is a no-op.
func (t *TagTable) Add(id ID, tag Tag) bool {
	if !id.Valid() || tag < 0 || tag >= tagCount {
		return false
	}
	mask := uint8(1) << tag
	if t.bits[id]&mask != 0 {
		return false
	}
	t.bits[id] |= mask
	return true
}

func (t *TagTable) Has(id ID, tag Tag) bool {
	if !id.Valid() {
		return false
	}
	return t.bits[id]&(uint8(1)<<tag) != 0
}

// Tags returns the tags of a card in resolution order.
func (t *TagTable) Tags(id ID) []Tag {
	if !id.Valid() {
		return nil
	}
	var res []Tag
	for tag := Tag(0); tag < tagCount; tag++ {
		if t.Has(id, tag) {
			res = append(res, tag)
		}
	}
	return res
}

// Untagged lists the cards carrying no tag at all.
func (t *TagTable) Untagged() []ID {
	var res []ID
	for i := 0; i < DeckSize; i++ {
		if t.bits[i] == 0 {
			res = append(res, ID(i))
		}
	}
	return res
}

// Count is the number of cards carrying the tag.
func (t *TagTable) Count(tag Tag) int {
	n := 0
	for i := 0; i < DeckSize; i++ {
		if t.Has(ID(i), tag) {
			n++
		}
	}
	return n
}

// Counts maps tag names to the number of cards carrying them.
func (t *TagTable) Counts() map[string]int {
	res := make(map[string]int, tagCount)
	for _, tag := range AllTags() {
		res[tag.String()] = t.Count(tag)
	}
	return res
}

func (t *TagTable) Reset() {
	t.bits = [DeckSize]uint8{}
}
