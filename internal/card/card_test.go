package card

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(codes ...string) *Hand {
	h := &Hand{}
	for _, c := range codes {
		h.Add(MustParse(c), true)
	}
	return h
}

func TestParseCard(t *testing.T) {
	t.Run("ASCII codes", func(t *testing.T) {
		id, err := Parse("10H")
		require.NoError(t, err)
		assert.Equal(t, Hearts, id.Suit())
		assert.Equal(t, Rank(10), id.Rank())

		id, err = Parse("as")
		require.NoError(t, err)
		assert.Equal(t, Spades, id.Suit())
		assert.Equal(t, Ace, id.Rank())
		assert.Equal(t, "AS", id.Code())
	})

	t.Run("Symbol codes", func(t *testing.T) {
		id, err := Parse("8♦")
		require.NoError(t, err)
		assert.Equal(t, New(Diamonds, 8), id)
		assert.Equal(t, "8♦", id.String())
	})

	t.Run("Invalid codes", func(t *testing.T) {
		for _, code := range []string{"", "1X", "11H", "ZZ"} {
			_, err := Parse(code)
			assert.Error(t, err, code)
		}
	})

	t.Run("Bank addressing", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < DeckSize; i++ {
			seen[ID(i).Code()] = true
			assert.Equal(t, ID(i), New(ID(i).Suit(), ID(i).Rank()))
		}
		assert.Len(t, seen, DeckSize)
	})
}

func TestHandScore(t *testing.T) {
	t.Run("Face cards count ten", func(t *testing.T) {
		assert.Equal(t, 20, hand("KH", "QS").Score())
		assert.Equal(t, 13, hand("8D", "5C").Score())
	})

	t.Run("Ace is eleven unless that busts", func(t *testing.T) {
		assert.Equal(t, 21, hand("AH", "KD").Score())
		assert.Equal(t, 12, hand("AH", "AD").Score())
		assert.Equal(t, 21, hand("AH", "AD", "9C").Score())
		assert.Equal(t, 13, hand("AH", "5D", "7C").Score())
	})

	t.Run("Natural blackjack needs exactly two cards", func(t *testing.T) {
		assert.True(t, hand("AS", "10C").Natural())
		assert.False(t, hand("7S", "7C", "7D").Natural())
		assert.Equal(t, 21, hand("7S", "7C", "7D").Score())
	})

	t.Run("Bust", func(t *testing.T) {
		h := hand("10H", "7D", "8C")
		assert.True(t, h.Busted())
		assert.Equal(t, 25, h.Score())
	})

	t.Run("Visible score skips the hole card", func(t *testing.T) {
		h := &Hand{}
		h.Add(MustParse("8S"), false)
		h.Add(MustParse("9H"), true)
		assert.Equal(t, 9, h.VisibleScore())
		assert.Equal(t, 17, h.Score())
		assert.Equal(t, []ID{MustParse("8S")}, h.RevealAll())
		assert.Equal(t, 17, h.VisibleScore())
	})

	t.Run("Overrides", func(t *testing.T) {
		h := hand("3D", "9C")
		h.Cards[0].Override.Value = 10
		assert.Equal(t, 19, h.Score())

		h = hand("4D", "AC")
		h.Cards[0].Override.Doubled = true
		assert.Equal(t, 19, h.Score())

		h = hand("AD", "9C")
		h.Cards[0].Override.Doubled = true
		assert.Equal(t, 11, h.Score())
	})
}

func TestDeck(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	t.Run("Full draw and discard restores a permutation", func(t *testing.T) {
		d := NewDeck(rng)
		d.Shuffle()
		seen := map[ID]bool{}
		for i := 0; i < DeckSize; i++ {
			id, ok := d.Draw()
			require.True(t, ok)
			seen[id] = true
			d.Discard(id)
			draw, discard, out := d.Counts()
			assert.Equal(t, DeckSize, draw+discard+out)
			assert.Equal(t, DeckSize, draw+discard)
		}
		assert.Len(t, seen, DeckSize)
	})

	t.Run("Empty draw pile recycles the discard", func(t *testing.T) {
		d := NewDeck(rng)
		for i := 0; i < DeckSize; i++ {
			id, _ := d.Draw()
			d.Discard(id)
		}
		assert.Equal(t, 0, d.DrawCount())
		_, ok := d.Draw()
		assert.True(t, ok)
		draw, discard, out := d.Counts()
		assert.Equal(t, 51, draw)
		assert.Equal(t, 0, discard)
		assert.Equal(t, 1, out)
	})

	t.Run("Every card out cannot draw", func(t *testing.T) {
		d := NewDeck(rng)
		for i := 0; i < DeckSize; i++ {
			d.Draw()
		}
		_, ok := d.Draw()
		assert.False(t, ok)
	})

	t.Run("Stack and peek", func(t *testing.T) {
		d := NewDeck(rng)
		d.Shuffle()
		want := []ID{MustParse("8D"), MustParse("8S"), MustParse("5C")}
		d.Stack(want...)
		assert.Equal(t, want, d.Peek(3))
		assert.Equal(t, DeckSize, d.DrawCount())
		for _, w := range want {
			got, _ := d.Draw()
			assert.Equal(t, w, got)
		}
	})

	t.Run("Same seed same order", func(t *testing.T) {
		a := NewDeck(rand.New(rand.NewPCG(1, 2)))
		b := NewDeck(rand.New(rand.NewPCG(1, 2)))
		a.Shuffle()
		b.Shuffle()
		assert.Equal(t, a.Peek(DeckSize), b.Peek(DeckSize))
	})

	t.Run("Hand clear discards", func(t *testing.T) {
		d := NewDeck(rng)
		h := &Hand{}
		for i := 0; i < 3; i++ {
			id, _ := d.Draw()
			h.Add(id, true)
		}
		h.Stood = true
		h.Clear(d)
		draw, discard, out := d.Counts()
		assert.Equal(t, 0, h.Len())
		assert.False(t, h.Stood)
		assert.Equal(t, 49, draw)
		assert.Equal(t, 3, discard)
		assert.Equal(t, 0, out)
	})
}

func TestTagTable(t *testing.T) {
	var tt TagTable
	id := MustParse("QS")

	assert.True(t, tt.Add(id, Vampiric))
	assert.True(t, tt.Add(id, Cursed))
	assert.False(t, tt.Add(id, Cursed))
	assert.Equal(t, []Tag{Cursed, Vampiric}, tt.Tags(id))
	assert.Equal(t, 1, tt.Count(Cursed))
	assert.Len(t, tt.Untagged(), DeckSize-1)
	assert.Equal(t, 1, tt.Counts()["VAMPIRIC"])

	tag, err := ParseTag("lucky")
	require.NoError(t, err)
	assert.Equal(t, Lucky, tag)
	_, err = ParseTag("doomed")
	assert.Error(t, err)

	tt.Reset()
	assert.Empty(t, tt.Tags(id))
}
