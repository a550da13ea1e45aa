package segment

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/refrain/internal/stats"
	"github.com/ppiankov/refrain/internal/tokenize"
)

func split(text string) [][]string {
	segments := tokenize.Document(text)
	s := New(stats.Build(segments))

	out := make([][]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, s.Split(seg))
	}
	return out
}

func TestSplit_PureRepeatStaysSeparate(t *testing.T) {
	got := split("a a a")

	assert.Equal(t, [][]string{{"a", "a", "a"}}, got)
}

func TestSplit_RepeatRunFollowedByWords(t *testing.T) {
	got := split("quack quack quack goes the duck\nquack quack quack goes the duck")

	// Only windows made entirely of "quack" are excluded. A window that
	// runs on into other words is scored normally, and the whole repeated
	// line wins.
	line := "quack quack quack goes the duck"
	assert.Equal(t, [][]string{{line}, {line}}, got)
}

func TestSplit_RepeatedLineIsOnePhrase(t *testing.T) {
	got := split("how I wonder\nhow I wonder")

	assert.Equal(t, [][]string{{"how i wonder"}, {"how i wonder"}}, got)
}

func TestSplit_SingleTokenSegment(t *testing.T) {
	got := split("Oh! twinkle twinkle")

	require.Len(t, got, 2)
	assert.Equal(t, []string{"oh"}, got[0])
	assert.Equal(t, []string{"twinkle", "twinkle"}, got[1])
}

func TestSplit_Coverage(t *testing.T) {
	texts := []string{
		"Twinkle, twinkle, little star, how I wonder what you are.\nUp above the world so high",
		"la la la la land\nla la la love\nla la land",
		"na na na na, na na na na, hey hey hey, goodbye",
		"Old MacDonald had a farm, E-I-E-I-O\nAnd on his farm he had a cow, E-I-E-I-O\nWith a moo moo here and a moo moo there",
		"don't stop me now, don't stop me\n'cause I'm having a good time",
	}

	for _, text := range texts {
		segments := tokenize.Document(text)
		s := New(stats.Build(segments))

		for _, seg := range segments {
			phrases := s.Split(seg)
			require.NotEmpty(t, phrases)

			var rebuilt []string
			for _, p := range phrases {
				rebuilt = append(rebuilt, strings.Fields(p)...)
			}
			assert.Equal(t, []string(seg), rebuilt, "text %q", text)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := "la la la la land\nla la la love\nla la land"

	assert.Equal(t, split(text), split(text))
}

func TestBaseline_Floor(t *testing.T) {
	idx := stats.NewBuilder().SetCount("star", 3).Index()
	seg := tokenize.Segment{"star", "unseen"}

	assert.Equal(t, 3.0, Baseline(idx, seg, 0).Score)

	c := Baseline(idx, seg, 1)
	assert.Equal(t, 1.0, c.Score)
	assert.Equal(t, 0, c.Count)
	assert.True(t, c.Baseline)
}

func TestScore_Formula(t *testing.T) {
	idx := stats.NewBuilder().
		SetCount("little star", 2).
		AddNext("little star", "how").
		Index()

	c := Score(idx, "little star", 2)

	want := math.Pow(2, 1.1) * math.Pow(2, 1.6) * 1.0 * 1.2
	assert.InDelta(t, want, c.Score, 1e-12)
	assert.Equal(t, 1.0, c.Branching)
	assert.Equal(t, RepeatBoost, c.Repeat)
}

func TestScore_UnseenWindowScoresZero(t *testing.T) {
	idx := stats.NewBuilder().Index()

	c := Score(idx, "never seen", 2)

	assert.Equal(t, 0.0, c.Score)
	assert.Equal(t, 1.0, c.Repeat)
}

func TestScore_BranchingPenalty(t *testing.T) {
	idx := stats.NewBuilder().
		SetCount("over the", 3).
		AddNext("over the", "rainbow", "moon").
		SetCount("under the", 3).
		AddNext("under the", "sea").
		Index()

	branching := Score(idx, "over the", 2)
	unique := Score(idx, "under the", 2)

	assert.Less(t, branching.Score, unique.Score)
	assert.InDelta(t, unique.Score*BranchingPenalty, branching.Score, 1e-12)
}

func TestScore_RepeatBoostThreshold(t *testing.T) {
	idx := stats.NewBuilder().
		SetCount("once only", 1).
		SetCount("twice over", 2).
		Index()

	assert.Equal(t, 1.0, Score(idx, "once only", 2).Repeat)
	assert.Equal(t, RepeatBoost, Score(idx, "twice over", 2).Repeat)
}

func TestIsPureRepeat(t *testing.T) {
	assert.True(t, IsPureRepeat([]string{"moo", "moo"}))
	assert.True(t, IsPureRepeat([]string{"moo", "moo", "moo"}))
	assert.False(t, IsPureRepeat([]string{"moo", "moo", "oink"}))
	assert.False(t, IsPureRepeat([]string{"oink", "moo"}))
}

func TestOutranks_TiePrefersLonger(t *testing.T) {
	short := Candidate{Length: 1, Score: 4}
	long := Candidate{Length: 3, Score: 4}

	assert.True(t, outranks(long, short))
	assert.False(t, outranks(short, long))
	assert.True(t, outranks(Candidate{Length: 1, Score: 5}, long))
	assert.False(t, outranks(Candidate{Length: 2, Score: 3}, short))
}

func TestChoose_TraceListsSkippedRepeats(t *testing.T) {
	segments := tokenize.Document("moo moo moo")
	s := New(stats.Build(segments))

	d := s.Choose(segments[0], 0, true)

	require.Len(t, d.Candidates, 3)
	assert.True(t, d.Candidates[0].Baseline)
	assert.True(t, d.Candidates[1].PureRepeat)
	assert.True(t, d.Candidates[2].PureRepeat)
	assert.Equal(t, "moo", d.Chosen.Phrase)
	assert.Equal(t, 3.0, d.Chosen.Score)
}

func TestTrace_MatchesSplit(t *testing.T) {
	segments := tokenize.Document("twinkle twinkle little star\ntwinkle twinkle little star, how I wonder")
	s := New(stats.Build(segments))

	for _, seg := range segments {
		decisions := s.Trace(seg)
		phrases := s.Split(seg)

		require.Len(t, decisions, len(phrases))
		for i, d := range decisions {
			assert.Equal(t, phrases[i], d.Chosen.Phrase)
			assert.Nil(t, s.Choose(seg, d.Start, false).Candidates)
		}
	}
}
