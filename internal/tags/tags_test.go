package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndJoinRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "VIP", []string{"VIP"}},
		{"multiple", "VIP, Sale, Wholesale", []string{"VIP", "Sale", "Wholesale"}},
		{"embedded whitespace preserved", "VIP , Sale", []string{"VIP , Sale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.wire)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wire, Join(got))
		})
	}
}

func TestJoinEmptyYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "", Join([]string{}))
}

func TestUnionSortedDedupesAndSorts(t *testing.T) {
	got := UnionSorted([]string{"VIP", "Sale"}, []string{"Sale", "Alpha"})
	assert.Equal(t, []string{"Alpha", "Sale", "VIP"}, got)

	// Strictly ascending, no duplicates.
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

func TestUnionSortedKeepsDeselectedBaselineTags(t *testing.T) {
	baseline := []string{"VIP", "Sale"}
	working := Toggle(baseline, "Sale")

	assert.ElementsMatch(t, []string{"VIP"}, working)
	// "Sale" stays in the candidate pool so it can be re-selected.
	assert.Equal(t, []string{"Sale", "VIP"}, UnionSorted(baseline, working))
}

func TestFilterByQuery(t *testing.T) {
	candidates := []string{"Big Sale", "sale-pending", "VIP", "Wholesale"}

	assert.Equal(t, candidates, FilterByQuery(candidates, ""))
	assert.Equal(t, []string{"Big Sale", "sale-pending", "Wholesale"}, FilterByQuery(candidates, "sale"))
	assert.Empty(t, FilterByQuery(candidates, "nothing"))
}

func TestFilterByQueryEscapesMetacharacters(t *testing.T) {
	candidates := []string{"a.b", "axb", "c[1]", "cX1Y"}

	// "a.b" must match only the literal "a.b", not the regex pattern a-any-b.
	assert.Equal(t, []string{"a.b"}, FilterByQuery(candidates, "a.b"))
	assert.Equal(t, []string{"c[1]"}, FilterByQuery(candidates, "c[1]"))
}

func TestToggleIsSelfInverse(t *testing.T) {
	working := []string{"VIP", "Sale"}

	assert.ElementsMatch(t, []string{"VIP"}, Toggle(working, "Sale"))
	assert.ElementsMatch(t, working, Toggle(Toggle(working, "Sale"), "Sale"))
	assert.ElementsMatch(t, working, Toggle(Toggle(working, "New"), "New"))
}

func TestToggleScenarioFromBaseline(t *testing.T) {
	working := Split("VIP, Sale")
	working = Toggle(working, "Sale")
	assert.Equal(t, "VIP", Join(working))
}

func TestHasExactMatch(t *testing.T) {
	candidates := []string{"Sale", "VIP"}

	assert.True(t, HasExactMatch(candidates, "Sale"))
	assert.True(t, HasExactMatch(candidates, "  Sale  "))
	assert.False(t, HasExactMatch(candidates, "sale"))
	assert.False(t, HasExactMatch(candidates, ""))
	assert.False(t, HasExactMatch(candidates, "   "))
}

func TestHighlightMatch(t *testing.T) {
	tests := []struct {
		name   string
		option string
		query  string
		want   Highlight
	}{
		{"middle match", "Wholesale", "sale", Highlight{Before: "Whole", Match: "sale", After: ""}},
		{"case-insensitive", "Big Sale", "SALE", Highlight{Before: "Big ", Match: "Sale", After: ""}},
		{"prefix", "Sale2026", "sal", Highlight{Before: "", Match: "Sal", After: "e2026"}},
		{"no match", "VIP", "sale", Highlight{Before: "VIP"}},
		{"empty query", "VIP", "", Highlight{Before: "VIP"}},
		{"query trimmed", "Wholesale", "  sale ", Highlight{Before: "Whole", Match: "sale", After: ""}},
		// Case folding can change byte length; the fragments must still be
		// slices of the original option, never of its lowered form.
		{"fold grows bytes", "Ⱥ", "ⱥ", Highlight{Before: "", Match: "Ⱥ", After: ""}},
		{"dotted capital I", "İstanbul", "İst", Highlight{Before: "", Match: "İst", After: "anbul"}},
		{"multibyte before match", "Ⱥ-Sale", "sale", Highlight{Before: "Ⱥ-", Match: "Sale", After: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightMatch(tt.option, tt.query)
			assert.Equal(t, tt.want, got)
			// The fragments always reassemble the original option.
			assert.Equal(t, tt.option, got.Before+got.Match+got.After)
		})
	}
}
