package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *Node {
	return &Node{
		ID:   "main_menu",
		Kind: KindMenu,
		Text: LocalizedText{EN: "Welcome", BN: "স্বাগতম"},
		Children: []*Node{
			{
				ID:      "balance_check",
				Kind:    KindOption,
				Trigger: "flow_balance_check",
				Text:    LocalizedText{EN: "Check balance", Banglish: "Balance dekhun"},
				Keywords: KeywordSet{
					EN:       []string{"Balance", "Check Balance"},
					BN:       []string{"ব্যালেন্স"},
					Banglish: []string{"balance koto"},
				},
			},
			{
				ID:   "offers",
				Kind: KindCarousel,
				Text: LocalizedText{EN: "Offers"},
				Children: []*Node{
					{ID: "offer_card", Kind: KindCard, Text: LocalizedText{EN: "10GB for 149 taka"}},
				},
			},
		},
	}
}

func TestWalk_ExtractsDocuments(t *testing.T) {
	res, err := Walk(testTree())
	require.NoError(t, err)

	// Two root texts, two option texts, one carousel text, one card text.
	require.Len(t, res.Documents, 6)

	assert.Equal(t, Document{NodeID: "main_menu", Label: "menu", Content: "Welcome"}, res.Documents[0])
	assert.Equal(t, Document{NodeID: "main_menu", Label: "menu", Content: "স্বাগতম"}, res.Documents[1])
	assert.Equal(t, Document{NodeID: "balance_check", Label: "option", Content: "Check balance"}, res.Documents[2])
	assert.Equal(t, Document{NodeID: "offer_card", Label: "card-title", Content: "10GB for 149 taka"}, res.Documents[5])
}

func TestWalk_SkipsEmptyTextVariants(t *testing.T) {
	res, err := Walk(&Node{
		ID:   "only_bn",
		Kind: KindMessage,
		Text: LocalizedText{BN: "শুধু বাংলা"},
	})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "শুধু বাংলা", res.Documents[0].Content)
	assert.Equal(t, "message", res.Documents[0].Label)
}

func TestWalk_NormalizesTriggerKeywords(t *testing.T) {
	res, err := Walk(testTree())
	require.NoError(t, err)

	require.Len(t, res.Triggers, 1)
	rec := res.Triggers[0]
	assert.Equal(t, "flow_balance_check", rec.ID)
	assert.Equal(t, "balance_check", rec.NodeID)
	assert.Equal(t, []string{"balance", "check balance", "ব্যালেন্স", "balance koto"}, rec.Keywords)
}

func TestWalk_MergesDuplicateTriggers(t *testing.T) {
	res, err := Walk(&Node{
		ID:   "root",
		Kind: KindMenu,
		Children: []*Node{
			{
				ID: "path_a", Kind: KindOption, Trigger: "flow_recharge",
				Keywords: KeywordSet{EN: []string{"recharge", "top up"}},
			},
			{
				ID: "path_b", Kind: KindOption, Trigger: "flow_recharge",
				Keywords: KeywordSet{EN: []string{"recharge", "add money"}},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Triggers, 1)
	rec := res.Triggers[0]
	assert.Equal(t, "path_a", rec.NodeID)
	assert.Equal(t, []string{"recharge", "top up", "add money"}, rec.Keywords)
}

func TestWalk_WarnsOnKeywordlessTrigger(t *testing.T) {
	res, err := Walk(&Node{
		ID:      "silent",
		Kind:    KindOption,
		Trigger: "flow_silent",
	})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "silent", res.Warnings[0].NodeID)
	assert.Contains(t, res.Warnings[0].Message, "flow_silent")
}

func TestWalk_Errors(t *testing.T) {
	tests := []struct {
		name    string
		root    *Node
		wantErr error
	}{
		{"nil root", nil, ErrNilNode},
		{"missing id", &Node{Kind: KindMenu}, ErrMissingID},
		{"invalid kind", &Node{ID: "x", Kind: "widget"}, ErrInvalidKind},
		{
			"nil child",
			&Node{ID: "root", Kind: KindMenu, Children: []*Node{nil}},
			ErrNilNode,
		},
		{
			"duplicate node id",
			&Node{ID: "root", Kind: KindMenu, Children: []*Node{
				{ID: "dup", Kind: KindMessage},
				{ID: "dup", Kind: KindMessage},
			}},
			ErrCycle,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Walk(tc.root)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
