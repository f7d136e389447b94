package prompts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/charcraft/internal/prompts"
)

func TestParseChoices_FourOptionsAndComment(t *testing.T) {
	text := "選択肢1: 銀髪ロング\n選択肢2: 黒髪ボブ\n選択肢3: ピンクのツインテール\n選択肢4: 金髪ショート\nコメント: どれも似合いそう！"

	got := prompts.ParseChoices(text)

	assert.Equal(t, []string{"銀髪ロング", "黒髪ボブ", "ピンクのツインテール", "金髪ショート"}, got.Options)
	assert.Equal(t, "どれも似合いそう！", got.Comment)
}

func TestParseChoices_TwoOptionsNoPadding(t *testing.T) {
	got := prompts.ParseChoices("選択肢1: A\n選択肢2: B")

	assert.Equal(t, []string{"A", "B"}, got.Options)
	assert.Empty(t, got.Comment)
}

func TestParseChoices_DropsBlankOptions(t *testing.T) {
	got := prompts.ParseChoices("選択肢1:\n選択肢2: B\n選択肢3: \n選択肢4: D")

	assert.Equal(t, []string{"B", "D"}, got.Options)
}

func TestParseChoices(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantOptions []string
		wantComment string
	}{
		{
			name:        "empty response",
			text:        "",
			wantOptions: []string{},
		},
		{
			name:        "no recognizable lines",
			text:        "ごめんなさい、うまく考えられませんでした",
			wantOptions: []string{},
		},
		{
			name:        "blank lines and chatter are skipped",
			text:        "いい感じの候補です！\n\n  選択肢1: 剣士  \n\n選択肢2: 魔法使い\n",
			wantOptions: []string{"剣士", "魔法使い"},
		},
		{
			name:        "full-width colon",
			text:        "選択肢１：猫耳\nコメント：かわいい",
			wantOptions: []string{"猫耳"},
			wantComment: "かわいい",
		},
		{
			name:        "english prefixes",
			text:        "Option 1: Knight\noption 2: Bard\nComment: fun picks",
			wantOptions: []string{"Knight", "Bard"},
			wantComment: "fun picks",
		},
		{
			name:        "input order kept over numbering",
			text:        "選択肢3: C\n選択肢1: A\n選択肢2: B",
			wantOptions: []string{"C", "A", "B"},
		},
		{
			name:        "text after first separator only",
			text:        "選択肢1: 時間: 朝型",
			wantOptions: []string{"時間: 朝型"},
		},
		{
			name:        "last comment wins",
			text:        "コメント: first\n選択肢1: A\nコメント: second",
			wantOptions: []string{"A"},
			wantComment: "second",
		},
		{
			name:        "more than four are all returned",
			text:        "選択肢1: A\n選択肢2: B\n選択肢3: C\n選択肢4: D\n選択肢5: E",
			wantOptions: []string{"A", "B", "C", "D", "E"},
		},
		{
			name:        "windows line endings",
			text:        "選択肢1: A\r\nコメント: ok\r\n",
			wantOptions: []string{"A"},
			wantComment: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompts.ParseChoices(tt.text)

			assert.Equal(t, tt.wantOptions, got.Options)
			assert.Equal(t, tt.wantComment, got.Comment)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want prompts.Line
	}{
		{line: "選択肢2: 黒髪", want: prompts.Line{Kind: prompts.LineOption, Number: 2, Text: "黒髪"}},
		{line: "選択肢１２：長い", want: prompts.Line{Kind: prompts.LineOption, Number: 12, Text: "長い"}},
		{line: "選択肢: 番号なし", want: prompts.Line{Kind: prompts.LineOption, Number: 0, Text: "番号なし"}},
		{line: "コメント: 楽しい", want: prompts.Line{Kind: prompts.LineComment, Text: "楽しい"}},
		{line: "選択肢について", want: prompts.Line{Kind: prompts.LineOther, Text: "選択肢について"}},
		{line: "  hello ", want: prompts.Line{Kind: prompts.LineOther, Text: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, prompts.Classify(tt.line))
		})
	}
}
