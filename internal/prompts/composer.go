// Package prompts builds the text sent to the completion service and parses
// what comes back.
package prompts

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/charcraft/internal/clients/completion"
	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
)

// SystemInstruction is the persona sent with every choice prompt
const SystemInstruction = "あなたは創作キャラクターを一緒に作る楽しいアシスタントです。" +
	"ユーザーと友達のような親しみやすい関係で、魅力的なキャラクター設定を提案してください。"

const emptyContext = "まだ何も決まっていません"

// ChoiceOptions are the completion settings for option generation
var ChoiceOptions = completion.Options{
	MaxOutputTokens:   800,
	Temperature:       0.9,
	SystemInstruction: SystemInstruction,
}

// ReactionOptions are the completion settings for the reaction after a pick
var ReactionOptions = completion.Options{
	MaxOutputTokens: 200,
	Temperature:     0.8,
}

// CelebrationOptions are the completion settings for the completion message
var CelebrationOptions = completion.Options{
	MaxOutputTokens: 200,
	Temperature:     0.9,
}

// Composer renders prompts against a field catalog
type Composer struct {
	registry *fields.Registry
}

// NewComposer creates a composer for reg
func NewComposer(reg *fields.Registry) *Composer {
	if reg == nil {
		panic("fields registry is required")
	}
	return &Composer{registry: reg}
}

// ChoicePrompt asks for four candidate values for fieldKey. It fails with an
// unknown field error when fieldKey is not in the catalog.
func (c *Composer) ChoicePrompt(fieldKey string, draft entities.CharacterDraft) (string, error) {
	field, err := c.registry.ByKey(fieldKey)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("あなたは友達と一緒に妄想でキャラクターを作る楽しいアシスタントです。\n\n")
	fmt.Fprintf(&sb, "現在決まっているキャラクター設定: %s\n\n", c.summary(draft, ", "))
	fmt.Fprintf(&sb, "次に決める項目: %s (%s)\n\n", field.Label, field.Key)
	if field.InputType == fields.InputSelect && len(field.Options) > 0 {
		fmt.Fprintf(&sb, "参考になる候補: %s\n\n", strings.Join(field.Options, "、"))
	}
	sb.WriteString("以下の4つの選択肢を提案してください：\n")
	sb.WriteString("1. 王道パターン1: 安心感があって、とっつきやすい定番の設定\n")
	sb.WriteString("2. 王道パターン2: 別の角度からの定番パターン\n")
	sb.WriteString("3. ギャップ萌え: 「見た目と中身のギャップ」や「意外な一面」がある設定\n")
	sb.WriteString("4. パーソナライズ: これまでの設定から考えて、このキャラに最も似合いそうな設定\n\n")
	sb.WriteString("各選択肢は簡潔に（10-15文字程度）、魅力的に提案してください。\n")
	sb.WriteString("友達同士の会話のような、楽しくてワクワクする口調で話してください。\n\n")
	sb.WriteString("回答形式:\n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&sb, "%s%d: [具体的な内容]\n", optionPrefix, i)
	}
	fmt.Fprintf(&sb, "%s: [選択肢についての楽しいコメント（1-2行）]", commentPrefix)

	return sb.String(), nil
}

// ReactionPrompt asks for a short reaction to chosenValue that leads into the next field
func (c *Composer) ReactionPrompt(previousLabel, chosenValue, nextLabel string, draft entities.CharacterDraft) string {
	var sb strings.Builder
	sb.WriteString("あなたは友達と一緒にキャラクターを妄想して作る楽しいアシスタントです。\n\n")
	fmt.Fprintf(&sb, "現在のキャラクター設定: %s\n\n", c.summary(draft, ", "))
	fmt.Fprintf(&sb, "ユーザーが「%s」に「%s」を選択しました。\n\n", previousLabel, chosenValue)
	sb.WriteString("以下の要求に従って、自然で気の利いた反応をしてください：\n\n")
	fmt.Fprintf(&sb, "1. 選択した内容（%s）に対して、具体的で個性的なコメントをする\n", chosenValue)
	sb.WriteString("2. そのキャラクターの魅力や面白さを表現する\n")
	sb.WriteString("3. 既存の設定との組み合わせで生まれる面白さがあれば触れる\n")
	fmt.Fprintf(&sb, "4. %sへの自然な話題転換を含める\n", nextLabel)
	sb.WriteString("5. 友達同士の楽しい会話のような口調で\n")
	sb.WriteString("6. 絵文字を適度に使って親しみやすく\n\n")
	sb.WriteString("150文字以内で、ワンパターンにならない自然な反応を生成してください。")
	return sb.String()
}

// CelebrationPrompt asks for a short message celebrating the finished character
func (c *Composer) CelebrationPrompt(draft entities.CharacterDraft) string {
	var sb strings.Builder
	sb.WriteString("素晴らしいキャラクターが完成しました！\n\n")
	sb.WriteString("完成したキャラクター：\n")
	sb.WriteString(c.summary(draft, ", "))
	sb.WriteString("\n\n")
	sb.WriteString("このキャラクターの魅力的な点や面白い組み合わせを指摘しながら、完成を祝福するメッセージを150文字以内で作成してください。\n\n")
	sb.WriteString("要求：\n")
	sb.WriteString("1. キャラクターの個性や魅力を具体的に褒める\n")
	sb.WriteString("2. 設定の組み合わせから生まれる面白さや意外性を表現\n")
	sb.WriteString("3. 完成への達成感を共有する\n")
	sb.WriteString("4. 友達同士の楽しい会話口調で\n")
	sb.WriteString("5. 適度に絵文字を使って親しみやすく")
	return sb.String()
}

// summary lists answered catalog fields as "label: value" in catalog order.
// Keys outside the catalog are left out.
func (c *Composer) summary(draft entities.CharacterDraft, sep string) string {
	var parts []string
	for _, f := range c.registry.All() {
		if !draft.IsAnswered(f.Key) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Label, draft.Value(f.Key)))
	}
	if len(parts) == 0 {
		return emptyContext
	}
	return strings.Join(parts, sep)
}
