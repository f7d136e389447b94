package progress

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
)

const barWidth = 20

// Bar renders a fixed-width text progress bar, e.g. "▰▰▰▱▱… 15%"
func (p Progress) Bar() string {
	filled := 0
	if p.TotalCount > 0 {
		filled = p.CompletedCount * barWidth / p.TotalCount
	}
	return fmt.Sprintf("%s%s %d%%",
		strings.Repeat("▰", filled),
		strings.Repeat("▱", barWidth-filled),
		p.Percent,
	)
}

// CategoryChecklist renders one line per category with a done/pending icon
func CategoryChecklist(reg *fields.Registry, draft entities.CharacterDraft) string {
	lines := make([]string, 0, len(reg.Categories()))
	for _, category := range reg.Categories() {
		group := reg.ByCategory(category)
		answered := 0
		for _, f := range group {
			if draft.IsAnswered(f.Key) {
				answered++
			}
		}

		icon := "⏳"
		if answered == len(group) {
			icon = "✅"
		}
		lines = append(lines, fmt.Sprintf("%s %s (%d/%d)", icon, CategoryLabel(category), answered, len(group)))
	}
	return strings.Join(lines, "\n")
}

// CategoryLabel is the Japanese heading for a field category
func CategoryLabel(c fields.Category) string {
	switch c {
	case fields.CategoryBasic:
		return "基本情報"
	case fields.CategoryAppearance:
		return "外見"
	case fields.CategoryPersonality:
		return "性格"
	case fields.CategoryBackground:
		return "背景"
	default:
		return string(c)
	}
}
