package domain

import "strings"

// Category is one of the fixed classification tags used to group endpoints.
type Category string

// CategoryOther is returned when no rule matches.
const CategoryOther Category = "other"

// CategoryInfo is one row of the category table.
type CategoryInfo struct {
	Key         Category
	Display     string
	Description string
	Icon        string
	Keywords    []string
}

// categoryTable is ordered by priority: the first row whose keyword occurs in a path wins.
var categoryTable = []CategoryInfo{
	{Key: "openai", Display: "OpenAI", Description: "OpenAI (GPT, DALL-E, Whisper, TTS, Sora)", Icon: "robot",
		Keywords: []string{"openai", "gpt", "dall-e", "whisper", "tts", "sora"}},
	{Key: "claude", Display: "Claude", Description: "Anthropic Claude", Icon: "brain",
		Keywords: []string{"claude", "anthropic"}},
	{Key: "gemini", Display: "Gemini", Description: "Google Gemini", Icon: "google",
		Keywords: []string{"gemini", "google"}},
	{Key: "suno", Display: "Suno", Description: "Suno AI Music Generation", Icon: "music",
		Keywords: []string{"suno"}},
	{Key: "midjourney", Display: "Midjourney", Description: "Midjourney Image Generation", Icon: "palette",
		Keywords: []string{"midjourney", "mj"}},
	{Key: "doubao", Display: "Doubao", Description: "ByteDance Doubao (字节豆包)", Icon: "fire",
		Keywords: []string{"doubao", "豆包"}},
	{Key: "kling", Display: "Kling", Description: "Kuaishou Kling Video (快手可灵)", Icon: "video",
		Keywords: []string{"kling", "可灵"}},
	{Key: "runway", Display: "Runway", Description: "Runway AI Video Editing", Icon: "film",
		Keywords: []string{"runway"}},
	{Key: "minimax", Display: "MiniMax", Description: "MiniMax AI", Icon: "microchip",
		Keywords: []string{"minimax"}},
	{Key: "ideogram", Display: "Ideogram", Description: "Ideogram Image Generation", Icon: "image",
		Keywords: []string{"ideogram"}},
	{Key: "flux", Display: "Flux", Description: "Flux AI Image Generation", Icon: "bolt",
		Keywords: []string{"flux"}},
	{Key: "higgsfield", Display: "Higgsfield", Description: "Higgsfield AI", Icon: "camera",
		Keywords: []string{"higgsfield"}},
	{Key: "qwen", Display: "Qwen", Description: "Alibaba Qwen (阿里通义)", Icon: "cloud",
		Keywords: []string{"qwen", "通义", "tongyi"}},
	{Key: "grok", Display: "Grok", Description: "xAI Grok", Icon: "x-twitter",
		Keywords: []string{"grok"}},
	{Key: CategoryOther, Display: "Other", Description: "Other APIs", Icon: "folder"},
}

// Classify maps a raw folder path to a category.
func Classify(folderPath string) Category {
	if folderPath == "" {
		return CategoryOther
	}
	lower := strings.ToLower(folderPath)
	for _, row := range categoryTable {
		for _, kw := range row.Keywords {
			if strings.Contains(lower, kw) {
				return row.Key
			}
		}
	}
	return CategoryOther
}

// AllCategories returns every category key in priority order, "other" last.
func AllCategories() []Category {
	keys := make([]Category, len(categoryTable))
	for i, row := range categoryTable {
		keys[i] = row.Key
	}
	return keys
}

// Categories returns a copy of the category table.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// LookupCategory returns the table row for key.
func LookupCategory(key string) (CategoryInfo, bool) {
	for _, row := range categoryTable {
		if string(row.Key) == key {
			return row, true
		}
	}
	return CategoryInfo{}, false
}

// Icon returns the navigation icon for a sanitized category or group key; "" when none is known.
func Icon(key string) string {
	if row, ok := LookupCategory(key); ok {
		return row.Icon
	}
	return ""
}
