package catalog

import "regexp"

var directIcons = map[string]string{
	// Finance/Business
	"money": "attach_money", "finance": "account_balance", "market": "show_chart",
	"stock": "candlestick_chart", "bank": "account_balance", "wealth": "diamond",

	// Creative/Art
	"art": "palette", "design": "brush", "creative": "color_lens",
	"image": "image", "photo": "photo_camera", "draw": "edit",

	// Tech/Code
	"tech": "computer", "code": "code", "software": "integration_instructions",
	"data": "storage", "cloud": "cloud", "ai": "psychology", "bot": "smart_toy",

	// Nature
	"nature": "nature", "tree": "park", "water": "water_drop",
	"sun": "sunny", "earth": "public", "leaf": "eco",

	// Social
	"people": "people", "friend": "person_add", "community": "groups",
	"connect": "share", "message": "chat", "love": "favorite",

	// Time/Motion
	"time": "schedule", "speed": "speed", "fast": "fast_forward",
	"slow": "slow_motion_video", "wait": "hourglass_empty",

	// Abstract
	"idea": "lightbulb", "thought": "psychology", "concept": "extension",
	"energy": "bolt", "power": "flash_on", "spirit": "auto_awesome",

	// Emotions
	"happy": "sentiment_satisfied", "sad": "sentiment_dissatisfied",
	"hope": "wb_sunny", "fear": "warning", "peace": "self_improvement",

	// Knowledge
	"learn": "school", "book": "menu_book", "knowledge": "local_library",
	"wisdom": "history_edu", "question": "help", "answer": "check_circle",

	// Reporting
	"portfolio": "show_chart", "analysis": "analytics",
}

// Order matters: "lea" appears in both the nature and knowledge groups and
// nature must win.
var semanticRules = []SemanticRule{
	{Pattern: regexp.MustCompile(`(?i)fin|mon|cash|dol|invest`), Icon: "trending_up"},
	{Pattern: regexp.MustCompile(`(?i)cre|art|des|col|sty`), Icon: "palette"},
	{Pattern: regexp.MustCompile(`(?i)tech|cod|soft|dat|app`), Icon: "code"},
	{Pattern: regexp.MustCompile(`(?i)nat|tre|wat|lea|gra`), Icon: "nature"},
	{Pattern: regexp.MustCompile(`(?i)soc|peo|fri|com|cha`), Icon: "people"},
	{Pattern: regexp.MustCompile(`(?i)tim|fas|slo|wa|du`), Icon: "schedule"},
	{Pattern: regexp.MustCompile(`(?i)lea|boo|kno|wis|edu`), Icon: "school"},
	{Pattern: regexp.MustCompile(`(?i)fee|emo|mo|hap|sa`), Icon: "favorite"},
	{Pattern: regexp.MustCompile(`(?i)ene|pow|lig|fir|sp`), Icon: "bolt"},
}

var letterIcons = map[rune]string{
	'a': "abc", 'b': "bookmark", 'c': "circle", 'd': "diamond",
	'e': "email", 'f': "favorite", 'g': "grade", 'h': "help",
	'i': "info", 'j': "join_inner", 'k': "key", 'l': "label",
	'm': "maps_ugc", 'n': "navigation", 'o': "opacity", 'p': "play_arrow",
	'q': "qr_code", 'r': "refresh", 's': "star", 't': "tag",
	'u': "upload", 'v': "verified", 'w': "work", 'x': "close",
	'y': "y", 'z': "zoom_in",
}
