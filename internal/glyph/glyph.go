// Package glyph maps icon identifiers to terminal glyphs. Every identifier
// has an emoji and a plain-text fallback used when emoji are disabled.
package glyph

import "sync/atomic"

// glyphMap holds [emoji, fallback] per icon identifier
var glyphMap = map[string][2]string{
	// Finance
	"account_balance":        {"🏦", "$"},
	"account_balance_wallet": {"👛", "$"},
	"attach_money":           {"💵", "$"},
	"candlestick_chart":      {"📊", "|"},
	"currency_bitcoin":       {"🪙", "B"},
	"diamond":                {"💎", "<>"},
	"payments":               {"💳", "$"},
	"savings":                {"🐷", "$"},
	"show_chart":             {"📈", "/"},
	"sync_alt":               {"🔁", "<>"},
	"trending_up":            {"📈", "^"},

	// Creative
	"brush":        {"🖌️", "~"},
	"color_lens":   {"🎨", "@"},
	"draw":         {"✏️", "/"},
	"edit":         {"✏️", "/"},
	"image":        {"🖼️", "#"},
	"palette":      {"🎨", "@"},
	"photo_camera": {"📷", "o"},
	"visibility":   {"👁️", "o"},

	// Technology
	"code":                     {"💻", "</>"},
	"computer":                 {"🖥️", "[]"},
	"developer_mode":           {"📱", "{}"},
	"devices":                  {"📱", "[]"},
	"integration_instructions": {"🧩", "{}"},
	"memory":                   {"💾", "::"},
	"settings_ethernet":        {"🔌", "<->"},
	"smart_toy":                {"🤖", "[o]"},
	"storage":                  {"🗄️", "="},
	"terminal":                 {"⌨️", ">_"},
	"cloud":                    {"☁️", "()"},
	"psychology":               {"🧠", "{?}"},

	// Nature
	"eco":                 {"🌿", "*"},
	"energy_savings_leaf": {"🍃", "*"},
	"forest":              {"🌲", "^^"},
	"grass":               {"🌱", "v"},
	"landscape":           {"🏞️", "/\\"},
	"language":            {"🌐", "O"},
	"nature":              {"🌳", "T"},
	"park":                {"🌳", "T"},
	"pets":                {"🐾", "o"},
	"public":              {"🌍", "O"},
	"recycling":           {"♻️", "&"},
	"sunny":               {"☀️", "o"},
	"water_drop":          {"💧", "."},
	"wb_sunny":            {"🌤️", "o"},

	// Social
	"chat":                    {"💬", "\""},
	"connect_without_contact": {"📡", "))"},
	"diversity_1":             {"🫂", "oo"},
	"diversity_3":             {"👥", "ooo"},
	"favorite":                {"❤️", "<3"},
	"forum":                   {"💬", "\""},
	"groups":                  {"👥", "oo"},
	"handshake":               {"🤝", "=="},
	"people":                  {"👥", "oo"},
	"person_add":              {"🙋", "+o"},
	"share":                   {"🔗", "<"},

	// Time and motion
	"fast_forward":      {"⏩", ">>"},
	"hourglass_empty":   {"⏳", "8"},
	"schedule":          {"🕒", "@"},
	"slow_motion_video": {"🐢", ">"},
	"speed":             {"🏎️", ">>"},

	// Abstract
	"auto_awesome": {"✨", "*"},
	"bolt":         {"⚡", "!"},
	"extension":    {"🧩", "+"},
	"flash_on":     {"⚡", "!"},
	"lightbulb":    {"💡", "i"},
	"stars":        {"🌟", "*"},

	// Emotions
	"self_improvement":       {"🧘", "~"},
	"sentiment_dissatisfied": {"🙁", ":("},
	"sentiment_satisfied":    {"🙂", ":)"},
	"warning":                {"⚠️", "!"},

	// Knowledge and tools
	"add_circle":     {"➕", "+"},
	"analytics":      {"📊", "%"},
	"build":          {"🔧", "%"},
	"check_circle":   {"✅", "v"},
	"construction":   {"🚧", "#"},
	"explore":        {"🧭", "N"},
	"handyman":       {"🛠️", "%"},
	"help":           {"❓", "?"},
	"history_edu":    {"📜", "~"},
	"info":           {"ℹ️", "i"},
	"local_library":  {"📚", "||"},
	"menu_book":      {"📖", "[]"},
	"school":         {"🎓", "^"},
	"search":         {"🔍", "?"},

	// Letter tier
	"abc":        {"🔤", "a"},
	"bookmark":   {"🔖", "b"},
	"circle":     {"⚪", "o"},
	"close":      {"✖️", "x"},
	"email":      {"📧", "@"},
	"grade":      {"⭐", "*"},
	"join_inner": {"🔗", "&"},
	"key":        {"🔑", "k"},
	"label":      {"🏷️", "l"},
	"maps_ugc":   {"🗨️", "m"},
	"navigation": {"🧭", "n"},
	"opacity":    {"💧", "."},
	"play_arrow": {"▶️", ">"},
	"qr_code":    {"🔳", "#"},
	"refresh":    {"🔄", "@"},
	"star":       {"⭐", "*"},
	"tag":        {"🏷️", "#"},
	"upload":     {"⬆️", "^"},
	"verified":   {"✔️", "v"},
	"work":       {"💼", "w"},
	"y":          {"🅨", "y"},
	"zoom_in":    {"🔎", "+"},

	// Status
	"status_loading":  {"⏳", "[..]"},
	"status_ready":    {"🟢", "[OK]"},
	"status_fallback": {"🟡", "[FB]"},
	"status_error":    {"🔴", "[ERR]"},
}

// unknown is used for identifiers without a glyph
var unknown = [2]string{"✦", "*"}

var emojiDisabled atomic.Bool

// SetEmojiDisabled switches every lookup to plain-text fallbacks
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// For returns the glyph for an icon identifier
func For(name string) string {
	mapping, ok := glyphMap[name]
	if !ok {
		mapping = unknown
	}
	if emojiDisabled.Load() {
		return mapping[1]
	}
	return mapping[0]
}

// Known reports whether name has a dedicated glyph
func Known(name string) bool {
	_, ok := glyphMap[name]
	return ok
}
