package keywords

// Entry is the concept a vocabulary token stands for and the icon it suggests
type Entry struct {
	Concept string
	Icon    string
}

// tokens of three characters or fewer never reach the vocabulary, so short
// words like "art" and "ai" are left to the catalog
var vocabulary = map[string]Entry{
	// Finance
	"finance": {"finance", "account_balance"}, "financial": {"finance", "account_balance"},
	"money": {"money", "payments"}, "stock": {"stock", "trending_up"},
	"portfolio": {"portfolio", "show_chart"}, "market": {"market", "candlestick_chart"},
	"investment": {"investment", "savings"}, "wealth": {"wealth", "account_balance_wallet"},
	"crypto": {"crypto", "currency_bitcoin"}, "bank": {"bank", "account_balance"},
	"trading": {"trading", "sync_alt"},

	// Creative/Art
	"creative": {"creative", "palette"}, "design": {"design", "color_lens"},
	"illustration": {"illustration", "draw"}, "photo": {"photo", "photo_camera"},
	"visual": {"visual", "visibility"}, "studio": {"studio", "brush"},
	"artistic": {"art", "auto_awesome"},

	// Technology
	"technology": {"tech", "memory"}, "tech": {"tech", "developer_mode"},
	"software": {"software", "code"}, "development": {"development", "terminal"},
	"cloud": {"cloud", "cloud"}, "computing": {"computing", "computer"},
	"intelligence": {"intelligence", "smart_toy"}, "digital": {"digital", "devices"},
	"infrastructure": {"infrastructure", "settings_ethernet"}, "innovations": {"innovation", "lightbulb"},

	// Nature
	"nature": {"nature", "park"}, "environment": {"environment", "eco"},
	"ecosystem": {"ecosystem", "forest"}, "conservation": {"conservation", "recycling"},
	"sustainable": {"sustainable", "energy_savings_leaf"}, "outdoor": {"outdoor", "landscape"},
	"planet": {"planet", "public"}, "earth": {"earth", "language"},
	"green": {"green", "grass"}, "wildlife": {"wildlife", "pets"},

	// Social
	"social": {"social", "groups"}, "connection": {"connection", "connect_without_contact"},
	"relationship": {"relationship", "diversity_3"}, "community": {"community", "people"},
	"collaboration": {"collaboration", "handshake"}, "communication": {"communication", "forum"},
	"together": {"together", "diversity_1"}, "share": {"share", "share"},

	// General
	"data": {"data", "storage"}, "information": {"information", "info"},
	"analysis": {"analysis", "analytics"}, "tools": {"tools", "build"},
	"power": {"power", "bolt"}, "explore": {"explore", "explore"},
	"discover": {"discover", "search"}, "learn": {"learn", "school"},
	"create": {"create", "add_circle"}, "build": {"build", "construction"},
	"make": {"make", "handyman"},
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "have": {}, "for": {}, "not": {}, "with": {}, "you": {},
	"this": {}, "but": {}, "his": {}, "from": {}, "they": {}, "she": {}, "her": {}, "been": {},
	"than": {}, "its": {}, "were": {}, "said": {}, "each": {}, "does": {}, "their": {}, "about": {},
	"your": {}, "will": {}, "just": {}, "more": {}, "when": {}, "what": {}, "which": {},
}
