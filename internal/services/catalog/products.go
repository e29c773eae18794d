package catalog

var products = []Product{
	{
		ID:          "trading-maverick",
		Name:        "Trading Maverick",
		Description: "AI-driven algorithmic trading platform simplifying algo trading with backtesting, mock trading, and live data.",
		Link:        "https://tradingmaverick.ai",
		Status:      "pre-launch",
		Category:    "Business",
		Rating:      0,
		Users:       0,
		Tag:         "SaaS",
		Parent:      "Maverick Elevate",
	},
	{
		ID:          "spark-ledger",
		Name:        "Spark Ledger",
		Description: "Lightweight bookkeeping for early-stage founders with bank feeds and one-click reports.",
		Link:        "https://sparkledger.app",
		Status:      "MVP building",
		Category:    "Finance",
		Rating:      4.2,
		Users:       120,
		Tag:         "Micro SaaS",
		Parent:      "Maverick Labs",
	},
	{
		ID:          "pitch-forge",
		Name:        "Pitch Forge",
		Description: "Deck builder that turns a product brief into an investor-ready pitch in minutes.",
		Link:        "https://pitchforge.io",
		Status:      "new",
		Category:    "Productivity",
		Rating:      4.7,
		Users:       860,
		Tag:         "SaaS",
		Parent:      "Maverick Ventures",
	},
	{
		ID:          "ops-beacon",
		Name:        "Ops Beacon",
		Description: "Uptime and incident digest for small teams without a dedicated on-call rotation.",
		Link:        "https://opsbeacon.dev",
		Status:      "ideation",
		Category:    "Developer Tools",
		Rating:      0,
		Users:       0,
		Tag:         "Micro SaaS",
		Parent:      "Maverick Tech Group",
	},
}
