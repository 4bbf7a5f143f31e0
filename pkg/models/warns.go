package models

// WarningEntry is a single warning issued to a member
type WarningEntry struct {
	ID        string `bson:"id" json:"id"`
	Reason    string `bson:"reason" json:"reason"`
	Moderator string `bson:"moderator" json:"moderator"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// WarningRecord holds a member's warnings inside a guild.
// Count and Reasons mirror Entries; Banned is set once the ban threshold fired.
type WarningRecord struct {
	Count   int            `bson:"count" json:"count"`
	Reasons []string       `bson:"reasons" json:"reasons"`
	Entries []WarningEntry `bson:"entries" json:"entries"`
	Banned  bool           `bson:"banned" json:"banned"`
}

// AntiLinkSettings is the per-guild anti-link configuration
type AntiLinkSettings struct {
	ExemptChannels []string `bson:"exempt_channels" json:"exempt_channels"`
}
