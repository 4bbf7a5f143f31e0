package leveling

// Milestone is a level that grants a role
type Milestone struct {
	Level   int
	Role    string
	Color   int
	Message string
}

// Milestones are sorted by level.
var Milestones = []Milestone{
	{1, "Nini Nouveau", 0xAED6F1, "Tu obtiens le rôle **Nini Nouveau** ! Bienvenue dans l'aventure ✨"},
	{5, "Nini Curieux", 0x85C1E9, "Tu obtiens le rôle **Nini Curieux** ! Continue comme ça ! 🌸"},
	{10, "Nini Actif", 0x5DADE2, "Tu obtiens le rôle **Nini Actif** ! Tu es désormais un membre actif de notre communauté ! 🎀"},
	{20, "Nini Confirmé", 0x3498DB, "Tu obtiens le rôle **Nini Confirmé** ! Quelle progression impressionnante ! 🌈"},
	{30, "Nini Légende", 0x2874A6, "Tu obtiens le rôle **Nini Légende** ! Tu es une légende de notre serveur ! 👑"},
}

// MilestoneFor returns the highest milestone reached at level.
func MilestoneFor(level int) (Milestone, bool) {
	var found Milestone
	ok := false
	for _, m := range Milestones {
		if level >= m.Level {
			found, ok = m, true
		}
	}
	return found, ok
}

// NextMilestone returns the first milestone above level.
func NextMilestone(level int) (Milestone, bool) {
	for _, m := range Milestones {
		if m.Level > level {
			return m, true
		}
	}
	return Milestone{}, false
}

// ExactMilestone reports whether level is itself a milestone.
func ExactMilestone(level int) (Milestone, bool) {
	for _, m := range Milestones {
		if m.Level == level {
			return m, true
		}
	}
	return Milestone{}, false
}

// IsMilestoneRole reports whether name is one of the milestone role names.
func IsMilestoneRole(name string) bool {
	for _, m := range Milestones {
		if m.Role == name {
			return true
		}
	}
	return false
}
