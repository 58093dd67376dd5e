package models

// Genres available when creating or filtering projects
var Genres = []string{
	"Hip Hop", "Electronic", "Pop", "Rock", "R&B", "Jazz", "Classical",
	"Country", "Folk", "Reggae", "Blues", "Funk", "Soul", "Punk", "Metal",
	"Indie", "House", "Techno", "Ambient", "Lo-fi Hip Hop", "Synthwave",
	"Trap", "Drill", "Afrobeat", "Other",
}

// CollaborationRoles a project can ask for
var CollaborationRoles = []string{
	"Vocalist", "Rapper", "Producer", "Beat Maker", "Mix Engineer",
	"Mastering Engineer", "Songwriter", "Lyricist", "Guitarist", "Bassist",
	"Drummer", "Keyboardist", "Pianist", "Violinist", "Saxophonist",
	"Trumpeter", "DJ", "Other",
}

// MusicalKeys selectable in the creation wizard
var MusicalKeys = []string{
	"C", "C#", "Db", "D", "D#", "Eb", "E", "F", "F#", "Gb", "G", "G#",
	"Ab", "A", "A#", "Bb", "B",
	"Cm", "C#m", "Dm", "D#m", "Em", "Fm", "F#m", "Gm", "G#m", "Am", "A#m", "Bm",
}

// MonetizationOption pairs a wire value with its display label
type MonetizationOption struct {
	Value string
	Label string
}

// MonetizationOptions for the explore filter; the empty value means all
var MonetizationOptions = []MonetizationOption{
	{Value: "", Label: "All Projects"},
	{Value: MonetizationFree, Label: "Free Collaboration"},
	{Value: MonetizationBounty, Label: "Bounty Projects"},
	{Value: MonetizationUnlockable, Label: "Unlockable Content"},
}

// SortOption pairs a sort key with its display label
type SortOption struct {
	Value string
	Label string
}

// SortOptions accepted by the explore endpoint
var SortOptions = []SortOption{
	{Value: "recent", Label: "Most Recent"},
	{Value: "trending", Label: "Trending"},
	{Value: "bounty", Label: "Highest Bounty"},
	{Value: "popular", Label: "Most Popular"},
}
