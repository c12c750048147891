// Package course holds the static five-day course definition. The table is
// read-only reference data: every graded section a day requires is listed
// here, and progress validation is performed against it.
package course

// Fixed course identity; a user holds at most one certificate per course id.
const (
	ID        = "darasa-five-day"
	Title     = "Darasa Five-Day Foundations"
	TotalDays = 5
)

// Section kinds
const (
	KindLesson = "lesson"
	KindQuiz   = "quiz"
)

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

type Day struct {
	Number   int       `json:"day"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Days is the ordered course definition, days 1..TotalDays.
// Section order within a day is the order the UI presents them in.
var Days = []Day{
	{
		Number: 1,
		Title:  "Getting Started",
		Sections: []Section{
			{ID: "intro", Title: "Welcome & Orientation", Kind: KindLesson},
			{ID: "basics", Title: "Core Concepts", Kind: KindLesson},
			{ID: "quiz1", Title: "Day 1 Quiz", Kind: KindQuiz},
		},
	},
	{
		Number: 2,
		Title:  "Building Blocks",
		Sections: []Section{
			{ID: "concepts", Title: "Key Terminology", Kind: KindLesson},
			{ID: "practice", Title: "Guided Practice", Kind: KindLesson},
			{ID: "quiz2", Title: "Day 2 Quiz", Kind: KindQuiz},
		},
	},
	{
		Number: 3,
		Title:  "Going Deeper",
		Sections: []Section{
			{ID: "applied", Title: "Applied Techniques", Kind: KindLesson},
			{ID: "case-study", Title: "Case Study", Kind: KindLesson},
			{ID: "quiz3", Title: "Day 3 Quiz", Kind: KindQuiz},
		},
	},
	{
		Number: 4,
		Title:  "Putting It Together",
		Sections: []Section{
			{ID: "workshop", Title: "Hands-On Workshop", Kind: KindLesson},
			{ID: "review", Title: "Peer Review", Kind: KindLesson},
			{ID: "quiz4", Title: "Day 4 Quiz", Kind: KindQuiz},
		},
	},
	{
		Number: 5,
		Title:  "Wrapping Up",
		Sections: []Section{
			{ID: "capstone", Title: "Capstone Project", Kind: KindLesson},
			{ID: "reflection", Title: "Reflection & Next Steps", Kind: KindLesson},
			{ID: "quiz5", Title: "Day 5 Quiz", Kind: KindQuiz},
		},
	},
}

// ValidDay reports whether day is within the course's range.
func ValidDay(day int) bool {
	return day >= 1 && day <= TotalDays
}

// Get returns the definition for a day.
func Get(day int) (Day, bool) {
	if !ValidDay(day) {
		return Day{}, false
	}
	return Days[day-1], true
}

// SectionIDs returns the ordered required section ids for a day.
func SectionIDs(day int) []string {
	d, ok := Get(day)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

// HasSection reports whether sectionID is defined for a day.
func HasSection(day int, sectionID string) bool {
	d, ok := Get(day)
	if !ok {
		return false
	}
	for _, s := range d.Sections {
		if s.ID == sectionID {
			return true
		}
	}
	return false
}
