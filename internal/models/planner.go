package models

// Subject is a study subject; Name is the join key used by timetables and
// assignments.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultSubjects is returned until the user saves their own list.
func DefaultSubjects() []Subject {
	return []Subject{
		{ID: "1", Name: "Mathematics", Color: "bg-blue-500"},
		{ID: "2", Name: "Physics", Color: "bg-purple-500"},
		{ID: "3", Name: "Chemistry", Color: "bg-green-500"},
		{ID: "4", Name: "Biology", Color: "bg-orange-500"},
		{ID: "5", Name: "English", Color: "bg-pink-500"},
		{ID: "6", Name: "History", Color: "bg-yellow-500"},
		{ID: "7", Name: "Computer Science", Color: "bg-indigo-500"},
	}
}

// Priority ranks an assignment.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Assignment is a piece of homework tied to a subject by name.
type Assignment struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subject     string   `json:"subject"`
	DueDate     string   `json:"due_date"` // YYYY-MM-DD
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
}
