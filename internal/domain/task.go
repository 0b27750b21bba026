package domain

// Task represents an approval task in the domain model.
// TaskName is the natural key and doubles as the storage key in every backend.
type Task struct {
	TaskName        string    `json:"taskName" yaml:"taskName"`
	Approver1       string    `json:"approver1" yaml:"approver1"`
	Approver2       string    `json:"approver2" yaml:"approver2"`
	Approver3       string    `json:"approver3" yaml:"approver3"`
	TaskDescription string    `json:"taskDescription" yaml:"taskDescription"`
	Comments        []Comment `json:"comments" yaml:"comments"`
	Recommendation  string    `json:"recommendation" yaml:"recommendation"`
	DecisionMaker   string    `json:"decisionMaker" yaml:"decisionMaker"`
}

// NewTask creates a new Task with the given name, description and approvers.
// Comments start empty and no recommendation is set.
func NewTask(name, description string, approver1, approver2, approver3 string) Task {
	return Task{
		TaskName:        name,
		Approver1:       approver1,
		Approver2:       approver2,
		Approver3:       approver3,
		TaskDescription: description,
		Comments:        []Comment{},
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.TaskName != "" && t.Approver1 != "" && t.Approver2 != "" && t.Approver3 != ""
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.TaskName
}

// Approvers returns the three approver identities in declaration order.
func (t Task) Approvers() []string {
	return []string{t.Approver1, t.Approver2, t.Approver3}
}

// IsApprover reports whether user is one of the task's approvers.
// Matching is exact and case-sensitive; an empty user never matches.
func (t Task) IsApprover(user string) bool {
	if user == "" {
		return false
	}
	return user == t.Approver1 || user == t.Approver2 || user == t.Approver3
}

// HasRecommendation reports whether a recommendation has been recorded.
func (t Task) HasRecommendation() bool {
	return t.Recommendation != "" || t.DecisionMaker != ""
}

// AppendComment adds a comment at the end of the sequence.
func (t *Task) AppendComment(c Comment) {
	t.Comments = append(t.Comments, c)
}

// SetRecommendation records the recommendation and who made it.
func (t *Task) SetRecommendation(text, user string) {
	t.Recommendation = text
	t.DecisionMaker = user
}

// ClearComments empties the comment sequence.
func (t *Task) ClearComments() {
	t.Comments = []Comment{}
}

// Normalized returns a copy with a non-nil comment slice, so it encodes as [] rather than null.
func (t Task) Normalized() Task {
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	return t
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Comments = make([]Comment, len(t.Comments))
	copy(out.Comments, t.Comments)
	return out
}
