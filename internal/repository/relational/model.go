package relational

import "database/sql"

// TaskRow is one row of the tasks/comments left join. The comment columns
// are NULL for a task without comments.
type TaskRow struct {
	TaskName        string
	Approver1       string
	Approver2       string
	Approver3       string
	TaskDescription string
	Recommendation  string
	DecisionMaker   string

	CommentID        sql.NullInt64
	CommentBody      sql.NullString
	CommentAuthor    sql.NullString
	CommentCreatedAt sql.NullString
}
