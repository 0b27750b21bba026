package relational

import (
	"fmt"
	"sort"

	"task-approvals/internal/domain"
)

// FoldTaskRows groups joined rows back into task records. Rows for one task
// must arrive in comment id order; tasks are returned sorted by name.
func FoldTaskRows(rows []*TaskRow) ([]*domain.Task, error) {
	byName := make(map[string]*domain.Task)
	var tasks []*domain.Task

	for _, row := range rows {
		task, ok := byName[row.TaskName]
		if !ok {
			task = taskFromRow(row)
			byName[row.TaskName] = task
			tasks = append(tasks, task)
		}

		if !row.CommentID.Valid {
			continue
		}
		comment, err := commentFromRow(row)
		if err != nil {
			return nil, err
		}
		task.AppendComment(comment)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].TaskName < tasks[j].TaskName
	})
	return tasks, nil
}

func taskFromRow(row *TaskRow) *domain.Task {
	return &domain.Task{
		TaskName:        row.TaskName,
		Approver1:       row.Approver1,
		Approver2:       row.Approver2,
		Approver3:       row.Approver3,
		TaskDescription: row.TaskDescription,
		Comments:        []domain.Comment{},
		Recommendation:  row.Recommendation,
		DecisionMaker:   row.DecisionMaker,
	}
}

func commentFromRow(row *TaskRow) (domain.Comment, error) {
	createdAt, err := ParseTimeFromDB(row.CommentCreatedAt.String)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("comment %d has invalid created_at: %w", row.CommentID.Int64, err)
	}
	return domain.Comment{
		Text:      row.CommentBody.String,
		Author:    row.CommentAuthor.String,
		CreatedAt: createdAt,
	}, nil
}
