package relational

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTaskRow scans a single joined task/comment row
func ScanTaskRow(scanner Scanner) (*TaskRow, error) {
	row := &TaskRow{}
	err := scanner.Scan(
		&row.TaskName,
		&row.Approver1,
		&row.Approver2,
		&row.Approver3,
		&row.TaskDescription,
		&row.Recommendation,
		&row.DecisionMaker,
		&row.CommentID,
		&row.CommentBody,
		&row.CommentAuthor,
		&row.CommentCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ScanTaskRows scans every joined row
func ScanTaskRows(rows Rows) ([]*TaskRow, error) {
	var result []*TaskRow
	for rows.Next() {
		row, err := ScanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
