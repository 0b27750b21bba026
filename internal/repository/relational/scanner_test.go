package relational

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = ts.data[i].(string)
		case *sql.NullInt64:
			*v = ts.data[i].(sql.NullInt64)
		case *sql.NullString:
			*v = ts.data[i].(sql.NullString)
		}
	}

	return nil
}

// TestRows implements the Rows interface over a fixed set of scanners
type TestRows struct {
	scanners []*TestScanner
	pos      int
	err      error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.scanners) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.scanners[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func taskRowData(name string, commentID int64, body, author string) []interface{} {
	valid := commentID > 0
	return []interface{}{
		name, "A", "B", "C", "desc", "", "",
		sql.NullInt64{Int64: commentID, Valid: valid},
		sql.NullString{String: body, Valid: valid},
		sql.NullString{String: author, Valid: valid},
		sql.NullString{String: "2024-01-15T10:00:00Z", Valid: valid},
	}
}

func TestScanTaskRow(t *testing.T) {
	tests := []struct {
		name        string
		scanner     *TestScanner
		expectError bool
		hasComment  bool
	}{
		{
			name:       "Row with comment",
			scanner:    &TestScanner{data: taskRowData("T1", 7, "ok", "A")},
			hasComment: true,
		},
		{
			name:       "Row without comment",
			scanner:    &TestScanner{data: taskRowData("T1", 0, "", "")},
			hasComment: false,
		},
		{
			name:        "Scan error",
			scanner:     &TestScanner{err: errors.New("scan failed")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := ScanTaskRow(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "T1", row.TaskName)
			assert.Equal(t, "A", row.Approver1)
			assert.Equal(t, tt.hasComment, row.CommentID.Valid)
		})
	}
}

func TestScanTaskRows(t *testing.T) {
	rows := &TestRows{scanners: []*TestScanner{
		{data: taskRowData("T1", 1, "a", "A")},
		{data: taskRowData("T1", 2, "b", "B")},
	}}

	result, err := ScanTaskRows(rows)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	_, err = ScanTaskRows(&TestRows{err: errors.New("cursor failed")})
	assert.Error(t, err)

	_, err = ScanTaskRows(&TestRows{scanners: []*TestScanner{{err: errors.New("bad row")}}})
	assert.Error(t, err)
}
