package models

// Assignment is a task published by faculty.
type Assignment struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Submission is a student's uploaded file against an assignment.
type Submission struct {
	ID              int64   `json:"id"`
	AssignmentName  string  `json:"assignment_name"`
	StudentUsername string  `json:"student_username"`
	FilePath        string  `json:"file_path"`
	Remarks         *string `json:"remarks"`
}
