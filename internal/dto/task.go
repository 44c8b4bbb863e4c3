package dto

// TaskResponse represents a task in API responses. Dates are ISO-8601 strings.
type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	UserID      string `json:"userId"`
}

// TaskEnvelopeData is the payload of single-task responses
type TaskEnvelopeData struct {
	Task    TaskResponse `json:"task"`
	Message string       `json:"message"`
}

// TaskListData is the payload of the paginated task listing
type TaskListData struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int64          `json:"count"`
}

// MessageData is the payload of responses carrying only a message
type MessageData struct {
	Message string `json:"message"`
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

// UpdateTaskRequest is the body of PUT /tasks/:taskId. Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
