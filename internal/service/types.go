package service

// Task represents a single to-do item as stored remotely.
type Task struct {
	ID        string `json:"_id,omitempty" yaml:"id,omitempty"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TaskInput is the body of create and update requests.
type TaskInput struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Input returns the writable fields of t.
func (t Task) Input() TaskInput {
	return TaskInput{Title: t.Title, Completed: t.Completed}
}
