package domain

// QueryRequest is the per-turn request from the client.
type QueryRequest struct {
	UserInput    string `json:"user_input"`
	SessionID    string `json:"session_id,omitempty"`
	MaxQuestions int    `json:"max_questions,omitempty"`
	MaxHistory   int    `json:"max_history_messages,omitempty"`
	// UserContext is optional prior-context text appended to the
	// instruction message when a new session is created.
	UserContext string `json:"user_context,omitempty"`
}

// QueryResponse is the per-turn response for the non-streaming endpoint.
// Content holds the assistant text, or the canonical JSON encoding of the
// assessment when IsAnalysis is true.
type QueryResponse struct {
	Content        string            `json:"content"`
	SessionID      string            `json:"session_id"`
	IsCompleted    bool              `json:"is_completed"`
	QuestionCount  int               `json:"question_count"`
	TotalQuestions int               `json:"total_questions"`
	IsAnalysis     bool              `json:"is_analysis"`
	Assessment     *AssessmentResult `json:"assessment,omitempty"`
}

// StreamFragment is one chunk of a streaming turn. Each turn produces one
// fragment sequence terminated by exactly one fragment with
// IsFinalChunk=true carrying the terminal session state.
type StreamFragment struct {
	ContentChunk   string `json:"content"`
	SessionID      string `json:"session_id"`
	IsCompleted    bool   `json:"is_completed"`
	QuestionCount  int    `json:"question_count"`
	TotalQuestions int    `json:"total_questions"`
	IsFinalChunk   bool   `json:"is_final_chunk"`
	IsAnalysis     bool   `json:"is_analysis"`
	Error          bool   `json:"error,omitempty"`
}
