package dto

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Question string `json:"question" example:"What is the total PL by fund?"`
}

// ChatResponse is the answer returned by POST /api/chat.
// Success is false only when the pipeline itself failed; a fallback
// apology still counts as an answer.
type ChatResponse struct {
	Answer  string `json:"answer" example:"Fund A made 120.00 in total."`
	Success bool   `json:"success" example:"true"`
}

// ColumnsResponse lists the columns of every loaded table.
type ColumnsResponse struct {
	Columns map[string][]string `json:"columns"`
}

// HealthResponse reports service readiness for GET /api/health.
type HealthResponse struct {
	Status             string `json:"status" example:"healthy"`
	ChatbotInitialized bool   `json:"chatbot_initialized" example:"true"`
	DataLoaded         bool   `json:"data_loaded" example:"true"`
}
