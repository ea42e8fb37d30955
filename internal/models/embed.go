package models

// EmbedRequest is the payload for POST /embed.
//
// Texts is a pointer so a missing field can be told apart from an empty list;
// its elements are pointers so a null entry can be told apart from "".
type EmbedRequest struct {
	Texts *[]*string `json:"texts"` // ordered batch; duplicates allowed
}

// EmbedResponse carries one vector per input text, in input order.
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// ReadyResponse is returned by GET /ready once the model has answered a probe.
type ReadyResponse struct {
	Status     string `json:"status"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
