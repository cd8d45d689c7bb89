package bot

// LambdaEvent is the payload the AWS Lambda entry point receives. If
// ReplyChannel is set, the response is also published there over NATS.
type LambdaEvent struct {
	Board          string `json:"board"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RequestID      string `json:"request_id"`
	ReplyChannel   string `json:"reply_channel"`
}

func (evt LambdaEvent) SolveRequest() SolveRequest {
	return SolveRequest{Board: evt.Board, TimeoutSeconds: evt.TimeoutSeconds}
}
