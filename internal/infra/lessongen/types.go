package lessongen

// generateRequest is the payload posted to the generation webhook.
type generateRequest struct {
	Track string `json:"track"`
	Topic string `json:"topic,omitempty"`
	Date  string `json:"date"`
}

// generateResponse is the lesson content returned by the webhook.
type generateResponse struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Example      string `json:"example"`
	PracticalTip string `json:"practicalTip"`
}
