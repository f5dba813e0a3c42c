package model

// ContactMessage is a portal patient's message to the clinic. Delivery is
// out of scope; messages are validated and logged.
type ContactMessage struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required,max=5000"`
}
