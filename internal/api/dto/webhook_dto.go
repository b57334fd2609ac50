package dto

// Update is one inbound webhook payload from the chat platform. Exactly one
// of Message or Callback is set.
type Update struct {
	UpdateID int64     `json:"update_id"`
	Message  *Message  `json:"message,omitempty"`
	Callback *Callback `json:"callback_query,omitempty"`
}

// Message carries free text or a menu selection.
type Message struct {
	From User   `json:"from"`
	Text string `json:"text"`
}

// Callback carries a button payload such as "faq:order".
type Callback struct {
	From User   `json:"from"`
	Data string `json:"data"`
}

// User identifies the sender by the platform-assigned id.
type User struct {
	ID int64 `json:"id"`
}
