package models

// Message is a chat entry. Messages are append-only and ordered by their
// generated keys; there is no edit or delete. Timestamp is Unix milliseconds.
type Message struct {
	SenderID  string `json:"sender_id"`
	Contents  string `json:"contents"`
	Timestamp int64  `json:"timestamp"`
}
