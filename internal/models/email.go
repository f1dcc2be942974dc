package models

import "time"

// FieldNotAvailable is returned for message fields the parser could not
// extract from the raw body.
const FieldNotAvailable = "N/A"

// EmailMessage is the normalized, client-facing representation of a parsed
// message. The ID is a per-folder sequence number, valid only while the
// originating folder stays unmodified.
type EmailMessage struct {
	ID      uint32    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Text    string    `json:"text"`
	HTML    string    `json:"html"`
	Seen    bool      `json:"seen"`
}

// ParsedEmail carries the normalized record plus threading headers needed to
// compose a reply. It never crosses the HTTP boundary.
type ParsedEmail struct {
	EmailMessage
	MessageID string
	RawDate   string
}

// EmailPage is a single page of a folder listing, newest first.
type EmailPage struct {
	Emails        []EmailMessage `json:"emails"`
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	TotalPages    int            `json:"totalPages"`
	TotalMessages int            `json:"totalMessages"`
}
