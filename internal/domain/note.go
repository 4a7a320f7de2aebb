package domain

import "time"

// Note é um evento de engajamento textual; assim como as activities,
// a criação de uma note marca a conta como touched no dia da note.
type Note struct {
	ID        int       `json:"id"`
	AccountID int       `json:"account_id"`
	Content   string    `json:"content"`
	NoteDate  Date      `json:"note_date"`
	CreatedAt time.Time `json:"created_at"`
	Synced    bool      `json:"synced_to_sheets"`
}

type CreateNoteRequest struct {
	AccountID int    `json:"account_id"`
	Content   string `json:"content"`
	NoteDate  *Date  `json:"note_date"`
}
