package models

import (
	"database/sql"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// DocumentFormat is the source format an uploaded document is read as.
type DocumentFormat string

const (
	FormatText     DocumentFormat = "text"
	FormatMarkdown DocumentFormat = "markdown"
	FormatHTML     DocumentFormat = "html"
	FormatPDF      DocumentFormat = "pdf"
)

type Document struct {
	ID           int64
	OriginalName string
	StoredPath   string
	Format       DocumentFormat
	PageCount    int
	UploadedAt   time.Time
}

type Deck struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Card is a stored flashcard. Level is the generator's easy/medium/hard
// label; Difficulty is the FSRS memory parameter.
type Card struct {
	ID                   int64
	DeckID               int64
	SourceDocumentID     sql.NullInt64
	Question             string
	Answer               string
	CardType             string
	Level                string
	RelevanceScore       float64
	Due                  sql.NullTime
	Stability            float64
	Difficulty           float64
	ElapsedDays          int
	ScheduledDays        int
	Reps                 int
	Lapses               int
	State                int
	LastReview           sql.NullTime
	WorkingQueuePosition sql.NullInt64
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeckName             sql.NullString
	SourceDocumentRef    sql.NullString
}

type ReviewLog struct {
	ID            int64
	CardID        int64
	Rating        int
	ScheduledDays int
	ElapsedDays   int
	State         int
	ReviewedAt    time.Time
}

// ReviewStats summarizes the review queue.
type ReviewStats struct {
	TotalCards   int `json:"total_cards"`
	DueCards     int `json:"due_cards"`
	NewCards     int `json:"new_cards"`
	WorkingQueue int `json:"working_queue"`
	ReviewsToday int `json:"reviews_today"`
}

func (c *Card) ToFSRSCard() fsrs.Card {
	card := fsrs.Card{
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   uint64(max(c.ElapsedDays, 0)),
		ScheduledDays: uint64(max(c.ScheduledDays, 0)),
		Reps:          uint64(max(c.Reps, 0)),
		Lapses:        uint64(max(c.Lapses, 0)),
		State:         fsrs.State(max(c.State, 0)),
	}
	if c.Due.Valid {
		card.Due = c.Due.Time
	}
	if c.LastReview.Valid {
		card.LastReview = c.LastReview.Time
	}
	return card
}

func (c *Card) ApplyFSRSCard(f fsrs.Card) {
	c.Due = sql.NullTime{Time: f.Due, Valid: !f.Due.IsZero()}
	c.Stability = f.Stability
	c.Difficulty = f.Difficulty
	c.ElapsedDays = int(f.ElapsedDays)
	c.ScheduledDays = int(f.ScheduledDays)
	c.Reps = int(f.Reps)
	c.Lapses = int(f.Lapses)
	c.State = int(f.State)
	c.LastReview = sql.NullTime{Time: f.LastReview, Valid: !f.LastReview.IsZero()}
}
