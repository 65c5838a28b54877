// Package queue carries domain events over RabbitMQ.
package queue

import "time"

const RequestReviewedQueue = "movie_request.reviewed"

// RequestReviewedEvent is emitted after an admin approves or rejects a request.
type RequestReviewedEvent struct {
	RequestID     string    `json:"request_id"`
	UserID        string    `json:"user_id"`
	MovieID       string    `json:"movie_id,omitempty"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"admin_response,omitempty"`
	ReviewedAt    time.Time `json:"reviewed_at"`
}
