package request

type AddWatchlistRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid"`
	Status  string `json:"status" validate:"omitempty,oneof=want_to_watch watching completed"`
}

type UpdateWatchlistRequest struct {
	Status string `json:"status" validate:"required,oneof=want_to_watch watching completed"`
}
