package request

type AccessRequest struct {
	MovieName string `json:"movie_name" validate:"max=255"`
}

type GeneralRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,min=10"`
}

// ReviewRequest status is checked by the service so a bad value surfaces
// as a validation error with a fixed message.
type ReviewRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"admin_response" validate:"max=2000"`
}

type RequestListQuery struct {
	PaginatedRequest
	Status string
}
