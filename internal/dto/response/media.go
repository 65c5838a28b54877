package response

type MediaResponse struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}
