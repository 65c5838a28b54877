package request

type GenreRequest struct {
	NameEnglish string `json:"name_english"`
	NameArabic  string `json:"name_arabic" validate:"max=100"`
	Status      *bool  `json:"status,omitempty"`
}
