package request

import "movie-catalog/pkg/utils"

type PaginatedRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize replaces invalid values with defaults (page=1, limit=12, max 100)
func (p *PaginatedRequest) Normalize() {
	p.Page, p.Limit = utils.NormalizePage(p.Page, p.Limit)
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit)
}
