package dto

// ── pagination ──

// PaginationRequest common paging query parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── bulk operations ──

// BulkResult is the per-item outcome of a bulk operation. A failed item does
// not affect the others.
type BulkResult struct {
	SubmissionID string `json:"submission_id"`
	Success      bool   `json:"success"`
	Status       string `json:"status,omitempty"`
	Code         int    `json:"code,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkResponse wraps bulk results with counters.
type BulkResponse struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []BulkResult `json:"results"`
}

// NewBulkResponse counts results.
func NewBulkResponse(results []BulkResult) *BulkResponse {
	resp := &BulkResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}
