package models

import "time"

// URLMapping is the persisted association between a short code and its original URL.
// ShortCode and OriginalURL never change once stored; only Clicks is updated.
type URLMapping struct {
	ShortCode   string    `json:"short_code" db:"short_code"`
	OriginalURL string    `json:"original_url" db:"original_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Clicks      int64     `json:"clicks" db:"clicks"`
}

type ShortenURLResponse struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	ShortCode     string `json:"short_code,omitempty"`
	ShortURL      string `json:"short_url,omitempty"`
	FullURL       string `json:"full_url,omitempty"`
}

type ShortenRequest struct {
	URL string `json:"url"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

type BatchRequest struct {
	CorrelationID string `json:"correlation_id"`
	OriginalURL   string `json:"original_url"`
}

type BatchResponse struct {
	CorrelationID string `json:"correlation_id"`
	ShortURL      string `json:"short_url"`
}

// FileRecord is one line of the append-only storage file.
type FileRecord struct {
	UUID        string    `json:"uuid"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	Clicks      int64     `json:"clicks"`
}

type Summary struct {
	TotalURLs   int64 `json:"total_urls"`
	TotalClicks int64 `json:"total_clicks"`
}

type LinkInfo struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	Clicks    int64  `json:"clicks"`
	CreatedAt int64  `json:"created_at"`
}

// LinkInfoFromMapping converts a stored mapping into its analytics view.
func LinkInfoFromMapping(m URLMapping) LinkInfo {
	return LinkInfo{
		Code:      m.ShortCode,
		URL:       m.OriginalURL,
		Clicks:    m.Clicks,
		CreatedAt: m.CreatedAt.Unix(),
	}
}
