package entity

import "time"

// ComposeRequest keeps the JSON field names of the public /gerar_imagem contract.
type ComposeRequest struct {
	ImageBase64 string `json:"imagem_base64" binding:"required"`
	LogoBase64  string `json:"logo_base64" binding:"required"`
	Text        string `json:"texto"`
}

type ComposeResponse struct {
	ImageBase64 string `json:"imagem_base64"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	FontSize    int    `json:"font_size,omitempty"`
	Lines       int    `json:"lines"`
}

// ComposeEvent is published after every successful composition.
type ComposeEvent struct {
	RequestID     string    `json:"request_id"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	FontSize      int       `json:"font_size"`
	Lines         int       `json:"lines"`
	CaptionLength int       `json:"caption_length"`
	OutputBytes   int       `json:"output_bytes"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
