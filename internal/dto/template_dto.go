package dto

type SuggestTemplateRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}
