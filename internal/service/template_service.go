package service

import (
	"physio-notes-be/pkg/template"
)

type ITemplateService interface {
	List() []template.Info
	Suggest(transcript string) template.Suggestion
}

type templateService struct{}

func NewTemplateService() ITemplateService {
	return &templateService{}
}

func (s *templateService) List() []template.Info {
	return template.BuiltIns()
}

func (s *templateService) Suggest(transcript string) template.Suggestion {
	return template.SuggestTemplate(transcript)
}
