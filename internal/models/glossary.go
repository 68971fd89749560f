// internal/models/glossary.go
package models

type KeywordResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Found       bool   `json:"found"` // false - описания нет, показываем название как есть
}

type KeywordsListResponse struct {
	Lang     string            `json:"lang"`
	Keywords []KeywordResponse `json:"keywords"`
}
