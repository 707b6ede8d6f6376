package model

import "github.com/coinly/coinly/pkg/datetime"

type Blog struct {
	ID        string            `json:"_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Author    string            `json:"author"`
	CreatedAt datetime.DateTime `json:"createdAt"`
}

type BlogInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
