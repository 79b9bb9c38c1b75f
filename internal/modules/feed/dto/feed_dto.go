package dto

type FeedQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
