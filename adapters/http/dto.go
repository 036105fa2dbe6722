package http

type SessionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type SessionResponse struct {
	AccessToken string `json:"access_token"`
}

type SaveResponse struct {
	Success bool `json:"success"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type TokenQuery struct {
	ShortID string `form:"shortId" url:"shortId"`
}
