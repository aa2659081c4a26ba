package dto

// MarkReadRequest selects notifications to mark as read
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// UnreadCountResponse reports how many notifications await the caller
type UnreadCountResponse struct {
	Count int `json:"count"`
}
