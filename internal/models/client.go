package models

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientListResponse struct {
	Clients []Client `json:"clients"`
	Total   int      `json:"total"`
}
