package dto

// ErrorResponseDTO is the common error body.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"not_found"`
}

// ToastDTO is a user-facing notification the page shows as a toast.
type ToastDTO struct {
	ID      string `json:"id"`
	Level   string `json:"level" example:"error"`
	Message string `json:"message" example:"Não foi possível carregar mais posts."`
}

// LoadMoreErrorDTO is returned when a "load more" request fails.
// The page keeps its current results and shows Toast.
type LoadMoreErrorDTO struct {
	Error string   `json:"error" example:"store_unavailable"`
	Toast ToastDTO `json:"toast"`
}

// HealthDTO is the /health response.
type HealthDTO struct {
	Status       string `json:"status" example:"ok"`
	ContentStore string `json:"content_store,omitempty" example:"down"`
	Error        string `json:"error,omitempty"`
}
