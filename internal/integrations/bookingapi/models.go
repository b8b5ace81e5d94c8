package bookingapi

// BookingRequest тело запроса POST /book
type BookingRequest struct {
	Start string `json:"start"` // Ключ слота начала, "2024-01-02T10:00:00"
	End   string `json:"end"`   // Ключ слота конца, "2024-01-02T11:00:00"
}

// Confirmation ответ сервиса при успешном бронировании
type Confirmation struct {
	Message string `json:"message"`
}

// ErrorResponse модель ошибки от сервиса бронирования
type ErrorResponse struct {
	Error string `json:"error"`
}
