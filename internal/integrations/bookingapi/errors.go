package bookingapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("bookingapi client: internal error")

	// ErrUnavailable возвращается, когда сервис бронирования недоступен (сетевая ошибка, timeout)
	ErrUnavailable = errors.New("bookingapi client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("bookingapi client: invalid response")

	// ErrBookingRejected возвращается, когда сервис отклонил бронирование с сообщением об ошибке
	ErrBookingRejected = errors.New("bookingapi client: booking rejected")
)

// RejectedError структурированный отказ сервиса бронирования: {"error": "..."}
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", ErrBookingRejected, e.StatusCode, e.Message)
}

// Unwrap позволяет использовать errors.Is(err, ErrBookingRejected)
func (e *RejectedError) Unwrap() error {
	return ErrBookingRejected
}
