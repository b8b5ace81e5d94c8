package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

const (
	availablePath = "/available"
	bookPath      = "/book"

	// Ограничение на размер тела ответа при чтении ошибки
	maxErrorBodyBytes = 4096
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с внешним API бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента API бронирования
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailability получает карту доступности слотов за период [start, end)
func (c *Client) GetAvailability(ctx context.Context, start, end time.Time) (domain.AvailabilityMap, error) {
	query := url.Values{}
	query.Set("start_date", start.UTC().Format(time.RFC3339))
	query.Set("end_date", end.UTC().Format(time.RFC3339))
	endpoint := c.baseURL + availablePath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ: объект "ключ слота" -> флаг доступности
	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	availability := make(domain.AvailabilityMap, len(raw))
	for key, value := range raw {
		slotStart, err := domain.ParseSlotKey(key)
		if err != nil {
			c.log.Warn("Skipping availability entry with invalid key %q: %v", key, err)
			continue
		}
		if isTruthy(value) {
			availability[domain.NewSlotKey(slotStart)] = true
		}
	}

	return availability, nil
}

// Book отправляет запрос на бронирование интервала
func (c *Client) Book(ctx context.Context, interval domain.Interval) (*Confirmation, error) {
	payload, err := json.Marshal(BookingRequest{
		Start: interval.StartKey().String(),
		End:   interval.EndKey().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+bookPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		// Тело успешного ответа необязательно
		var confirmation Confirmation
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &confirmation); err != nil {
				c.log.Warn("Booking %s accepted with unparsable body: %v", interval.StartKey(), err)
			}
		}
		return &confirmation, nil
	}

	// Структурированная ошибка сервиса
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}

// isTruthy приводит значение JSON к флагу доступности
func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch v {
		case "", "false", "0":
			return false
		default:
			return true
		}
	case nil:
		return false
	default:
		// Объекты и массивы считаются истинными
		return true
	}
}
