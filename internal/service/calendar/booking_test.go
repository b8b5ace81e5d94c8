package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
)

var tuesday = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func newBookableClient() *fakeClient {
	return &fakeClient{availability: domain.AvailabilityMap{
		"2024-01-02T10:00:00": true,
		"2024-01-02T11:00:00": true,
	}}
}

func TestController_Book_Success(t *testing.T) {
	client := newBookableClient()
	c := newTestController(client, monday)
	c.Refresh(context.Background())

	outcome, err := c.Book(context.Background(), tuesday, 10)
	require.NoError(t, err)

	require.Len(t, client.bookCalls, 1)
	assert.Equal(t, domain.SlotKey("2024-01-02T10:00:00"), client.bookCalls[0].StartKey())
	assert.Equal(t, domain.SlotKey("2024-01-02T11:00:00"), client.bookCalls[0].EndKey())

	assert.Equal(t, NoticeSuccess, outcome.Notice.Kind)
	assert.Equal(t, "Запись подтверждена: 02.01.2024 10:00 - 11:00", outcome.Notice.Message)

	// Повторная загрузка после бронирования: слот больше не доступен
	assert.Equal(t, 2, client.fetchCount())
	assert.Equal(t, 1, outcome.Grid.BookableCount())
	assert.Equal(t, CellBooked, outcome.Grid.Rows[1].Cells[1].Status)
	assert.Equal(t, CellBookable, outcome.Grid.Rows[2].Cells[1].Status)
	assert.False(t, outcome.Grid.Loading)

	notice := c.TakeNotice()
	require.NotNil(t, notice)
	assert.Equal(t, outcome.Notice, *notice)
	assert.Nil(t, c.TakeNotice())
}

func TestController_Book_Rejected(t *testing.T) {
	client := newBookableClient()
	client.bookErr = &bookingapi.RejectedError{StatusCode: http.StatusBadRequest, Message: "Slot already booked"}
	c := newTestController(client, monday)
	c.Refresh(context.Background())

	outcome, err := c.Book(context.Background(), tuesday, 10)
	require.NoError(t, err)

	assert.Equal(t, NoticeRejected, outcome.Notice.Kind)
	assert.Equal(t, "Ошибка: Slot already booked", outcome.Notice.Message)
	assert.Equal(t, 2, client.fetchCount())
}

func TestController_Book_TransportFailure(t *testing.T) {
	client := newBookableClient()
	client.bookErr = errors.Join(bookingapi.ErrUnavailable, errors.New("dial tcp: connection refused"))
	c := newTestController(client, monday)
	c.Refresh(context.Background())

	outcome, err := c.Book(context.Background(), tuesday, 10)
	require.NoError(t, err)

	assert.Equal(t, NoticeFailed, outcome.Notice.Kind)
	assert.Equal(t, msgBookingFailed, outcome.Notice.Message)
	assert.Equal(t, 2, client.fetchCount())
}

func TestController_Book_RejectsBeforeRequest(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		hour    int
		wantErr error
	}{
		{name: "slot not in availability", date: tuesday, hour: 12, wantErr: ErrSlotNotBookable},
		{name: "hour before working hours", date: tuesday, hour: 8, wantErr: ErrInvalidSlot},
		{name: "hour at end of working hours", date: tuesday, hour: 14, wantErr: ErrInvalidSlot},
		{name: "negative hour", date: tuesday, hour: -1, wantErr: ErrInvalidSlot},
		{name: "zero date", date: time.Time{}, hour: 10, wantErr: ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newBookableClient()
			c := newTestController(client, monday)
			c.Refresh(context.Background())

			outcome, err := c.Book(context.Background(), tt.date, tt.hour)

			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, client.bookCount())
			assert.Equal(t, 1, client.fetchCount())
		})
	}
}

func TestController_Book_DuplicateSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	client := newBookableClient()
	client.bookHook = func(domain.Interval) {
		close(entered)
		<-release
	}
	c := newTestController(client, monday)
	c.Refresh(context.Background())

	type result struct {
		outcome *Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, err := c.Book(context.Background(), tuesday, 10)
		done <- result{outcome: outcome, err: err}
	}()

	<-entered

	// Пока запрос не завершён, ячейка отображается как отправленная
	grid := c.Render()
	assert.Equal(t, CellPending, grid.Rows[1].Cells[1].Status)
	assert.True(t, grid.Loading)

	_, err := c.Book(context.Background(), tuesday, 10)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	close(release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, NoticeSuccess, res.outcome.Notice.Kind)
	assert.Equal(t, 1, client.bookCount())
	assert.Equal(t, CellBooked, res.outcome.Grid.Rows[1].Cells[1].Status)
}

func TestController_Book_AfterFailedFetch(t *testing.T) {
	client := newBookableClient()
	client.fetchErr = errors.New("timeout")
	c := newTestController(client, monday)
	c.Refresh(context.Background())

	_, err := c.Book(context.Background(), tuesday, 10)

	assert.ErrorIs(t, err, ErrSlotNotBookable)
	assert.Equal(t, 0, client.bookCount())
}
