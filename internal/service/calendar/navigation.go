package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

// ParseDirection разбирает направление навигации
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionNext, DirectionPrev:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Navigate сдвигает неделю в указанном направлении и перерисовывает сетку
func (c *Controller) Navigate(ctx context.Context, direction Direction) (*Grid, error) {
	switch direction {
	case DirectionNext:
		return c.NextWeek(ctx), nil
	case DirectionPrev:
		return c.PrevWeek(ctx), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
}

// NextWeek переходит на следующую неделю
func (c *Controller) NextWeek(ctx context.Context) *Grid {
	c.shiftWeeks(1)
	return c.Refresh(ctx)
}

// PrevWeek переходит на предыдущую неделю
func (c *Controller) PrevWeek(ctx context.Context) *Grid {
	c.shiftWeeks(-1)
	return c.Refresh(ctx)
}

// GoToWeek переходит на неделю, содержащую date
func (c *Controller) GoToWeek(ctx context.Context, date time.Time) *Grid {
	c.mu.Lock()
	c.weekStart = domain.WeekStartOf(date)
	weekStart := c.weekStart
	c.mu.Unlock()

	c.logger.Info("GoToWeek: week_start=%s", weekStart.Format(domain.DateFormat))
	return c.Refresh(ctx)
}

func (c *Controller) shiftWeeks(n int) {
	c.mu.Lock()
	c.weekStart = domain.ShiftWeeks(c.weekStart, n)
	weekStart := c.weekStart
	c.mu.Unlock()

	c.logger.Info("ShiftWeeks: n=%d, week_start=%s", n, weekStart.Format(domain.DateFormat))
}
