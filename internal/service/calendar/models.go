package calendar

import (
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

// State состояние контроллера
type State string

const (
	StateIdle     State = "idle"     // Данные ещё не загружались
	StateLoading  State = "loading"  // Идёт сетевой запрос
	StateRendered State = "rendered" // Сетка отрисована по последней карте доступности
)

// CellStatus статус ячейки сетки
type CellStatus string

const (
	CellBookable CellStatus = "bookable"
	CellBooked   CellStatus = "booked"
	CellPending  CellStatus = "pending" // Бронирование отправлено, ответ ещё не получен
)

// Direction направление навигации по неделям
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// NoticeKind тип уведомления пользователю о результате бронирования
type NoticeKind string

const (
	NoticeSuccess  NoticeKind = "success"
	NoticeRejected NoticeKind = "rejected"
	NoticeFailed   NoticeKind = "failed"
)

// Labels настройки подписей сетки
type Labels struct {
	DayNames   []string // Семь подписей дней, начиная с понедельника
	DateLayout string   // Формат даты в заголовке дня (Go layout)
	WeekFormat string   // Формат подписи недели, например "Неделя %d"
	HourFormat string   // Формат подписи строки, получает час начала и конца
}

// DefaultLabels возвращает подписи по умолчанию
func DefaultLabels() Labels {
	return Labels{
		DayNames:   []string{"ПН", "ВТ", "СР", "ЧТ", "ПТ", "СБ", "ВС"},
		DateLayout: "02.01.2006",
		WeekFormat: "Неделя %d",
		HourFormat: "%d-%d",
	}
}

// Grid отрисованная недельная сетка
type Grid struct {
	WeekStart  time.Time
	WeekNumber int
	WeekLabel  string
	Days       []DayHeader
	Rows       []Row
	Loading    bool
	State      State
}

// DayHeader заголовок колонки дня
type DayHeader struct {
	Date      time.Time
	Name      string
	DateLabel string
}

// Row строка сетки для одного часа
type Row struct {
	Hour  int
	Label string
	Cells []Cell
}

// Cell ячейка сетки (день, час)
type Cell struct {
	Date   time.Time
	Hour   int
	Key    domain.SlotKey
	Status CellStatus
}

// IsBookable возвращает true, если по ячейке можно кликнуть для бронирования
func (c Cell) IsBookable() bool {
	return c.Status == CellBookable
}

// CellCount возвращает общее число ячеек
func (g *Grid) CellCount() int {
	count := 0
	for _, row := range g.Rows {
		count += len(row.Cells)
	}
	return count
}

// BookableCount возвращает число доступных для бронирования ячеек
func (g *Grid) BookableCount() int {
	count := 0
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			if cell.IsBookable() {
				count++
			}
		}
	}
	return count
}

// Notice уведомление о результате бронирования
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Outcome результат бронирования: уведомление и свежая сетка
type Outcome struct {
	Notice Notice
	Slot   domain.Slot
	Grid   *Grid
}
