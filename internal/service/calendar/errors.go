package calendar

import "errors"

var (
	// ErrInvalidSlot возвращается, когда дата или час слота некорректны либо вне рабочих часов
	ErrInvalidSlot = errors.New("calendar: invalid slot")

	// ErrSlotNotBookable возвращается, когда слот не отмечен как доступный в текущей карте
	ErrSlotNotBookable = errors.New("calendar: slot is not bookable")

	// ErrDuplicateSubmission возвращается, когда бронирование слота уже отправлено и ещё не завершено
	ErrDuplicateSubmission = errors.New("calendar: booking already submitted for this slot")

	// ErrInvalidDirection возвращается при неизвестном направлении навигации
	ErrInvalidDirection = errors.New("calendar: invalid week direction")
)
