package calendar_page

import (
	"net/http"

	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

// SessionStore выдает контроллер календаря текущей сессии
type SessionStore interface {
	Resolve(w http.ResponseWriter, r *http.Request) *calendar.Controller
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
