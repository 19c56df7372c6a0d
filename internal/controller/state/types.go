package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ждём время для новых уроков в формате HH:mm
	StateEnteringTime UserState = "entering_time"
)

// UserData хранит, с какой доской работает пользователь, и состояние диалога
type UserData struct {
	State     UserState
	TeacherID int64 // 0 - доска не выбрана
}
