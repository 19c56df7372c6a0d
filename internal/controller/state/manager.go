package state

import (
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, выбранная доска сохраняется
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).State = state
}

// Board возвращает учителя, доску которого открыл пользователь
func (sm *Manager) Board(telegramID int64) (int64, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists && userData.TeacherID != 0 {
		return userData.TeacherID, true
	}
	return 0, false
}

// SetBoard запоминает доску пользователя
func (sm *Manager) SetBoard(telegramID, teacherID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).TeacherID = teacherID
}

// ForgetBoard отвязывает всех пользователей от доски учителя
func (sm *Manager) ForgetBoard(teacherID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for telegramID, userData := range sm.states {
		if userData.TeacherID != teacherID {
			continue
		}
		if userData.State == StateNone {
			delete(sm.states, telegramID)
			continue
		}
		userData.TeacherID = 0
	}
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// entry вызывается под sm.mu
func (sm *Manager) entry(telegramID int64) *UserData {
	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{}
		sm.states[telegramID] = userData
	}
	return userData
}
