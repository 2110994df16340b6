package constants

import "strings"

// --- СТАТУСЫ ЗАЯВОК (совпадают со значениями в БД) ---
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Значение фильтра "без ограничения".
const FilterAll = "all"

// NonTerminalStatuses - единственный источник истины для "ожидающих" заявок.
var NonTerminalStatuses = []string{
	StatusOpen,
	StatusInProgress,
}

var AllStatuses = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// Старые названия статусов из ранних версий интерфейса.
var legacyStatuses = map[string]string{
	"pending":     StatusOpen,
	"scheduled":   StatusOpen,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
}

func IsPendingStatus(status string) bool {
	return contains(NonTerminalStatuses, status)
}

func IsKnownStatus(status string) bool {
	return contains(AllStatuses, status)
}

// NormalizeStatus приводит регистр и старые названия к каноническому виду.
// Неизвестное значение возвращается как есть (после приведения регистра).
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if canonical, ok := legacyStatuses[s]; ok {
		return canonical
	}
	return s
}

// --- ПРИОРИТЕТЫ ---
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var AllPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

func IsKnownPriority(priority string) bool {
	return contains(AllPriorities, priority)
}

// PriorityRank: high < medium < low, для сортировки по убыванию важности.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
