package metrics

import (
	"sort"
	"time"

	"support-desk/internal/entities"
	"support-desk/pkg/constants"
)

type ScheduleItem struct {
	TicketID    string    `json:"ticket_id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AssignedTo  string    `json:"assigned_to"`
	DueDate     time.Time `json:"due_date"`
}

type ScheduleDay struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Items   []ScheduleItem `json:"items"`
}

type WeekSchedule struct {
	WeekStart  string        `json:"week_start"`
	WeekEnd    string        `json:"week_end"`
	Days       []ScheduleDay `json:"days"`
	TotalTasks int           `json:"total_tasks"`
}

var weekdayNames = [7]string{
	"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье",
}

const dateLayout = "2006-01-02"

// BuildWeekSchedule раскладывает заявки со сроком на неделю (пн-вс), содержащую date.
// Дней всегда семь. Закрытые заявки не показываются.
func BuildWeekSchedule(tickets []entities.Ticket, date time.Time) WeekSchedule {
	start := StartOfWeek(date)
	end := start.AddDate(0, 0, 7)

	ws := WeekSchedule{
		WeekStart: start.Format(dateLayout),
		WeekEnd:   end.AddDate(0, 0, -1).Format(dateLayout),
		Days:      make([]ScheduleDay, 7),
	}
	for i := range ws.Days {
		day := start.AddDate(0, 0, i)
		ws.Days[i] = ScheduleDay{
			Date:    day.Format(dateLayout),
			Weekday: weekdayNames[i],
			Items:   make([]ScheduleItem, 0),
		}
	}

	loc := date.Location()
	for _, t := range tickets {
		if !t.DueDate.Valid || t.Status == constants.StatusClosed {
			continue
		}
		due := t.DueDate.Time.In(loc)
		if due.Before(start) || !due.Before(end) {
			continue
		}
		i := (int(due.Weekday()) + 6) % 7
		ws.Days[i].Items = append(ws.Days[i].Items, ScheduleItem{
			TicketID:    t.ID,
			Title:       t.Title,
			CompanyName: t.CompanyName,
			Priority:    t.Priority,
			Status:      t.Status,
			AssignedTo:  t.AssignedTo,
			DueDate:     due,
		})
		ws.TotalTasks++
	}

	for i := range ws.Days {
		items := ws.Days[i].Items
		sort.SliceStable(items, func(a, b int) bool {
			if !items[a].DueDate.Equal(items[b].DueDate) {
				return items[a].DueDate.Before(items[b].DueDate)
			}
			return constants.PriorityRank(items[a].Priority) < constants.PriorityRank(items[b].Priority)
		})
	}
	return ws
}
