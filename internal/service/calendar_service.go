package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/model"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/repository"
)

// ── iCalendar 导出 ──────────────────────────────────────────
//
// 每条值班安排生成一个按周重复的全天 VEVENT：
//   - DTSTART 为安排创建日起的第一个对应星期
//   - RRULE:FREQ=WEEKLY;BYDAY=<day>
//   - UID 由 assignment id 派生，重复导出时保持稳定
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//Idreesia//Duty Roster//EN"

var icsWeekdays = map[string]string{
	"monday": "MO", "tuesday": "TU", "wednesday": "WE", "thursday": "TH",
	"friday": "FR", "saturday": "SA", "sunday": "SU",
}

// CalendarService 值班日历业务接口
type CalendarService interface {
	// KarkunCalendar 返回 ICS 内容与建议文件名
	KarkunCalendar(ctx context.Context, userID uint) (string, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例；timezone 无法解析时使用 UTC
func NewCalendarService(repo *repository.Repository, timezone string, logger *zap.Logger) CalendarService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("无法加载时区，日历使用 UTC", zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}
	return &calendarService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

func (s *calendarService) KarkunCalendar(ctx context.Context, userID uint) (string, string, error) {
	user, err := findUser(ctx, s.repo, s.logger, userID)
	if err != nil {
		return "", "", err
	}

	rosters, err := s.repo.DutyRoster.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询 karkun 名册失败", zap.Uint("user_id", userID), zap.Error(err))
		return "", "", err
	}

	now := s.now().In(s.loc)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(user.Name + " duties")
	cal.SetXWRTimezone(s.loc.String())

	for i := range rosters {
		r := &rosters[i]
		for j := range r.Assignments {
			a := &r.Assignments[j]
			byDay, ok := icsWeekdays[a.Day]
			if !ok {
				continue
			}

			anchor := a.CreatedAt
			if anchor.IsZero() {
				anchor = now
			}
			start := nextWeekday(anchor.In(s.loc), model.DayIndex(a.Day))

			event := cal.AddEvent(fmt.Sprintf("duty-assignment-%d@idreesia", a.ID))
			event.SetDtStampTime(now)
			event.SetSummary(eventSummary(a, r.Mehfil))
			if r.Mehfil != nil && r.Mehfil.AddressEn != "" {
				event.SetLocation(r.Mehfil.AddressEn)
			}
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(start.AddDate(0, 0, 1))
			event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+byDay)
		}
	}

	filename := fmt.Sprintf("duties_%d.ics", user.ID)
	return cal.Serialize(), filename, nil
}

// eventSummary 如 "Coordinator - 12 Gulshan"
func eventSummary(a *model.DutyRosterAssignment, mehfil *model.MehfilDirectory) string {
	name := "Duty"
	if a.DutyType != nil {
		name = a.DutyType.Name
	}
	if mehfil == nil {
		return name
	}
	return strings.TrimSpace(fmt.Sprintf("%s - %s %s", name, mehfil.MehfilNumber, mehfil.NameEn))
}

// nextWeekday 返回 from 当天或之后第一个目标星期（dayIdx: monday=0）的零点
func nextWeekday(from time.Time, dayIdx int) time.Time {
	// time.Weekday: Sunday=0 … Saturday=6 → monday=0 … sunday=6
	current := (int(from.Weekday()) + 6) % 7
	delta := (dayIdx - current + 7) % 7
	d := from.AddDate(0, 0, delta)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, from.Location())
}
