package service

import (
	"context"
	"fmt"
	"school-api/config"
	"school-api/logger"
	"school-api/model"
	"school-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// AttendanceService records student check-ins and reports them per class.
type AttendanceService struct {
	logRepo  repository.IAttendanceLogRepository
	userRepo repository.IUserRepository
	clock    Clock
	windows  []minuteRange
}

type minuteRange struct{ start, end int }

// NewAttendanceService parses the configured check-in windows. With no windows, check-in is always open.
func NewAttendanceService(logRepo repository.IAttendanceLogRepository, userRepo repository.IUserRepository, clock Clock, windows []config.CheckInWindow) (*AttendanceService, error) {
	parsed := make([]minuteRange, 0, len(windows))
	for _, w := range windows {
		start, err := parseClock(w.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid check-in window start %q: %w", w.Start, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return nil, fmt.Errorf("invalid check-in window end %q: %w", w.End, err)
		}
		parsed = append(parsed, minuteRange{start: start, end: end})
	}
	return &AttendanceService{logRepo: logRepo, userRepo: userRepo, clock: clock, windows: parsed}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (s *AttendanceService) checkInOpen(now time.Time) bool {
	if len(s.windows) == 0 {
		return true
	}
	minute := now.Hour()*60 + now.Minute()
	for _, w := range s.windows {
		if w.contains(minute) {
			return true
		}
	}
	return false
}

// contains treats a window whose start is after its end as running past midnight.
func (w minuteRange) contains(minute int) bool {
	if w.start <= w.end {
		return minute >= w.start && minute <= w.end
	}
	return minute >= w.start || minute <= w.end
}

// CreateLog stamps a check-in for the caller with today's date and the current clock time.
func (s *AttendanceService) CreateLog(ctx context.Context, identity model.Identity, req model.CreateAttendanceLogRequest) (*model.AttendanceLog, error) {
	now := s.clock.now()
	if !s.checkInOpen(now) {
		return nil, ErrOutsideCheckInWindow
	}

	entry := &model.AttendanceLog{
		StudentID: identity.ID,
		Date:      dateOnly(now),
		Time:      now.Format("15:04"),
		Location:  req.Location,
		Remark:    req.Remark,
	}
	if err := s.logRepo.CreateLog(ctx, entry); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"student_id": identity.ID,
		"location":   entry.Location,
	}).Info("Attendance logged")

	return s.logRepo.GetLogByID(ctx, entry.ID)
}

// ClassStatus groups today's logs by student, keyed "<serial> <name>".
// Students without a log today map to an empty list.
func (s *AttendanceService) ClassStatus(ctx context.Context, grade, class int) (map[string][]*model.AttendanceLog, error) {
	logs, err := s.logRepo.GetLogsByDateForClass(ctx, s.clock.today(), grade, class)
	if err != nil {
		return nil, err
	}
	students, err := s.userRepo.GetUsersByClass(ctx, grade, class)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]*model.AttendanceLog, len(students))
	keys := make(map[string]string, len(students))
	for _, st := range students {
		key := fmt.Sprintf("%d %s", st.Serial, st.Name)
		keys[st.ID.String()] = key
		byStudent[key] = []*model.AttendanceLog{}
	}
	for _, l := range logs {
		if key, ok := keys[l.StudentID.String()]; ok {
			byStudent[key] = append(byStudent[key], l)
		}
	}
	return byStudent, nil
}
