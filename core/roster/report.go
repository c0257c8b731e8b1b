package roster

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/campus/core"
)

func newReportID() string {
	return "DR-" + uuid.New().String()
}

// AddDailyReport logs a dated note on the student, ahead of all previous ones.
// Blank text is rejected with ErrEmptyReport; an empty mood means neutral.
func (svc *Service) AddDailyReport(ctx context.Context, studentID int, nr NewDailyReport) (Student, error) {
	nr.Report = core.CleanString(nr.Report)
	if nr.Report == "" {
		return Student{}, ErrEmptyReport
	}
	nr.Teacher = core.CleanString(nr.Teacher)
	if nr.Mood == "" {
		nr.Mood = MoodNeutral
	}
	if err := svc.validate.Struct(nr); err != nil {
		return Student{}, err
	}

	report := DailyReport{
		ID:      newReportID(),
		Teacher: nr.Teacher,
		Date:    core.Today(),
		Report:  nr.Report,
		Mood:    nr.Mood,
	}
	s, err := svc.repo.UpdateStudent(ctx, studentID, func(s *Student) error {
		s.DailyReports = append([]DailyReport{report}, s.DailyReports...)
		return nil
	})
	if err != nil {
		return Student{}, err
	}

	svc.logger.Info("daily report added", map[string]interface{}{"student": s.ID, "report": report.ID})
	return s, nil
}
