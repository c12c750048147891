package certificate

import (
	"context"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/progress"
	"github.com/darasahq/darasa/core/user"
)

// issuedOnFormat renders the certificate issue date, e.g. "August 31, 2026".
const issuedOnFormat = "January 2, 2006"

var (
	// errors
	ErrNotFound = errors.New("certificate not found")
	// ErrCertificateExists is returned by repositories when an insert hits
	// the (user, course) uniqueness constraint.
	ErrCertificateExists = errors.New("certificate already issued")
)

type (
	Repository interface {
		GetCertificate(ctx context.Context, userID, courseID string) (Certificate, error)
		CreateCertificate(ctx context.Context, c Certificate) (Certificate, error)
	}

	Service interface {
		Get(ctx context.Context, userID string) (Certificate, error)
		// Issue returns the user's course certificate, creating it when the
		// course is complete. The bool reports whether it was newly earned
		// (false: re-fetched an existing one).
		Issue(ctx context.Context, usr user.User) (Certificate, bool, error)
	}

	service struct {
		repo         Repository
		progressRepo progress.Repository
		mailSvc      core.EmailService
		logger       core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, progressRepo progress.Repository, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:         repo,
		progressRepo: progressRepo,
		mailSvc:      mailSvc,
		logger:       logger,
	}
}

func (svc *service) Get(ctx context.Context, userID string) (Certificate, error) {
	return svc.repo.GetCertificate(ctx, userID, course.ID)
}

func (svc *service) Issue(ctx context.Context, usr user.User) (Certificate, bool, error) {
	// a certificate is issued at most once per (user, course)
	cert, err := svc.repo.GetCertificate(ctx, usr.ID, course.ID)
	if err == nil {
		return cert, false, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Certificate{}, false, errors.Wrap(err, "getting certificate")
	}

	records, err := svc.progressRepo.QueryUserProgress(ctx, usr.ID)
	if err != nil {
		return Certificate{}, false, errors.Wrap(err, "querying progress")
	}
	byDay := make(map[int]progress.DayProgress, len(records))
	for _, p := range records {
		byDay[p.Day] = p
	}

	// The completion flag alone is not trusted: each day's required sections
	// are re-checked in case of a write race or legacy records.
	var missing []int
	for day := 1; day <= course.TotalDays; day++ {
		p, ok := byDay[day]
		if !ok || !p.Completed || len(p.MissingSections()) > 0 {
			missing = append(missing, day)
		}
	}
	if len(missing) > 0 {
		return Certificate{}, false, &IncompleteCourseError{
			MissingDays: missing,
			Satisfied:   course.TotalDays - len(missing),
			Total:       course.TotalDays,
		}
	}

	cert = Certificate{
		UserID:       usr.ID,
		CourseID:     course.ID,
		StudentName:  usr.DisplayName(),
		CourseTitle:  course.Title,
		IssuedOn:     time.Now().Format(issuedOnFormat),
		OverallScore: overallScore(records),
		TotalDays:    course.TotalDays,
		CreatedAt:    time.Now().UTC(),
	}

	cert, err = svc.repo.CreateCertificate(ctx, cert)
	if err != nil {
		// concurrent double-submit: the constraint won; return the existing row
		if errors.Cause(err) == ErrCertificateExists {
			cert, err = svc.repo.GetCertificate(ctx, usr.ID, course.ID)
			return cert, false, errors.Wrap(err, "re-getting certificate")
		}
		return Certificate{}, false, errors.Wrap(err, "creating certificate")
	}

	svc.sendCertificateMail(usr, cert)
	return cert, true, nil
}

// overallScore is the mean of every quiz score recorded across all days,
// rounded to the nearest integer; 0 when no quizzes were recorded.
func overallScore(records []progress.DayProgress) int {
	var sum, count int
	for _, p := range records {
		for _, score := range p.QuizScores {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func (svc *service) sendCertificateMail(usr user.User, cert Certificate) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: cert.StudentName, Address: usr.Email}},
		Subject:      "Your Course Certificate",
		TemplateName: "certificate",
		TemplateData: cert,
	})
}
