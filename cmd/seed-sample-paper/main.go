package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/database"
	"github.com/campusdesk/erp-backend/internal/document"
	"github.com/campusdesk/erp-backend/internal/logger"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/storage"
	"github.com/rs/zerolog"
)

// logNotifier stands in for live notifications, which need the server.
type logNotifier struct{ log zerolog.Logger }

func (n logNotifier) PaperTransitioned(_ context.Context, ev service.PaperEvent) error {
	n.log.Info().Str("paper_id", ev.Paper.ID.String()).Str("status", string(ev.Paper.Status)).Msg("Status changed")
	return nil
}

func main() {
	email := flag.String("email", "", "email of the faculty account that owns the paper (required)")
	courseCode := flag.String("course", "CS3301", "course code")
	academicYear := flag.String("year", "2024-2025", "academic year")
	examPeriod := flag.String("exam", "NOV/DEC 2024", "examination session")
	submit := flag.Bool("submit", false, "submit the paper and generate its document")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *email == "" {
		log.Fatal().Msg("-email is required")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	tmpl, err := config.LoadDocumentTemplate(cfg.DocumentTemplatePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid document template")
	}
	docStore, err := storage.NewLocalStorage(cfg.DocumentDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Document storage unavailable")
	}

	accountRepo := repository.NewAccountRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	paperService := service.NewQuestionPaperService(service.QuestionPaperDeps{
		Papers:      repository.NewPaperRepository(pool),
		Courses:     courseRepo,
		Assignments: repository.NewAssignmentRepository(pool),
		Renderer:    document.NewWriter(tmpl),
		Store:       docStore,
		Workbook:    document.WriteDistributionWorkbook,
		Notifier:    logNotifier{log: log},
	}, log)

	// ─── Resolve owner and course ──────────────────────────────────────
	account, err := accountRepo.GetByEmail(ctx, strings.ToLower(*email))
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("Account not found")
	}
	permissions, err := accountRepo.GetPermissionsByRoleID(ctx, account.RoleID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load permissions")
	}
	actor := service.Actor{ID: account.ID, Name: account.Name, Permissions: permissions}

	courses, err := courseRepo.ListCourses(ctx, model.CourseFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list courses")
	}
	var course *model.Course
	for i := range courses {
		if strings.EqualFold(courses[i].Code, *courseCode) {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		log.Fatal().Str("course", *courseCode).Msg("Course not found")
	}

	// ─── Build the paper ───────────────────────────────────────────────
	fmt.Printf("=== Seeding sample paper for %s (%s) ===\n", course.Code, account.Name)

	paper, err := paperService.Create(ctx, actor, model.CreatePaperRequest{
		CourseID:       course.ID,
		RegulationID:   course.RegulationID,
		AcademicYear:   *academicYear,
		Semester:       course.Semester,
		ExamMonthYear:  *examPeriod,
		CODescriptions: model.SampleCODescriptions,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create paper")
	}

	for _, q := range model.SampleQuestions() {
		if _, err := paperService.AddQuestion(ctx, actor, paper.ID, questionRequest(q)); err != nil {
			log.Fatal().Err(err).Str("question", q.Label()).Msg("Failed to add question")
		}
	}
	fmt.Printf("Created DRAFT paper %s with %d questions\n", paper.ID, len(model.SampleQuestions()))

	if !*submit {
		return
	}

	submitted, err := paperService.Submit(ctx, actor, paper.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to submit paper")
	}
	fmt.Printf("Submitted. Document stored as %s\n", submitted.DocumentRef)
}

func questionRequest(q model.Question) model.QuestionRequest {
	return model.QuestionRequest{
		Part:          q.Part,
		Number:        q.Number,
		OrPair:        q.OrPair,
		Option:        q.Option,
		Text:          q.Text,
		Answer:        q.Answer,
		Subdivisions:  q.Subdivisions,
		CourseOutcome: q.CourseOutcome,
		BloomLevel:    q.BloomLevel,
		Marks:         q.Marks,
	}
}
